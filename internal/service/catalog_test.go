package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoursongrequest/ysr/internal/domain"
)

func TestCatalogService_CreateSong_AssignsPosition(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")

	first := e.createSong(t, p.ID, "First", "5.00")
	second := e.createSong(t, p.ID, "Second", "5.00")

	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
}

func TestCatalogService_CreateSong_Validation(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")

	_, err := e.catalog.CreateSong(context.Background(), p.ID, domain.CreateSongInput{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.catalog.CreateSong(context.Background(), p.ID, domain.CreateSongInput{
		Title: "Song",
		Price: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalogService_Reorder(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	a := e.createSong(t, p.ID, "A", "5.00")
	b := e.createSong(t, p.ID, "B", "5.00")
	c := e.createSong(t, p.ID, "C", "5.00")

	require.NoError(t, e.catalog.Reorder(context.Background(), p.ID, []string{c.ID, a.ID, b.ID}))

	songs, err := e.catalog.List(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, songs, 3)
	assert.Equal(t, "C", songs[0].Title)
	assert.Equal(t, "A", songs[1].Title)
	assert.Equal(t, "B", songs[2].Title)
}

func TestCatalogService_Reorder_RejectsPartialOrDuplicate(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	a := e.createSong(t, p.ID, "A", "5.00")
	b := e.createSong(t, p.ID, "B", "5.00")

	err := e.catalog.Reorder(context.Background(), p.ID, []string{a.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = e.catalog.Reorder(context.Background(), p.ID, []string{a.ID, a.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = e.catalog.Reorder(context.Background(), p.ID, []string{a.ID, "not-a-song"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_ = b
}

func TestCatalogService_UpdateSong_OwnershipChecked(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	alice := e.createPerformer(t, "alice")
	mallory := e.createPerformer(t, "mallory")
	song := e.createSong(t, alice.ID, "A", "5.00")

	title := "Stolen"
	_, err := e.catalog.UpdateSong(context.Background(), mallory.ID, song.ID, domain.UpdateSongInput{Title: &title})
	assert.ErrorIs(t, err, domain.ErrSongNotFound)
}

func TestCatalogService_Tags(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	e.createSong(t, p.ID, "A", "5.00", "rock", "acoustic")
	e.createSong(t, p.ID, "B", "5.00", "rock", "pop")
	e.createSong(t, p.ID, "C", "5.00")

	tags, err := e.catalog.Tags(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"acoustic", "pop", "rock"}, tags)
}

func TestVisibleSongs(t *testing.T) {
	rock := &domain.Song{ID: "s1", Tags: []string{"rock"}}
	pop := &domain.Song{ID: "s2", Tags: []string{"pop"}}
	untagged := &domain.Song{ID: "s3"}
	catalog := []*domain.Song{rock, pop, untagged}

	assert.Equal(t, catalog, VisibleSongs(catalog, nil))

	visible := VisibleSongs(catalog, []string{"rock"})
	require.Len(t, visible, 2)
	assert.Equal(t, "s1", visible[0].ID)
	// Untagged songs are always requestable.
	assert.Equal(t, "s3", visible[1].ID)

	visible = VisibleSongs(catalog, []string{"jazz"})
	require.Len(t, visible, 1)
	assert.Equal(t, "s3", visible[0].ID)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"rock", "pop"}, normalizeTags([]string{" rock ", "rock", "", "pop"}))
}
