package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoursongrequest/ysr/internal/domain"
)

func TestPerformerService_SetSlug_SetOnce(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	alice := e.createPerformer(t, "alice")
	bob := e.createPerformer(t, "bob")

	require.NoError(t, e.performers.SetSlug(context.Background(), alice.ID, "Alice-Music"))

	got, err := e.performers.GetBySlug(context.Background(), "alice-music")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	// Same value again is fine, any other value is not.
	require.NoError(t, e.performers.SetSlug(context.Background(), alice.ID, "alice-music"))
	err = e.performers.SetSlug(context.Background(), alice.ID, "other")
	assert.ErrorIs(t, err, domain.ErrSlugImmutable)

	err = e.performers.SetSlug(context.Background(), bob.ID, "alice-music")
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestPerformerService_SetSlug_Validation(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")

	for _, slug := range []string{"", "has space", "Ünïcode", "-leading", "trailing-", "a--b"} {
		err := e.performers.SetSlug(context.Background(), p.ID, slug)
		assert.ErrorIs(t, err, domain.ErrValidation, "slug %q", slug)
	}
}

func TestPerformerService_UpdateProfile_KeepsSlug(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	require.NoError(t, e.performers.SetSlug(context.Background(), p.ID, "alice"))

	name := "Alice B"
	updated, err := e.performers.UpdateProfile(context.Background(), p.ID, domain.UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)

	got, err := e.performers.GetBySlug(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
}

func TestPerformerService_PublicPage_Live(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	require.NoError(t, e.performers.SetSlug(context.Background(), p.ID, "alice"))

	rock := e.createSong(t, p.ID, "Rock Song", "5.00", "rock")
	e.createSong(t, p.ID, "Pop Song", "5.00", "pop")
	e.goLive(t, p.ID, 2, "rock")

	e.submitSong(t, p.ID, rock.ID, "bob")

	page, err := e.performers.PublicPage(context.Background(), "alice")
	require.NoError(t, err)

	assert.True(t, page.Session.IsLive)
	// "pop" song filtered out by the active tag.
	require.Len(t, page.Songs, 1)
	assert.Equal(t, "Rock Song", page.Songs[0].Title)
	assert.Equal(t, 1, page.RemainingCapacity)
	assert.Empty(t, page.PlayedSongIDs)
	assert.Empty(t, page.UpcomingGigs)
}

func TestPerformerService_PublicPage_PlayedSongs(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	require.NoError(t, e.performers.SetSlug(context.Background(), p.ID, "alice"))
	song := e.createSong(t, p.ID, "Wonderwall", "5.00")
	e.goLive(t, p.ID, 0)

	r := e.submitSong(t, p.ID, song.ID, "bob")
	require.NoError(t, e.requests.MarkPlayed(context.Background(), p.ID, []string{r.ID}))

	page, err := e.performers.PublicPage(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{song.ID}, page.PlayedSongIDs)
}

func TestPerformerService_PublicPage_OfflineShowsGigs(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	require.NoError(t, e.performers.SetSlug(context.Background(), p.ID, "alice"))
	e.createSong(t, p.ID, "Wonderwall", "5.00", "rock")

	_, err := e.gigs.Create(context.Background(), p.ID, domain.CreateGigInput{
		Date:  time.Now().UTC().Add(48 * time.Hour),
		Venue: "The Spot",
	})
	require.NoError(t, err)

	page, err := e.performers.PublicPage(context.Background(), "alice")
	require.NoError(t, err)

	assert.False(t, page.Session.IsLive)
	// Offline pages show the whole catalog regardless of tags.
	assert.Len(t, page.Songs, 1)
	assert.Equal(t, domain.UnlimitedCapacity, page.RemainingCapacity)
	require.Len(t, page.UpcomingGigs, 1)
	assert.Equal(t, "The Spot", page.UpcomingGigs[0].Venue)
}

func TestPerformerService_PageQR(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	require.NoError(t, e.performers.SetSlug(context.Background(), p.ID, "alice"))

	png, err := e.performers.PageQR(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestPerformerService_Create_Validation(t *testing.T) {
	e := newEnv(t, SessionConfig{})

	_, err := e.performers.Create(context.Background(), domain.CreatePerformerInput{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
