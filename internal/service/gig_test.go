package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoursongrequest/ysr/internal/domain"
)

func TestGigService_CRUD(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")

	gig, err := e.gigs.Create(context.Background(), p.ID, domain.CreateGigInput{
		Date:      time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime: "20:00",
		Venue:     "The Spot",
		Address:   "12 Main St",
	})
	require.NoError(t, err)

	venue := "The Other Spot"
	updated, err := e.gigs.Update(context.Background(), p.ID, gig.ID, domain.UpdateGigInput{Venue: &venue})
	require.NoError(t, err)
	assert.Equal(t, "The Other Spot", updated.Venue)

	other := e.createPerformer(t, "bob")
	_, err = e.gigs.Update(context.Background(), other.ID, gig.ID, domain.UpdateGigInput{Venue: &venue})
	assert.ErrorIs(t, err, domain.ErrGigNotFound)

	require.NoError(t, e.gigs.Delete(context.Background(), p.ID, gig.ID))
	gigs, err := e.gigs.List(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, gigs)
}

func TestGigService_Create_Validation(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")

	_, err := e.gigs.Create(context.Background(), p.ID, domain.CreateGigInput{
		Date: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.gigs.Create(context.Background(), p.ID, domain.CreateGigInput{
		Venue: "The Spot",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpcomingGigs(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)
	gig := func(day int) *domain.Gig {
		return &domain.Gig{Date: time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC)}
	}

	upcoming := upcomingGigs([]*domain.Gig{gig(31), gig(10), gig(29), gig(30)}, now)

	// Past gigs dropped, today kept, soonest first.
	require.Len(t, upcoming, 3)
	assert.Equal(t, 29, upcoming[0].Date.Day())
	assert.Equal(t, 30, upcoming[1].Date.Day())
	assert.Equal(t, 31, upcoming[2].Date.Day())
}
