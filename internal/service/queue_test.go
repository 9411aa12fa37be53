package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoursongrequest/ysr/internal/domain"
)

func songRequest(id, songID, title, name string, amount string, at time.Time, status domain.RequestStatus) *domain.Request {
	return &domain.Request{
		ID:            id,
		PerformerID:   "p1",
		SongID:        &songID,
		SongTitle:     title,
		RequesterName: name,
		AmountPaid:    decimal.RequireFromString(amount),
		Status:        status,
		CreatedAt:     at,
	}
}

func TestProjectQueue_GroupsBySong(t *testing.T) {
	base := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)

	requests := []*domain.Request{
		songRequest("r1", "s1", "Wonderwall", "alice", "5.00", base, domain.RequestStatusPending),
		songRequest("r2", "s2", "Yesterday", "bob", "5.00", base.Add(time.Minute), domain.RequestStatusPending),
		songRequest("r3", "s1", "Wonderwall", "carol", "5.00", base.Add(2*time.Minute), domain.RequestStatusPending),
	}

	view := ProjectQueue(requests, 0)

	require.Len(t, view.Pending, 2)
	assert.Equal(t, "Wonderwall", view.Pending[0].SongTitle)
	assert.Equal(t, []string{"alice", "carol"}, view.Pending[0].Requesters)
	assert.Equal(t, 2, view.Pending[0].RequesterCount())
	assert.Equal(t, "10.00", view.Pending[0].TotalPaid.StringFixed(2))
	assert.Equal(t, "Yesterday", view.Pending[1].SongTitle)
}

func TestProjectQueue_LateJoinDoesNotMoveGroup(t *testing.T) {
	base := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)

	// s1 requested first, s2 second, then another s1 request arrives last.
	requests := []*domain.Request{
		songRequest("r3", "s1", "A", "carol", "5.00", base.Add(2*time.Minute), domain.RequestStatusPending),
		songRequest("r1", "s1", "A", "alice", "5.00", base, domain.RequestStatusPending),
		songRequest("r2", "s2", "B", "bob", "5.00", base.Add(time.Minute), domain.RequestStatusPending),
	}

	view := ProjectQueue(requests, 0)

	require.Len(t, view.Pending, 2)
	assert.Equal(t, "A", view.Pending[0].SongTitle)
	assert.Equal(t, "B", view.Pending[1].SongTitle)
	// Input order was shuffled; grouping follows created_at.
	assert.Equal(t, []string{"alice", "carol"}, view.Pending[0].Requesters)
}

func TestProjectQueue_PlayedNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)

	requests := []*domain.Request{
		songRequest("r1", "s1", "A", "alice", "5.00", base, domain.RequestStatusPlayed),
		songRequest("r2", "s2", "B", "bob", "5.00", base.Add(time.Minute), domain.RequestStatusPlayed),
	}

	view := ProjectQueue(requests, 0)

	require.Len(t, view.Played, 2)
	assert.Equal(t, "B", view.Played[0].SongTitle)
	assert.Equal(t, "A", view.Played[1].SongTitle)
	assert.Empty(t, view.Pending)
}

func TestProjectQueue_TipsNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)

	tip := func(id, name string, at time.Time) *domain.Request {
		return &domain.Request{
			ID:            id,
			PerformerID:   "p1",
			SongTitle:     "Tip Jar",
			RequesterName: name,
			AmountPaid:    decimal.RequireFromString("3.00"),
			Tip:           decimal.RequireFromString("3.00"),
			IsTipOnly:     true,
			Status:        domain.RequestStatusPlayed,
			CreatedAt:     at,
		}
	}

	view := ProjectQueue([]*domain.Request{
		tip("t1", "alice", base),
		tip("t2", "bob", base.Add(time.Minute)),
	}, 0)

	require.Len(t, view.Tips, 2)
	assert.Equal(t, "bob", view.Tips[0].RequesterName)
	assert.Equal(t, "alice", view.Tips[1].RequesterName)
	assert.Empty(t, view.Pending)
	assert.Empty(t, view.Played)
}

func TestProjectQueue_RemainingCapacity(t *testing.T) {
	base := time.Date(2026, 8, 1, 20, 0, 0, 0, time.UTC)

	requests := []*domain.Request{
		songRequest("r1", "s1", "A", "alice", "5.00", base, domain.RequestStatusPending),
		songRequest("r2", "s1", "A", "bob", "5.00", base.Add(time.Second), domain.RequestStatusPending),
		songRequest("r3", "s2", "B", "carol", "5.00", base.Add(2*time.Second), domain.RequestStatusPending),
	}

	view := ProjectQueue(requests, 5)
	// Capacity is measured in queue slots (grouped songs), not raw requests.
	assert.Equal(t, 3, view.RemainingCapacity)

	view = ProjectQueue(requests, 2)
	assert.Equal(t, 0, view.RemainingCapacity)

	view = ProjectQueue(requests, 0)
	assert.Equal(t, domain.UnlimitedCapacity, view.RemainingCapacity)
}

func TestQueueService_Queue(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	song := e.createSong(t, p.ID, "Wonderwall", "5.00")
	e.goLive(t, p.ID, 3)

	e.submitSong(t, p.ID, song.ID, "bob")
	e.submitSong(t, p.ID, song.ID, "carol")

	view, err := e.queue.Queue(context.Background(), p.ID)
	require.NoError(t, err)

	require.Len(t, view.Pending, 1)
	assert.Equal(t, []string{"bob", "carol"}, view.Pending[0].Requesters)
	assert.Equal(t, 3, view.RequestCap)
	assert.Equal(t, 2, view.RemainingCapacity)
}
