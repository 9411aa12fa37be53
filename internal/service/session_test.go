package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoursongrequest/ysr/internal/domain"
)

func TestSessionService_GoLive(t *testing.T) {
	e := newEnv(t, SessionConfig{DefaultDuration: time.Hour})
	p := e.createPerformer(t, "alice")

	state, err := e.sessions.GoLive(context.Background(), p.ID, domain.GoLiveInput{
		RequestCap: 3,
		ActiveTags: []string{"acoustic"},
	})
	require.NoError(t, err)

	assert.True(t, state.IsLive)
	require.NotNil(t, state.SessionEndTime)
	left := state.TimeLeft(time.Now().UTC())
	assert.Greater(t, left, 59*time.Minute)
	assert.LessOrEqual(t, left, time.Hour)
	assert.Equal(t, 3, state.RequestCap)
	assert.Equal(t, []string{"acoustic"}, state.ActiveTags)
}

func TestSessionService_GoLive_NegativeCapRejected(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")

	_, err := e.sessions.GoLive(context.Background(), p.ID, domain.GoLiveInput{RequestCap: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSessionService_Get_LazyDefault(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")

	state, err := e.sessions.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, state.IsLive)
	assert.Zero(t, state.RequestCap)
	assert.Nil(t, state.SessionEndTime)
}

func TestSessionService_GoOffline_GraceAndUndo(t *testing.T) {
	e := newEnv(t, SessionConfig{GraceWindow: 50 * time.Millisecond})
	p := e.createPerformer(t, "alice")
	e.goLive(t, p.ID, 0)

	require.NoError(t, e.sessions.GoOffline(context.Background(), p.ID))
	assert.True(t, e.sessions.OfflinePending(p.ID))

	// Still live while the grace window runs.
	state, err := e.sessions.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, state.IsLive)

	require.NoError(t, e.sessions.UndoOffline(context.Background(), p.ID))
	assert.False(t, e.sessions.OfflinePending(p.ID))

	// A sweep after the deadline must not take the session down.
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, e.sessions.Sweep(context.Background()))

	state, err = e.sessions.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, state.IsLive)
	assert.Equal(t, 1, e.publisher.count(EventOfflineCanceled))
}

func TestSessionService_GoOffline_CommitsAfterGrace(t *testing.T) {
	e := newEnv(t, SessionConfig{
		GraceWindow:         10 * time.Millisecond,
		ClearQueueOnOffline: true,
	})
	p := e.createPerformer(t, "alice")
	song := e.createSong(t, p.ID, "Wonderwall", "5.00")
	e.goLive(t, p.ID, 0, "rock")

	// Queue something so the clear-on-offline policy has work to do.
	_, err := e.requests.Submit(context.Background(), p.ID, domain.SubmitRequestInput{
		SongID:        &song.ID,
		RequesterName: "bob",
	})
	require.NoError(t, err)

	require.NoError(t, e.sessions.GoOffline(context.Background(), p.ID))
	// Second toggle while pending is a no-op.
	require.NoError(t, e.sessions.GoOffline(context.Background(), p.ID))

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, e.sessions.Sweep(context.Background()))

	state, err := e.sessions.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, state.IsLive)
	assert.Nil(t, state.SessionEndTime)
	assert.Empty(t, state.ActiveTags)
	assert.False(t, e.sessions.OfflinePending(p.ID))

	view, err := e.queue.Queue(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Pending)

	// Manual offline does not fire the timer-expiry notification.
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, e.notifier.sessionEndedCount())
}

func TestSessionService_KeepQueuePolicy(t *testing.T) {
	e := newEnv(t, SessionConfig{
		GraceWindow:         10 * time.Millisecond,
		ClearQueueOnOffline: false,
	})
	p := e.createPerformer(t, "alice")
	song := e.createSong(t, p.ID, "Wonderwall", "5.00")
	e.goLive(t, p.ID, 0)
	e.submitSong(t, p.ID, song.ID, "bob")

	require.NoError(t, e.sessions.GoOffline(context.Background(), p.ID))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, e.sessions.Sweep(context.Background()))

	view, err := e.queue.Queue(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, view.Pending, 1)
}

func TestSessionService_Sweep_ExpiresSessionOnce(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")

	_, err := e.sessions.GoLive(context.Background(), p.ID, domain.GoLiveInput{
		Duration: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, e.sessions.Sweep(context.Background()))
	require.NoError(t, e.sessions.Sweep(context.Background()))

	state, err := e.sessions.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, state.IsLive)

	time.Sleep(50 * time.Millisecond) // goroutine notify
	assert.Equal(t, 1, e.notifier.sessionEndedCount())
}

func TestSessionService_GoLive_CancelsPendingOffline(t *testing.T) {
	e := newEnv(t, SessionConfig{GraceWindow: 10 * time.Millisecond})
	p := e.createPerformer(t, "alice")
	e.goLive(t, p.ID, 0)

	require.NoError(t, e.sessions.GoOffline(context.Background(), p.ID))
	e.goLive(t, p.ID, 0)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, e.sessions.Sweep(context.Background()))

	state, err := e.sessions.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, state.IsLive)
}

func TestSessionService_ExtendSession(t *testing.T) {
	e := newEnv(t, SessionConfig{DefaultDuration: time.Minute})
	p := e.createPerformer(t, "alice")

	_, err := e.sessions.ExtendSession(context.Background(), p.ID, 30*time.Minute)
	assert.ErrorIs(t, err, domain.ErrSessionOffline)

	e.goLive(t, p.ID, 0)
	state, err := e.sessions.ExtendSession(context.Background(), p.ID, 30*time.Minute)
	require.NoError(t, err)
	assert.Greater(t, state.TimeLeft(time.Now().UTC()), 29*time.Minute)
}

func TestSessionService_SetCapAndTags(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	e.goLive(t, p.ID, 0)

	state, err := e.sessions.SetCap(context.Background(), p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, state.RequestCap)

	_, err = e.sessions.SetCap(context.Background(), p.ID, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	state, err = e.sessions.SetActiveTags(context.Background(), p.ID, []string{" rock ", "rock", "pop"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rock", "pop"}, state.ActiveTags)
}
