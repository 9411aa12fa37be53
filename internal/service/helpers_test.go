package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/logger"
	"github.com/yoursongrequest/ysr/internal/domain"
	"github.com/yoursongrequest/ysr/internal/storage/memory"
)

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := logger.InitLogger("slog", "test", "test", logger.WithLevel(logger.ErrorLevel))
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

type fakeNotifier struct {
	mu           sync.Mutex
	requests     int
	tips         int
	sessionEnded int
}

func (f *fakeNotifier) NotifyRequestReceived(_ context.Context, _ *domain.Performer, _ *domain.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
}

func (f *fakeNotifier) NotifyTipReceived(_ context.Context, _ *domain.Performer, _ *domain.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tips++
}

func (f *fakeNotifier) NotifySessionEnded(_ context.Context, _ *domain.Performer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionEnded++
}

func (f *fakeNotifier) sessionEndedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionEnded
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (f *fakePublisher) Publish(_, event string, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e == event {
			n++
		}
	}
	return n
}

type env struct {
	store     *memory.Store
	notifier  *fakeNotifier
	publisher *fakePublisher

	performers *PerformerService
	catalog    *CatalogService
	sessions   *SessionService
	requests   *RequestService
	queue      *QueueService
	payouts    *PayoutService
	gigs       *GigService
}

func newEnv(t *testing.T, cfg SessionConfig) *env {
	t.Helper()

	log := newTestLogger(t)
	store := memory.NewStore()
	notifier := &fakeNotifier{}
	publisher := &fakePublisher{}

	return &env{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		performers: NewPerformerService(
			store.Performers(), store.Songs(), store.Sessions(), store.Requests(), store.Gigs(),
			"https://example.com",
		),
		catalog: NewCatalogService(store.Songs(), store.Performers()),
		sessions: NewSessionService(
			store.Sessions(), store.Requests(), store.Performers(),
			notifier, publisher, log, cfg,
		),
		requests: NewRequestService(
			store.Requests(), store.Transactions(), store.Songs(), store.Sessions(),
			store.Performers(), notifier, publisher, log,
		),
		queue:   NewQueueService(store.Requests(), store.Sessions()),
		payouts: NewPayoutService(store.Transactions(), store.Performers(), decimal.RequireFromString("0.20")),
		gigs:    NewGigService(store.Gigs(), store.Performers()),
	}
}

func (e *env) createPerformer(t *testing.T, name string) *domain.Performer {
	t.Helper()
	p, err := e.performers.Create(context.Background(), domain.CreatePerformerInput{Name: name})
	require.NoError(t, err)
	return p
}

func (e *env) createSong(t *testing.T, performerID, title, price string, tags ...string) *domain.Song {
	t.Helper()
	s, err := e.catalog.CreateSong(context.Background(), performerID, domain.CreateSongInput{
		Title: title,
		Price: decimal.RequireFromString(price),
		Tags:  tags,
	})
	require.NoError(t, err)
	return s
}

func (e *env) goLive(t *testing.T, performerID string, requestCap int, tags ...string) {
	t.Helper()
	_, err := e.sessions.GoLive(context.Background(), performerID, domain.GoLiveInput{
		RequestCap: requestCap,
		ActiveTags: tags,
	})
	require.NoError(t, err)
}

func (e *env) submitSong(t *testing.T, performerID, songID, name string) *domain.Request {
	t.Helper()
	r, err := e.requests.Submit(context.Background(), performerID, domain.SubmitRequestInput{
		SongID:        &songID,
		RequesterName: name,
	})
	require.NoError(t, err)
	return r
}
