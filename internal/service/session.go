package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wb-go/wbf/logger"
	"github.com/yoursongrequest/ysr/internal/domain"
	"github.com/yoursongrequest/ysr/internal/service/ports"
)

const (
	EventSessionUpdated  = "session.updated"
	EventOfflinePending  = "session.offline_pending"
	EventOfflineCanceled = "session.offline_canceled"
)

type SessionConfig struct {
	DefaultDuration     time.Duration
	GraceWindow         time.Duration
	ClearQueueOnOffline bool
}

// SessionService owns the per-performer live toggle, the session timer and
// the staged go-offline transition. Exactly one dashboard drives writes per
// performer, so the staging map only has to serialize against the sweeper.
type SessionService struct {
	sessions   ports.SessionRepo
	requests   ports.RequestRepo
	performers ports.PerformerRepo
	notifier   ports.PerformerNotifier
	publisher  ports.EventPublisher
	logger     logger.Logger
	cfg        SessionConfig

	mu             sync.Mutex
	pendingOffline map[string]time.Time // performer id -> commit deadline
}

func NewSessionService(
	sessions ports.SessionRepo,
	requests ports.RequestRepo,
	performers ports.PerformerRepo,
	notifier ports.PerformerNotifier,
	publisher ports.EventPublisher,
	logger logger.Logger,
	cfg SessionConfig,
) *SessionService {
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = time.Hour
	}
	if cfg.GraceWindow <= 0 {
		cfg.GraceWindow = 5 * time.Second
	}
	return &SessionService{
		sessions:       sessions,
		requests:       requests,
		performers:     performers,
		notifier:       notifier,
		publisher:      publisher,
		logger:         logger,
		cfg:            cfg,
		pendingOffline: make(map[string]time.Time),
	}
}

func (s *SessionService) Get(ctx context.Context, performerID string) (*domain.SessionState, error) {
	if _, err := s.performers.GetByID(ctx, performerID); err != nil {
		return nil, fmt.Errorf("check performer: %w", err)
	}
	return s.sessions.Get(ctx, performerID)
}

// OfflinePending reports whether a staged go-offline transition is waiting
// out its grace window.
func (s *SessionService) OfflinePending(performerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pendingOffline[performerID]
	return ok
}

func (s *SessionService) GoLive(ctx context.Context, performerID string, input domain.GoLiveInput) (*domain.SessionState, error) {
	if input.RequestCap < 0 {
		return nil, fmt.Errorf("%w: request cap must not be negative", domain.ErrValidation)
	}
	if _, err := s.performers.GetByID(ctx, performerID); err != nil {
		return nil, fmt.Errorf("check performer: %w", err)
	}

	// Toggling back to live cancels a staged offline transition.
	s.mu.Lock()
	delete(s.pendingOffline, performerID)
	s.mu.Unlock()

	state, err := s.sessions.Get(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	duration := input.Duration
	if duration <= 0 {
		duration = s.cfg.DefaultDuration
	}
	end := time.Now().UTC().Add(duration)

	state.IsLive = true
	state.SessionEndTime = &end
	state.RequestCap = input.RequestCap
	state.ActiveTags = input.ActiveTags
	state.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("performer went live",
		logger.String("performer_id", performerID),
		logger.Duration("duration", duration),
		logger.Int("request_cap", input.RequestCap),
	)
	s.publisher.Publish(performerID, EventSessionUpdated, state)

	return state, nil
}

// GoOffline stages the transition for the grace window; UndoOffline cancels
// it. A second call while one is pending is a no-op so the commit cannot be
// scheduled twice.
func (s *SessionService) GoOffline(ctx context.Context, performerID string) error {
	state, err := s.Get(ctx, performerID)
	if err != nil {
		return err
	}
	if !state.IsLive {
		return nil
	}

	s.mu.Lock()
	if _, ok := s.pendingOffline[performerID]; ok {
		s.mu.Unlock()
		return nil
	}
	deadline := time.Now().UTC().Add(s.cfg.GraceWindow)
	s.pendingOffline[performerID] = deadline
	s.mu.Unlock()

	s.logger.Info("offline transition staged",
		logger.String("performer_id", performerID),
		logger.Duration("grace", s.cfg.GraceWindow),
	)
	s.publisher.Publish(performerID, EventOfflinePending, map[string]any{
		"commit_at": deadline,
	})

	return nil
}

func (s *SessionService) UndoOffline(ctx context.Context, performerID string) error {
	if _, err := s.performers.GetByID(ctx, performerID); err != nil {
		return fmt.Errorf("check performer: %w", err)
	}

	s.mu.Lock()
	_, ok := s.pendingOffline[performerID]
	delete(s.pendingOffline, performerID)
	s.mu.Unlock()

	if ok {
		s.logger.Info("offline transition canceled", logger.String("performer_id", performerID))
		s.publisher.Publish(performerID, EventOfflineCanceled, nil)
	}

	return nil
}

func (s *SessionService) ExtendSession(ctx context.Context, performerID string, d time.Duration) (*domain.SessionState, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrValidation)
	}

	state, err := s.Get(ctx, performerID)
	if err != nil {
		return nil, err
	}
	if !state.IsLive {
		return nil, domain.ErrSessionOffline
	}

	end := time.Now().UTC().Add(d)
	state.SessionEndTime = &end
	state.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info("session extended",
		logger.String("performer_id", performerID),
		logger.Duration("duration", d),
	)
	s.publisher.Publish(performerID, EventSessionUpdated, state)

	return state, nil
}

// SetCap updates the request cap; while live the change reaches observers
// immediately through the publisher.
func (s *SessionService) SetCap(ctx context.Context, performerID string, cap int) (*domain.SessionState, error) {
	if cap < 0 {
		return nil, fmt.Errorf("%w: request cap must not be negative", domain.ErrValidation)
	}

	state, err := s.Get(ctx, performerID)
	if err != nil {
		return nil, err
	}
	state.RequestCap = cap
	state.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.publisher.Publish(performerID, EventSessionUpdated, state)

	return state, nil
}

func (s *SessionService) SetActiveTags(ctx context.Context, performerID string, tags []string) (*domain.SessionState, error) {
	state, err := s.Get(ctx, performerID)
	if err != nil {
		return nil, err
	}
	state.ActiveTags = normalizeTags(tags)
	state.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.publisher.Publish(performerID, EventSessionUpdated, state)

	return state, nil
}

// Sweep is driven by the one-second scheduler tick. It commits staged manual
// offline transitions whose grace window has elapsed and takes expired live
// sessions offline exactly once.
func (s *SessionService) Sweep(ctx context.Context) error {
	now := time.Now().UTC()

	s.mu.Lock()
	var due []string
	for id, deadline := range s.pendingOffline {
		if !now.Before(deadline) {
			due = append(due, id)
			delete(s.pendingOffline, id)
		}
	}
	s.mu.Unlock()

	for _, id := range due {
		if err := s.commitOffline(ctx, id, "manual"); err != nil {
			s.logger.Error("failed to commit offline transition",
				logger.String("performer_id", id),
				logger.String("error", err.Error()),
			)
		}
	}

	live, err := s.sessions.ListLive(ctx)
	if err != nil {
		return fmt.Errorf("list live sessions: %w", err)
	}

	for _, state := range live {
		if !state.Expired(now) {
			continue
		}
		if err := s.commitOffline(ctx, state.PerformerID, "expired"); err != nil {
			s.logger.Error("failed to auto-offline expired session",
				logger.String("performer_id", state.PerformerID),
				logger.String("error", err.Error()),
			)
		}
	}

	return nil
}

func (s *SessionService) commitOffline(ctx context.Context, performerID, reason string) error {
	state, err := s.sessions.Get(ctx, performerID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if !state.IsLive {
		return nil
	}

	state.IsLive = false
	state.SessionEndTime = nil
	state.ActiveTags = nil
	state.UpdatedAt = time.Now().UTC()

	if err := s.sessions.Save(ctx, state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if s.cfg.ClearQueueOnOffline {
		if err := s.requests.DeletePending(ctx, performerID); err != nil {
			return fmt.Errorf("clear pending requests: %w", err)
		}
	}

	s.mu.Lock()
	delete(s.pendingOffline, performerID)
	s.mu.Unlock()

	s.logger.Info("performer went offline",
		logger.String("performer_id", performerID),
		logger.String("reason", reason),
	)
	s.publisher.Publish(performerID, EventSessionUpdated, state)

	if reason == "expired" {
		performer, err := s.performers.GetByID(ctx, performerID)
		if err != nil {
			s.logger.Error("failed to get performer for session-end notification",
				logger.String("performer_id", performerID),
			)
			return nil
		}
		go s.notifier.NotifySessionEnded(context.WithoutCancel(ctx), performer)
	}

	return nil
}
