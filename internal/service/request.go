package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/logger"
	"github.com/yoursongrequest/ysr/internal/domain"
	"github.com/yoursongrequest/ysr/internal/service/ports"
)

const (
	EventRequestCreated  = "request.created"
	EventRequestPlayed   = "request.played"
	EventRequestReopened = "request.reopened"
)

type RequestService struct {
	requests     ports.RequestRepo
	transactions ports.TransactionRepo
	songs        ports.SongRepo
	sessions     ports.SessionRepo
	performers   ports.PerformerRepo
	notifier     ports.PerformerNotifier
	publisher    ports.EventPublisher
	logger       logger.Logger
}

func NewRequestService(
	requests ports.RequestRepo,
	transactions ports.TransactionRepo,
	songs ports.SongRepo,
	sessions ports.SessionRepo,
	performers ports.PerformerRepo,
	notifier ports.PerformerNotifier,
	publisher ports.EventPublisher,
	logger logger.Logger,
) *RequestService {
	return &RequestService{
		requests:     requests,
		transactions: transactions,
		songs:        songs,
		sessions:     sessions,
		performers:   performers,
		notifier:     notifier,
		publisher:    publisher,
		logger:       logger,
	}
}

// Submit appends an audience request or tip to the ledger. Song visibility
// and the pending cap are re-checked server side: the client's filtered view
// is advisory only.
func (s *RequestService) Submit(ctx context.Context, performerID string, input domain.SubmitRequestInput) (*domain.Request, error) {
	performer, err := s.performers.GetByID(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("check performer: %w", err)
	}

	name := strings.TrimSpace(input.RequesterName)
	if name == "" {
		return nil, fmt.Errorf("%w: requester name is required", domain.ErrValidation)
	}
	if input.Tip.IsNegative() {
		return nil, fmt.Errorf("%w: tip must not be negative", domain.ErrValidation)
	}

	state, err := s.sessions.Get(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !state.IsLive {
		return nil, domain.ErrSessionOffline
	}

	request := &domain.Request{
		ID:            uuid.New().String(),
		PerformerID:   performerID,
		RequesterName: name,
		Note:          strings.TrimSpace(input.Note),
		Email:         strings.TrimSpace(input.Email),
		Tip:           input.Tip,
		CreatedAt:     time.Now().UTC(),
	}

	pendingCap := 0
	if input.SongID == nil {
		if !input.Tip.IsPositive() {
			return nil, fmt.Errorf("%w: tip amount must be positive", domain.ErrValidation)
		}
		request.SongTitle = "Tip Jar"
		request.AmountPaid = input.Tip
		request.IsTipOnly = true
		// Tips never enter the queue; they are settled at submission time.
		request.Status = domain.RequestStatusPlayed
	} else {
		song, err := s.songs.GetByID(ctx, *input.SongID)
		if err != nil {
			return nil, fmt.Errorf("get song: %w", err)
		}
		if song.PerformerID != performerID {
			return nil, domain.ErrSongNotFound
		}
		if len(state.ActiveTags) > 0 && len(song.Tags) > 0 && !song.HasAnyTag(state.ActiveTags) {
			return nil, domain.ErrSongNotRequestable
		}

		amount := input.AmountPaid
		if amount.IsZero() {
			amount = song.Price.Add(input.Tip)
		}
		if amount.LessThan(song.Price.Add(input.Tip)) {
			return nil, fmt.Errorf("%w: amount does not cover song price and tip", domain.ErrValidation)
		}

		request.SongID = input.SongID
		request.SongTitle = song.Title
		request.AmountPaid = amount
		request.Status = domain.RequestStatusPending
		pendingCap = state.RequestCap
	}

	if err := s.requests.Submit(ctx, request, pendingCap); err != nil {
		return nil, fmt.Errorf("submit request: %w", err)
	}

	if request.IsTipOnly {
		tx := &domain.Transaction{
			ID:          uuid.New().String(),
			PerformerID: performerID,
			RequestID:   request.ID,
			Type:        domain.TransactionTypeTip,
			Details:     fmt.Sprintf("From %s", request.RequesterName),
			Amount:      request.AmountPaid,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.transactions.Create(ctx, tx); err != nil {
			s.logger.Error("failed to record tip transaction",
				logger.String("request_id", request.ID),
				logger.String("error", err.Error()),
			)
		}
		go s.notifier.NotifyTipReceived(context.WithoutCancel(ctx), performer, request)
	} else {
		go s.notifier.NotifyRequestReceived(context.WithoutCancel(ctx), performer, request)
	}

	s.logger.Info("request submitted",
		logger.String("request_id", request.ID),
		logger.String("performer_id", performerID),
		logger.String("song_title", request.SongTitle),
	)
	s.publisher.Publish(performerID, EventRequestCreated, request)

	return request, nil
}

// MarkPlayed transitions the given requests to played and records their
// earnings. Safe to retry: requests already played are skipped and a
// transaction is created at most once per (request, type).
func (s *RequestService) MarkPlayed(ctx context.Context, performerID string, requestIDs []string) error {
	if len(requestIDs) == 0 {
		return fmt.Errorf("%w: no request ids given", domain.ErrValidation)
	}
	if _, err := s.performers.GetByID(ctx, performerID); err != nil {
		return fmt.Errorf("check performer: %w", err)
	}

	flipped, err := s.requests.MarkPlayed(ctx, performerID, requestIDs, splitTransactions)
	if err != nil {
		return fmt.Errorf("mark played: %w", err)
	}

	s.logger.Info("requests marked played",
		logger.String("performer_id", performerID),
		logger.Int("requested", len(requestIDs)),
		logger.Int("flipped", len(flipped)),
	)
	s.publisher.Publish(performerID, EventRequestPlayed, requestIDs)

	return nil
}

// splitTransactions turns a played request into its earnings rows: the song
// portion as a Request line and, when a tip was added, the tip as its own
// Tip line.
func splitTransactions(r *domain.Request) []*domain.Transaction {
	now := time.Now().UTC()
	base := domain.Transaction{
		PerformerID: r.PerformerID,
		RequestID:   r.ID,
		Details:     fmt.Sprintf("%s by %s", r.SongTitle, r.RequesterName),
		CreatedAt:   now,
	}

	if r.Tip.IsPositive() {
		song := base
		song.ID = uuid.New().String()
		song.Type = domain.TransactionTypeRequest
		song.Amount = r.AmountPaid.Sub(r.Tip)

		tip := base
		tip.ID = uuid.New().String()
		tip.Type = domain.TransactionTypeTip
		tip.Amount = r.Tip

		return []*domain.Transaction{&song, &tip}
	}

	tx := base
	tx.ID = uuid.New().String()
	tx.Type = domain.TransactionTypeRequest
	tx.Amount = r.AmountPaid

	return []*domain.Transaction{&tx}
}

// Reopen uncounts the played requests for a song so the audience can request
// it again. Recorded transactions are kept; earnings are never clawed back.
func (s *RequestService) Reopen(ctx context.Context, performerID, songID string) error {
	song, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return fmt.Errorf("get song: %w", err)
	}
	if song.PerformerID != performerID {
		return domain.ErrSongNotFound
	}

	if err := s.requests.DeletePlayedBySong(ctx, performerID, songID); err != nil {
		return fmt.Errorf("reopen song: %w", err)
	}

	s.logger.Info("song reopened for requests",
		logger.String("performer_id", performerID),
		logger.String("song_id", songID),
	)
	s.publisher.Publish(performerID, EventRequestReopened, songID)

	return nil
}

func (s *RequestService) ListForPerformer(ctx context.Context, performerID string) ([]*domain.Request, error) {
	return s.requests.ListByPerformer(ctx, performerID)
}
