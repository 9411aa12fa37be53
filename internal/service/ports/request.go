package ports

import (
	"context"

	"github.com/yoursongrequest/ysr/internal/domain"
)

type RequestRepo interface {
	// Submit appends the request. For capped non-tip requests the pending
	// count is evaluated and the row inserted in a single transaction, so
	// concurrent submitters cannot slip past the cap; cap <= 0 never rejects.
	Submit(ctx context.Context, r *domain.Request, cap int) error
	ListByPerformer(ctx context.Context, performerID string) ([]*domain.Request, error)
	// MarkPlayed flips each pending request to played and stores the
	// transactions produced by split for it, atomically per request. Requests
	// already played are skipped; an existing (request_id, type) transaction
	// is never duplicated. Returns the requests flipped by this call.
	MarkPlayed(ctx context.Context, performerID string, ids []string, split func(*domain.Request) []*domain.Transaction) ([]*domain.Request, error)
	// DeletePlayedBySong removes the played rows for one song so it can be
	// requested again.
	DeletePlayedBySong(ctx context.Context, performerID, songID string) error
	// DeletePending clears the performer's pending queue (go-offline policy).
	DeletePending(ctx context.Context, performerID string) error
}

type TransactionRepo interface {
	// Create is idempotent on (request_id, type); replays are dropped.
	Create(ctx context.Context, t *domain.Transaction) error
	ListByPerformer(ctx context.Context, performerID string) ([]*domain.Transaction, error)
}
