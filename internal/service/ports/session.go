package ports

import (
	"context"

	"github.com/yoursongrequest/ysr/internal/domain"
)

type SessionRepo interface {
	// Get returns the performer's session state, creating the lazy default
	// row on first access.
	Get(ctx context.Context, performerID string) (*domain.SessionState, error)
	Save(ctx context.Context, s *domain.SessionState) error
	ListLive(ctx context.Context) ([]*domain.SessionState, error)
}
