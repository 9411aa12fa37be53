package ports

import (
	"context"

	"github.com/yoursongrequest/ysr/internal/domain"
)

type SongRepo interface {
	Create(ctx context.Context, s *domain.Song) error
	GetByID(ctx context.Context, id string) (*domain.Song, error)
	ListByPerformer(ctx context.Context, performerID string) ([]*domain.Song, error)
	Update(ctx context.Context, s *domain.Song) error
	Delete(ctx context.Context, performerID, songID string) error
	// Reorder rewrites display positions to match the given id order.
	Reorder(ctx context.Context, performerID string, orderedIDs []string) error
}
