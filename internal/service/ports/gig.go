package ports

import (
	"context"

	"github.com/yoursongrequest/ysr/internal/domain"
)

type GigRepo interface {
	Create(ctx context.Context, g *domain.Gig) error
	GetByID(ctx context.Context, id string) (*domain.Gig, error)
	ListByPerformer(ctx context.Context, performerID string) ([]*domain.Gig, error)
	Update(ctx context.Context, g *domain.Gig) error
	Delete(ctx context.Context, performerID, gigID string) error
}
