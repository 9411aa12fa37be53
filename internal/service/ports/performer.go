package ports

import (
	"context"

	"github.com/yoursongrequest/ysr/internal/domain"
)

type PerformerRepo interface {
	Create(ctx context.Context, p *domain.Performer) error
	GetByID(ctx context.Context, id string) (*domain.Performer, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Performer, error)
	Update(ctx context.Context, p *domain.Performer) error
	// SetSlug claims the slug for the performer. It fails with ErrSlugTaken
	// when another performer holds it and ErrSlugImmutable when the performer
	// already has one.
	SetSlug(ctx context.Context, performerID, slug string) error
}
