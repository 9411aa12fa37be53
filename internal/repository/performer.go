package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/yoursongrequest/ysr/internal/domain"
)

type PerformerRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewPerformerRepo(db *dbpg.DB) *PerformerRepository {
	return &PerformerRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

func (r *PerformerRepository) Create(ctx context.Context, p *domain.Performer) error {
	query := `INSERT INTO performers (id, name, bio, picture_url, instagram, facebook, website, slug, telegram_chat_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11)`
	_, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		p.ID, p.Name, p.Bio, p.PictureURL, p.Instagram, p.Facebook, p.Website,
		p.Slug, p.TelegramChatID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert performer: %w", err)
	}

	return nil
}

func (r *PerformerRepository) GetByID(ctx context.Context, id string) (*domain.Performer, error) {
	query := `SELECT id, name, bio, picture_url, instagram, facebook, website, COALESCE(slug, ''), telegram_chat_id, created_at, updated_at
			  FROM performers
			  WHERE id = $1`
	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		return nil, fmt.Errorf("get performer: %w", err)
	}

	return scanPerformer(row)
}

func (r *PerformerRepository) GetBySlug(ctx context.Context, slug string) (*domain.Performer, error) {
	query := `SELECT id, name, bio, picture_url, instagram, facebook, website, COALESCE(slug, ''), telegram_chat_id, created_at, updated_at
			  FROM performers
			  WHERE slug = $1`
	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, slug)
	if err != nil {
		return nil, fmt.Errorf("get performer by slug: %w", err)
	}

	return scanPerformer(row)
}

func (r *PerformerRepository) Update(ctx context.Context, p *domain.Performer) error {
	// Slug is immutable here; SetSlug is the only writer for it.
	query := `UPDATE performers
			  SET name = $2, bio = $3, picture_url = $4, instagram = $5, facebook = $6,
			      website = $7, telegram_chat_id = $8, updated_at = $9
			  WHERE id = $1`
	res, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		p.ID, p.Name, p.Bio, p.PictureURL, p.Instagram, p.Facebook,
		p.Website, p.TelegramChatID, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update performer: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("performer rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrPerformerNotFound
	}

	return nil
}

func (r *PerformerRepository) SetSlug(ctx context.Context, performerID, slug string) error {
	query := `UPDATE performers
			  SET slug = $2, updated_at = now()
			  WHERE id = $1 AND slug IS NULL`
	res, err := r.db.ExecWithRetry(ctx, r.strategy, query, performerID, slug)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("set slug: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("slug rows affected: %w", err)
	}
	if rows == 0 {
		// Either an unknown performer or a slug already claimed.
		current, getErr := r.GetByID(ctx, performerID)
		if getErr != nil {
			return getErr
		}
		if current.Slug == slug {
			return nil
		}
		return domain.ErrSlugImmutable
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerformer(row rowScanner) (*domain.Performer, error) {
	var p domain.Performer
	err := row.Scan(
		&p.ID, &p.Name, &p.Bio, &p.PictureURL, &p.Instagram, &p.Facebook,
		&p.Website, &p.Slug, &p.TelegramChatID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPerformerNotFound
		}
		return nil, fmt.Errorf("scan performer: %w", err)
	}

	return &p, nil
}
