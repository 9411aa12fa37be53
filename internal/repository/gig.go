package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/yoursongrequest/ysr/internal/domain"
)

type GigRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewGigRepo(db *dbpg.DB) *GigRepository {
	return &GigRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

func (r *GigRepository) Create(ctx context.Context, g *domain.Gig) error {
	query := `INSERT INTO gigs (id, performer_id, date, start_time, venue, address, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		g.ID, g.PerformerID, g.Date, g.StartTime, g.Venue, g.Address,
		g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert gig: %w", err)
	}

	return nil
}

func (r *GigRepository) GetByID(ctx context.Context, id string) (*domain.Gig, error) {
	query := `SELECT id, performer_id, date, start_time, venue, address, created_at, updated_at
			  FROM gigs
			  WHERE id = $1`
	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		return nil, fmt.Errorf("get gig: %w", err)
	}

	var g domain.Gig
	if err = row.Scan(
		&g.ID, &g.PerformerID, &g.Date, &g.StartTime, &g.Venue, &g.Address,
		&g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGigNotFound
		}
		return nil, fmt.Errorf("scan gig: %w", err)
	}

	return &g, nil
}

func (r *GigRepository) ListByPerformer(ctx context.Context, performerID string) ([]*domain.Gig, error) {
	query := `SELECT id, performer_id, date, start_time, venue, address, created_at, updated_at
			  FROM gigs
			  WHERE performer_id = $1
			  ORDER BY date`
	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, performerID)
	if err != nil {
		return nil, fmt.Errorf("list gigs: %w", err)
	}
	defer rows.Close()

	var res []*domain.Gig
	for rows.Next() {
		var g domain.Gig
		if err = rows.Scan(
			&g.ID, &g.PerformerID, &g.Date, &g.StartTime, &g.Venue, &g.Address,
			&g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan gig: %w", err)
		}
		res = append(res, &g)
	}

	return res, rows.Err()
}

func (r *GigRepository) Update(ctx context.Context, g *domain.Gig) error {
	query := `UPDATE gigs
			  SET date = $3, start_time = $4, venue = $5, address = $6, updated_at = $7
			  WHERE id = $1 AND performer_id = $2`
	res, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		g.ID, g.PerformerID, g.Date, g.StartTime, g.Venue, g.Address, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update gig: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("gig rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrGigNotFound
	}

	return nil
}

func (r *GigRepository) Delete(ctx context.Context, performerID, gigID string) error {
	query := `DELETE FROM gigs WHERE id = $1 AND performer_id = $2`
	res, err := r.db.ExecWithRetry(ctx, r.strategy, query, gigID, performerID)
	if err != nil {
		return fmt.Errorf("delete gig: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("gig rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrGigNotFound
	}

	return nil
}
