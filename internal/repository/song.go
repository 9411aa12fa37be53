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

type SongRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewSongRepo(db *dbpg.DB) *SongRepository {
	return &SongRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

func (r *SongRepository) Create(ctx context.Context, s *domain.Song) error {
	query := `INSERT INTO songs (id, performer_id, title, artist, price, position, tags, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		s.ID, s.PerformerID, s.Title, s.Artist, s.Price,
		s.Position, pq.Array(s.Tags), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert song: %w", err)
	}

	return nil
}

func (r *SongRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	query := `SELECT id, performer_id, title, artist, price, position, tags, created_at, updated_at
			  FROM songs
			  WHERE id = $1`
	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, id)
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}

	var s domain.Song
	if err = row.Scan(
		&s.ID, &s.PerformerID, &s.Title, &s.Artist, &s.Price,
		&s.Position, pq.Array(&s.Tags), &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("scan song: %w", err)
	}

	return &s, nil
}

func (r *SongRepository) ListByPerformer(ctx context.Context, performerID string) ([]*domain.Song, error) {
	query := `SELECT id, performer_id, title, artist, price, position, tags, created_at, updated_at
			  FROM songs
			  WHERE performer_id = $1
			  ORDER BY position`
	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, performerID)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var res []*domain.Song
	for rows.Next() {
		var s domain.Song
		if err = rows.Scan(
			&s.ID, &s.PerformerID, &s.Title, &s.Artist, &s.Price,
			&s.Position, pq.Array(&s.Tags), &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		res = append(res, &s)
	}

	return res, rows.Err()
}

func (r *SongRepository) Update(ctx context.Context, s *domain.Song) error {
	query := `UPDATE songs
			  SET title = $3, artist = $4, price = $5, tags = $6, updated_at = $7
			  WHERE id = $1 AND performer_id = $2`
	res, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		s.ID, s.PerformerID, s.Title, s.Artist, s.Price, pq.Array(s.Tags), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("song rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrSongNotFound
	}

	return nil
}

func (r *SongRepository) Delete(ctx context.Context, performerID, songID string) error {
	query := `DELETE FROM songs WHERE id = $1 AND performer_id = $2`
	res, err := r.db.ExecWithRetry(ctx, r.strategy, query, songID, performerID)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("song rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrSongNotFound
	}

	return nil
}

func (r *SongRepository) Reorder(ctx context.Context, performerID string, orderedIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE songs SET position = $3, updated_at = now()
			  WHERE id = $1 AND performer_id = $2`
	for i, id := range orderedIDs {
		res, err := tx.ExecContext(ctx, query, id, performerID, i+1)
		if err != nil {
			return fmt.Errorf("reorder song: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reorder rows affected: %w", err)
		}
		if rows == 0 {
			return domain.ErrSongNotFound
		}
	}

	return tx.Commit()
}
