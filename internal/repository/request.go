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

const requestColumns = `id, performer_id, song_id, song_title, requester_name, note, email,
			amount_paid, tip, is_tip_only, status, created_at`

type RequestRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewRequestRepo(db *dbpg.DB) *RequestRepository {
	return &RequestRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

// Submit appends the request. For capped non-tip requests the performer's
// session row is locked and the pending count evaluated inside the same
// transaction as the insert, so concurrent audience clients cannot race past
// the cap.
func (r *RequestRepository) Submit(ctx context.Context, req *domain.Request, capLimit int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if capLimit > 0 && !req.IsTipOnly {
		lockQuery := `SELECT performer_id FROM session_states WHERE performer_id = $1 FOR UPDATE`
		var lockedID string
		if err = tx.QueryRowContext(ctx, lockQuery, req.PerformerID).Scan(&lockedID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrPerformerNotFound
			}
			return fmt.Errorf("lock session: %w", err)
		}

		countQuery := `SELECT COUNT(*) FROM requests
					   WHERE performer_id = $1 AND status = $2 AND is_tip_only = false`
		var pending int
		if err = tx.QueryRowContext(
			ctx, countQuery, req.PerformerID, domain.RequestStatusPending,
		).Scan(&pending); err != nil {
			return fmt.Errorf("count pending requests: %w", err)
		}

		if pending >= capLimit {
			return domain.ErrCapReached
		}
	}

	insert := `INSERT INTO requests (` + requestColumns + `)
			   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = tx.ExecContext(
		ctx, insert,
		req.ID, req.PerformerID, req.SongID, req.SongTitle, req.RequesterName,
		req.Note, req.Email, req.AmountPaid, req.Tip, req.IsTipOnly,
		req.Status, req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	return tx.Commit()
}

func (r *RequestRepository) ListByPerformer(ctx context.Context, performerID string) ([]*domain.Request, error) {
	query := `SELECT ` + requestColumns + `
			  FROM requests
			  WHERE performer_id = $1
			  ORDER BY created_at`
	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, performerID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var res []*domain.Request
	for rows.Next() {
		var req domain.Request
		if err = rows.Scan(
			&req.ID, &req.PerformerID, &req.SongID, &req.SongTitle, &req.RequesterName,
			&req.Note, &req.Email, &req.AmountPaid, &req.Tip, &req.IsTipOnly,
			&req.Status, &req.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		res = append(res, &req)
	}

	return res, rows.Err()
}

// MarkPlayed flips each pending request to played and inserts the earnings
// rows produced by split, atomically per request. The unique index on
// (request_id, type) makes retries insert nothing the second time.
func (r *RequestRepository) MarkPlayed(ctx context.Context, performerID string, ids []string, split func(*domain.Request) []*domain.Transaction) ([]*domain.Request, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	flipQuery := `UPDATE requests
				  SET status = $3
				  WHERE id = $1 AND performer_id = $2 AND status = $4 AND is_tip_only = false
				  RETURNING ` + requestColumns
	txnQuery := `INSERT INTO transactions (id, performer_id, request_id, type, details, amount, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (request_id, type) DO NOTHING`

	var flipped []*domain.Request
	for _, id := range ids {
		var req domain.Request
		err = tx.QueryRowContext(
			ctx, flipQuery, id, performerID,
			domain.RequestStatusPlayed, domain.RequestStatusPending,
		).Scan(
			&req.ID, &req.PerformerID, &req.SongID, &req.SongTitle, &req.RequesterName,
			&req.Note, &req.Email, &req.AmountPaid, &req.Tip, &req.IsTipOnly,
			&req.Status, &req.CreatedAt,
		)
		if errors.Is(err, sql.ErrNoRows) {
			// Unknown, foreign or already-played ids are skipped, not failed:
			// a retried call must not error out on the work it already did.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("mark request played: %w", err)
		}

		for _, t := range split(&req) {
			if _, err = tx.ExecContext(
				ctx, txnQuery,
				t.ID, t.PerformerID, t.RequestID, t.Type, t.Details, t.Amount, t.CreatedAt,
			); err != nil {
				return nil, fmt.Errorf("insert transaction: %w", err)
			}
		}

		flipped = append(flipped, &req)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mark played: %w", err)
	}

	return flipped, nil
}

func (r *RequestRepository) DeletePlayedBySong(ctx context.Context, performerID, songID string) error {
	query := `DELETE FROM requests
			  WHERE performer_id = $1 AND song_id = $2 AND status = $3`
	_, err := r.db.ExecWithRetry(ctx, r.strategy, query, performerID, songID, domain.RequestStatusPlayed)
	if err != nil {
		return fmt.Errorf("delete played requests: %w", err)
	}

	return nil
}

func (r *RequestRepository) DeletePending(ctx context.Context, performerID string) error {
	query := `DELETE FROM requests
			  WHERE performer_id = $1 AND status = $2 AND is_tip_only = false`
	_, err := r.db.ExecWithRetry(ctx, r.strategy, query, performerID, domain.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("delete pending requests: %w", err)
	}

	return nil
}
