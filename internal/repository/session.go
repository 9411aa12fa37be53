package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/yoursongrequest/ysr/internal/domain"
)

type SessionRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewSessionRepo(db *dbpg.DB) *SessionRepository {
	return &SessionRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

// Get returns the performer's session state, creating the default offline row
// on first access.
func (r *SessionRepository) Get(ctx context.Context, performerID string) (*domain.SessionState, error) {
	insert := `INSERT INTO session_states (performer_id, is_live, request_cap, active_tags, updated_at)
			   VALUES ($1, false, 0, '{}', now())
			   ON CONFLICT (performer_id) DO NOTHING`
	if _, err := r.db.ExecWithRetry(ctx, r.strategy, insert, performerID); err != nil {
		return nil, fmt.Errorf("init session: %w", err)
	}

	query := `SELECT performer_id, is_live, session_end_time, request_cap, active_tags, updated_at
			  FROM session_states
			  WHERE performer_id = $1`
	row, err := r.db.QueryRowWithRetry(ctx, r.strategy, query, performerID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s domain.SessionState
	if err = row.Scan(
		&s.PerformerID, &s.IsLive, &s.SessionEndTime,
		&s.RequestCap, pq.Array(&s.ActiveTags), &s.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	return &s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.SessionState) error {
	query := `INSERT INTO session_states (performer_id, is_live, session_end_time, request_cap, active_tags, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (performer_id) DO UPDATE
			  SET is_live = EXCLUDED.is_live,
			      session_end_time = EXCLUDED.session_end_time,
			      request_cap = EXCLUDED.request_cap,
			      active_tags = EXCLUDED.active_tags,
			      updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		s.PerformerID, s.IsLive, s.SessionEndTime,
		s.RequestCap, pq.Array(s.ActiveTags), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

func (r *SessionRepository) ListLive(ctx context.Context) ([]*domain.SessionState, error) {
	query := `SELECT performer_id, is_live, session_end_time, request_cap, active_tags, updated_at
			  FROM session_states
			  WHERE is_live = true`
	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query)
	if err != nil {
		return nil, fmt.Errorf("list live sessions: %w", err)
	}
	defer rows.Close()

	var res []*domain.SessionState
	for rows.Next() {
		var s domain.SessionState
		if err = rows.Scan(
			&s.PerformerID, &s.IsLive, &s.SessionEndTime,
			&s.RequestCap, pq.Array(&s.ActiveTags), &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		res = append(res, &s)
	}

	return res, rows.Err()
}
