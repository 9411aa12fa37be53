package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"
	"github.com/yoursongrequest/ysr/internal/domain"
)

type TransactionRepository struct {
	db       *dbpg.DB
	strategy retry.Strategy
}

func NewTransactionRepo(db *dbpg.DB) *TransactionRepository {
	return &TransactionRepository{
		db: db,
		strategy: retry.Strategy{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
			Backoff:  2,
		},
	}
}

// Create records an earnings row. Replays of the same (request_id, type) pair
// are silently dropped by the unique index.
func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, performer_id, request_id, type, details, amount, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  ON CONFLICT (request_id, type) DO NOTHING`
	_, err := r.db.ExecWithRetry(
		ctx, r.strategy, query,
		t.ID, t.PerformerID, t.RequestID, t.Type, t.Details, t.Amount, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) ListByPerformer(ctx context.Context, performerID string) ([]*domain.Transaction, error) {
	query := `SELECT id, performer_id, request_id, type, details, amount, created_at
			  FROM transactions
			  WHERE performer_id = $1
			  ORDER BY created_at DESC`
	rows, err := r.db.QueryWithRetry(ctx, r.strategy, query, performerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var res []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err = rows.Scan(
			&t.ID, &t.PerformerID, &t.RequestID, &t.Type, &t.Details, &t.Amount, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		res = append(res, &t)
	}

	return res, rows.Err()
}
