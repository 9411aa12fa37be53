package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yoursongrequest/ysr/internal/domain"
	"github.com/yoursongrequest/ysr/internal/service/ports"
)

type PayoutService struct {
	transactions ports.TransactionRepo
	performers   ports.PerformerRepo
	commission   decimal.Decimal // platform share of gross, e.g. 0.20
}

func NewPayoutService(transactions ports.TransactionRepo, performers ports.PerformerRepo, commission decimal.Decimal) *PayoutService {
	return &PayoutService{
		transactions: transactions,
		performers:   performers,
		commission:   commission,
	}
}

// Summary aggregates the performer's transactions into gross, platform
// commission and net earnings. Transactions are never mutated; the summary is
// recomputed from the full list every time.
func (s *PayoutService) Summary(ctx context.Context, performerID string) (*domain.PayoutSummary, error) {
	if _, err := s.performers.GetByID(ctx, performerID); err != nil {
		return nil, fmt.Errorf("check performer: %w", err)
	}

	transactions, err := s.transactions.ListByPerformer(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	gross := decimal.Zero
	for _, t := range transactions {
		gross = gross.Add(t.Amount)
	}
	commission := gross.Mul(s.commission).Round(2)

	return &domain.PayoutSummary{
		Gross:        gross,
		Commission:   commission,
		Net:          gross.Sub(commission),
		Transactions: transactions,
	}, nil
}
