package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeRequest TransactionType = "Request"
	TransactionTypeTip     TransactionType = "Tip"
)

// Transaction is an immutable earnings record. Exactly one row may exist per
// (request, type) pair; the song portion and the tip portion of a paid
// request are recorded as separate rows.
type Transaction struct {
	ID          string          `json:"id"`
	PerformerID string          `json:"performer_id"`
	RequestID   string          `json:"request_id"`
	Type        TransactionType `json:"type"`
	Details     string          `json:"details"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PayoutSummary aggregates a performer's transactions for the payouts page.
type PayoutSummary struct {
	Gross        decimal.Decimal `json:"gross"`
	Commission   decimal.Decimal `json:"commission"`
	Net          decimal.Decimal `json:"net"`
	Transactions []*Transaction  `json:"transactions"`
}
