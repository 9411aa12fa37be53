package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestStatusPending RequestStatus = "pending"
	RequestStatusPlayed  RequestStatus = "played"
)

// Request is an append-only ledger entry. After creation only Status may
// change (pending -> played); rows are deleted only by Reopen and by the
// clear-queue-on-offline policy.
type Request struct {
	ID            string          `json:"id"`
	PerformerID   string          `json:"performer_id"`
	SongID        *string         `json:"song_id"` // nil = tip jar
	SongTitle     string          `json:"song_title"`
	RequesterName string          `json:"requester_name"`
	Note          string          `json:"note"`
	Email         string          `json:"email"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Tip           decimal.Decimal `json:"tip"`
	IsTipOnly     bool            `json:"is_tip_only"`
	Status        RequestStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type SubmitRequestInput struct {
	SongID        *string
	RequesterName string
	Note          string
	Email         string
	AmountPaid    decimal.Decimal
	Tip           decimal.Decimal
}
