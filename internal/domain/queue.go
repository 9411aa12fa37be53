package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestGroup is one song's worth of requests in the performer queue.
type RequestGroup struct {
	SongID     string          `json:"song_id"`
	SongTitle  string          `json:"song_title"`
	Requesters []string        `json:"requesters"`
	Notes      []string        `json:"notes"`
	RequestIDs []string        `json:"request_ids"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	TotalTip   decimal.Decimal `json:"total_tip"`
	EarliestAt time.Time       `json:"earliest_at"`
	LatestAt   time.Time       `json:"latest_at"`
}

func (g *RequestGroup) RequesterCount() int {
	return len(g.Requesters)
}

// UnlimitedCapacity marks a queue with request_cap = 0.
const UnlimitedCapacity = -1

// QueueView is the performer-facing projection of the request ledger. It has
// no storage of its own and is recomputed on every ledger or session change.
type QueueView struct {
	Pending           []*RequestGroup `json:"pending"`
	Played            []*RequestGroup `json:"played"`
	Tips              []*Request      `json:"tips"`
	RequestCap        int             `json:"request_cap"`
	RemainingCapacity int             `json:"remaining_capacity"` // UnlimitedCapacity when uncapped
}
