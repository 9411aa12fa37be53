package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Song struct {
	ID          string          `json:"id"`
	PerformerID string          `json:"performer_id"`
	Title       string          `json:"title"`
	Artist      string          `json:"artist"`
	Price       decimal.Decimal `json:"price"`
	Position    int             `json:"position"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// HasAnyTag reports whether the song carries at least one of the given tags.
func (s *Song) HasAnyTag(tags []string) bool {
	for _, t := range s.Tags {
		for _, want := range tags {
			if t == want {
				return true
			}
		}
	}
	return false
}

type CreateSongInput struct {
	Title  string
	Artist string
	Price  decimal.Decimal
	Tags   []string
}

type UpdateSongInput struct {
	Title  *string
	Artist *string
	Price  *decimal.Decimal
	Tags   *[]string
}
