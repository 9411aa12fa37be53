package domain

import "time"

type Gig struct {
	ID          string    `json:"id"`
	PerformerID string    `json:"performer_id"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"start_time"`
	Venue       string    `json:"venue"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateGigInput struct {
	Date      time.Time
	StartTime string
	Venue     string
	Address   string
}

type UpdateGigInput struct {
	Date      *time.Time
	StartTime *string
	Venue     *string
	Address   *string
}
