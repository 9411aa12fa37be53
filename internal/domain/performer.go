package domain

import "time"

type Performer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	PictureURL     string    `json:"picture_url"`
	Instagram      string    `json:"instagram"`
	Facebook       string    `json:"facebook"`
	Website        string    `json:"website"`
	Slug           string    `json:"slug"`
	TelegramChatID *int64    `json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreatePerformerInput struct {
	Name           string
	Bio            string
	PictureURL     string
	TelegramChatID *int64
}

type UpdateProfileInput struct {
	Name       *string
	Bio        *string
	PictureURL *string
	Instagram  *string
	Facebook   *string
	Website    *string
}
