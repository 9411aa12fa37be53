package dto

import "github.com/shopspring/decimal"

type CreatePerformerRequest struct {
	Name           string `json:"name" binding:"required"`
	Bio            string `json:"bio"`
	PictureURL     string `json:"picture_url"`
	TelegramChatID *int64 `json:"telegram_chat_id"`
}

type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	Bio        *string `json:"bio"`
	PictureURL *string `json:"picture_url"`
	Instagram  *string `json:"instagram"`
	Facebook   *string `json:"facebook"`
	Website    *string `json:"website"`
}

type SetSlugRequest struct {
	Slug string `json:"slug" binding:"required"`
}

type CreateSongRequest struct {
	Title  string          `json:"title" binding:"required"`
	Artist string          `json:"artist"`
	Price  decimal.Decimal `json:"price"`
	Tags   []string        `json:"tags"`
}

type UpdateSongRequest struct {
	Title  *string          `json:"title"`
	Artist *string          `json:"artist"`
	Price  *decimal.Decimal `json:"price"`
	Tags   *[]string        `json:"tags"`
}

type ReorderSongsRequest struct {
	SongIDs []string `json:"song_ids" binding:"required"`
}

type GoLiveRequest struct {
	RequestCap      int      `json:"request_cap"`
	ActiveTags      []string `json:"active_tags"`
	DurationMinutes int      `json:"duration_minutes"`
}

type ExtendSessionRequest struct {
	DurationMinutes int `json:"duration_minutes" binding:"required,gt=0"`
}

type SetCapRequest struct {
	RequestCap *int `json:"request_cap" binding:"required"`
}

type SetTagsRequest struct {
	Tags []string `json:"tags"`
}

type SubmitRequestRequest struct {
	SongID        *string         `json:"song_id"`
	RequesterName string          `json:"requester_name" binding:"required"`
	Note          string          `json:"note"`
	Email         string          `json:"email"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Tip           decimal.Decimal `json:"tip"`
}

type MarkPlayedRequest struct {
	RequestIDs []string `json:"request_ids" binding:"required"`
}

type CreateGigRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time"`
	Venue     string `json:"venue" binding:"required"`
	Address   string `json:"address"`
}

type UpdateGigRequest struct {
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	Venue     *string `json:"venue"`
	Address   *string `json:"address"`
}
