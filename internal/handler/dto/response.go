package dto

import (
	"time"

	"github.com/yoursongrequest/ysr/internal/domain"
)

type PerformerResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Bio        string `json:"bio"`
	PictureURL string `json:"picture_url"`
	Instagram  string `json:"instagram"`
	Facebook   string `json:"facebook"`
	Website    string `json:"website"`
	Slug       string `json:"slug"`
	CreatedAt  string `json:"created_at"`
}

type SongResponse struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Price    string   `json:"price"`
	Position int      `json:"position"`
	Tags     []string `json:"tags"`
}

type SessionResponse struct {
	PerformerID     string   `json:"performer_id"`
	IsLive          bool     `json:"is_live"`
	SessionEndTime  *string  `json:"session_end_time,omitempty"`
	TimeLeftSeconds int      `json:"time_left_seconds"`
	RequestCap      int      `json:"request_cap"`
	ActiveTags      []string `json:"active_tags"`
	OfflinePending  bool     `json:"offline_pending"`
}

type RequestResponse struct {
	ID            string  `json:"id"`
	SongID        *string `json:"song_id,omitempty"`
	SongTitle     string  `json:"song_title"`
	RequesterName string  `json:"requester_name"`
	Note          string  `json:"note,omitempty"`
	AmountPaid    string  `json:"amount_paid"`
	Tip           string  `json:"tip"`
	IsTipOnly     bool    `json:"is_tip_only"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

type RequestGroupResponse struct {
	SongID         string   `json:"song_id"`
	SongTitle      string   `json:"song_title"`
	Requesters     []string `json:"requesters"`
	Notes          []string `json:"notes,omitempty"`
	RequestIDs     []string `json:"request_ids"`
	RequesterCount int      `json:"requester_count"`
	TotalPaid      string   `json:"total_paid"`
	TotalTip       string   `json:"total_tip"`
	EarliestAt     string   `json:"earliest_at"`
	LatestAt       string   `json:"latest_at"`
}

type QueueResponse struct {
	Pending           []RequestGroupResponse `json:"pending"`
	Played            []RequestGroupResponse `json:"played"`
	Tips              []RequestResponse      `json:"tips"`
	RequestCap        int                    `json:"request_cap"`
	RemainingCapacity int                    `json:"remaining_capacity"`
}

type GigResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	Venue     string `json:"venue"`
	Address   string `json:"address"`
}

type TransactionResponse struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id"`
	Type      string `json:"type"`
	Details   string `json:"details"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type PayoutResponse struct {
	Gross        string                `json:"gross"`
	Commission   string                `json:"commission"`
	Net          string                `json:"net"`
	Transactions []TransactionResponse `json:"transactions"`
}

type PublicPageResponse struct {
	Performer         PerformerResponse `json:"performer"`
	Songs             []SongResponse    `json:"songs"`
	PlayedSongIDs     []string          `json:"played_song_ids"`
	Session           SessionResponse   `json:"session"`
	RemainingCapacity int               `json:"remaining_capacity"`
	UpcomingGigs      []GigResponse     `json:"upcoming_gigs"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func ToPerformerResponse(p *domain.Performer) PerformerResponse {
	return PerformerResponse{
		ID:         p.ID,
		Name:       p.Name,
		Bio:        p.Bio,
		PictureURL: p.PictureURL,
		Instagram:  p.Instagram,
		Facebook:   p.Facebook,
		Website:    p.Website,
		Slug:       p.Slug,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}

func ToSongResponse(s *domain.Song) SongResponse {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	return SongResponse{
		ID:       s.ID,
		Title:    s.Title,
		Artist:   s.Artist,
		Price:    s.Price.StringFixed(2),
		Position: s.Position,
		Tags:     tags,
	}
}

func ToSongResponses(songs []*domain.Song) []SongResponse {
	resp := make([]SongResponse, 0, len(songs))
	for _, s := range songs {
		resp = append(resp, ToSongResponse(s))
	}
	return resp
}

func ToSessionResponse(s *domain.SessionState, offlinePending bool) SessionResponse {
	resp := SessionResponse{
		PerformerID:     s.PerformerID,
		IsLive:          s.IsLive,
		TimeLeftSeconds: int(s.TimeLeft(time.Now().UTC()).Seconds()),
		RequestCap:      s.RequestCap,
		ActiveTags:      s.ActiveTags,
		OfflinePending:  offlinePending,
	}
	if resp.ActiveTags == nil {
		resp.ActiveTags = []string{}
	}
	if s.SessionEndTime != nil {
		end := s.SessionEndTime.Format(time.RFC3339)
		resp.SessionEndTime = &end
	}
	return resp
}

func ToRequestResponse(r *domain.Request) RequestResponse {
	return RequestResponse{
		ID:            r.ID,
		SongID:        r.SongID,
		SongTitle:     r.SongTitle,
		RequesterName: r.RequesterName,
		Note:          r.Note,
		AmountPaid:    r.AmountPaid.StringFixed(2),
		Tip:           r.Tip.StringFixed(2),
		IsTipOnly:     r.IsTipOnly,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func ToRequestGroupResponse(g *domain.RequestGroup) RequestGroupResponse {
	return RequestGroupResponse{
		SongID:         g.SongID,
		SongTitle:      g.SongTitle,
		Requesters:     g.Requesters,
		Notes:          g.Notes,
		RequestIDs:     g.RequestIDs,
		RequesterCount: g.RequesterCount(),
		TotalPaid:      g.TotalPaid.StringFixed(2),
		TotalTip:       g.TotalTip.StringFixed(2),
		EarliestAt:     g.EarliestAt.Format(time.RFC3339),
		LatestAt:       g.LatestAt.Format(time.RFC3339),
	}
}

func ToQueueResponse(v *domain.QueueView) QueueResponse {
	resp := QueueResponse{
		Pending:           make([]RequestGroupResponse, 0, len(v.Pending)),
		Played:            make([]RequestGroupResponse, 0, len(v.Played)),
		Tips:              make([]RequestResponse, 0, len(v.Tips)),
		RequestCap:        v.RequestCap,
		RemainingCapacity: v.RemainingCapacity,
	}
	for _, g := range v.Pending {
		resp.Pending = append(resp.Pending, ToRequestGroupResponse(g))
	}
	for _, g := range v.Played {
		resp.Played = append(resp.Played, ToRequestGroupResponse(g))
	}
	for _, r := range v.Tips {
		resp.Tips = append(resp.Tips, ToRequestResponse(r))
	}
	return resp
}

func ToGigResponse(g *domain.Gig) GigResponse {
	return GigResponse{
		ID:        g.ID,
		Date:      g.Date.Format("2006-01-02"),
		StartTime: g.StartTime,
		Venue:     g.Venue,
		Address:   g.Address,
	}
}

func ToGigResponses(gigs []*domain.Gig) []GigResponse {
	resp := make([]GigResponse, 0, len(gigs))
	for _, g := range gigs {
		resp = append(resp, ToGigResponse(g))
	}
	return resp
}

func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID,
		RequestID: t.RequestID,
		Type:      string(t.Type),
		Details:   t.Details,
		Amount:    t.Amount.StringFixed(2),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}

func ToPayoutResponse(s *domain.PayoutSummary) PayoutResponse {
	resp := PayoutResponse{
		Gross:        s.Gross.StringFixed(2),
		Commission:   s.Commission.StringFixed(2),
		Net:          s.Net.StringFixed(2),
		Transactions: make([]TransactionResponse, 0, len(s.Transactions)),
	}
	for _, t := range s.Transactions {
		resp.Transactions = append(resp.Transactions, ToTransactionResponse(t))
	}
	return resp
}

func ToPublicPageResponse(p *domain.PublicPage, offlinePending bool) PublicPageResponse {
	resp := PublicPageResponse{
		Performer:         ToPerformerResponse(p.Performer),
		Songs:             ToSongResponses(p.Songs),
		PlayedSongIDs:     p.PlayedSongIDs,
		Session:           ToSessionResponse(p.Session, offlinePending),
		RemainingCapacity: p.RemainingCapacity,
		UpcomingGigs:      ToGigResponses(p.UpcomingGigs),
	}
	if resp.PlayedSongIDs == nil {
		resp.PlayedSongIDs = []string{}
	}
	return resp
}
