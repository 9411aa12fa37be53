package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wb-go/wbf/ginext"
	"github.com/yoursongrequest/ysr/internal/domain"
	"github.com/yoursongrequest/ysr/internal/handler/dto"
)

type PerformerSvc interface {
	Create(ctx context.Context, input domain.CreatePerformerInput) (*domain.Performer, error)
	GetByID(ctx context.Context, id string) (*domain.Performer, error)
	UpdateProfile(ctx context.Context, id string, input domain.UpdateProfileInput) (*domain.Performer, error)
	SetSlug(ctx context.Context, performerID, slug string) error
	PublicPage(ctx context.Context, slug string) (*domain.PublicPage, error)
	PageQR(ctx context.Context, slug string) ([]byte, error)
}

type CatalogSvc interface {
	CreateSong(ctx context.Context, performerID string, input domain.CreateSongInput) (*domain.Song, error)
	UpdateSong(ctx context.Context, performerID, songID string, input domain.UpdateSongInput) (*domain.Song, error)
	DeleteSong(ctx context.Context, performerID, songID string) error
	List(ctx context.Context, performerID string) ([]*domain.Song, error)
	Reorder(ctx context.Context, performerID string, orderedIDs []string) error
	Tags(ctx context.Context, performerID string) ([]string, error)
}

type SessionSvc interface {
	Get(ctx context.Context, performerID string) (*domain.SessionState, error)
	OfflinePending(performerID string) bool
	GoLive(ctx context.Context, performerID string, input domain.GoLiveInput) (*domain.SessionState, error)
	GoOffline(ctx context.Context, performerID string) error
	UndoOffline(ctx context.Context, performerID string) error
	ExtendSession(ctx context.Context, performerID string, d time.Duration) (*domain.SessionState, error)
	SetCap(ctx context.Context, performerID string, cap int) (*domain.SessionState, error)
	SetActiveTags(ctx context.Context, performerID string, tags []string) (*domain.SessionState, error)
}

type RequestSvc interface {
	Submit(ctx context.Context, performerID string, input domain.SubmitRequestInput) (*domain.Request, error)
	MarkPlayed(ctx context.Context, performerID string, requestIDs []string) error
	Reopen(ctx context.Context, performerID, songID string) error
}

type QueueSvc interface {
	Queue(ctx context.Context, performerID string) (*domain.QueueView, error)
}

type PayoutSvc interface {
	Summary(ctx context.Context, performerID string) (*domain.PayoutSummary, error)
}

type GigSvc interface {
	Create(ctx context.Context, performerID string, input domain.CreateGigInput) (*domain.Gig, error)
	Update(ctx context.Context, performerID, gigID string, input domain.UpdateGigInput) (*domain.Gig, error)
	Delete(ctx context.Context, performerID, gigID string) error
	List(ctx context.Context, performerID string) ([]*domain.Gig, error)
}

type Subscriber interface {
	Subscribe(performerID string, conn *websocket.Conn)
}

type Handler struct {
	performerService PerformerSvc
	catalogService   CatalogSvc
	sessionService   SessionSvc
	requestService   RequestSvc
	queueService     QueueSvc
	payoutService    PayoutSvc
	gigService       GigSvc
	hub              Subscriber
	upgrader         websocket.Upgrader
}

func NewHandler(
	performerService PerformerSvc,
	catalogService CatalogSvc,
	sessionService SessionSvc,
	requestService RequestSvc,
	queueService QueueSvc,
	payoutService PayoutSvc,
	gigService GigSvc,
	hub Subscriber,
) *Handler {
	return &Handler{
		performerService: performerService,
		catalogService:   catalogService,
		sessionService:   sessionService,
		requestService:   requestService,
		queueService:     queueService,
		payoutService:    payoutService,
		gigService:       gigService,
		hub:              hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Audience pages are served from a different origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Performers

func (h *Handler) CreatePerformer(c *ginext.Context) {
	var req dto.CreatePerformerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	input := domain.CreatePerformerInput{
		Name:           req.Name,
		Bio:            req.Bio,
		PictureURL:     req.PictureURL,
		TelegramChatID: req.TelegramChatID,
	}

	performer, err := h.performerService.Create(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPerformerResponse(performer))
}

func (h *Handler) GetPerformer(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	performer, err := h.performerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPerformerResponse(performer))
}

func (h *Handler) UpdatePerformer(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	input := domain.UpdateProfileInput{
		Name:       req.Name,
		Bio:        req.Bio,
		PictureURL: req.PictureURL,
		Instagram:  req.Instagram,
		Facebook:   req.Facebook,
		Website:    req.Website,
	}

	performer, err := h.performerService.UpdateProfile(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPerformerResponse(performer))
}

func (h *Handler) SetSlug(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.SetSlugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.performerService.SetSlug(c.Request.Context(), id, req.Slug); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"slug": req.Slug})
}

// Public pages

func (h *Handler) GetPublicPage(c *ginext.Context) {
	slug := c.Param("slug")

	page, err := h.performerService.PublicPage(c.Request.Context(), slug)
	if err != nil {
		h.handleError(c, err)
		return
	}

	offlinePending := h.sessionService.OfflinePending(page.Performer.ID)
	c.JSON(http.StatusOK, dto.ToPublicPageResponse(page, offlinePending))
}

func (h *Handler) GetPageQR(c *ginext.Context) {
	slug := c.Param("slug")

	png, err := h.performerService.PageQR(c.Request.Context(), slug)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// Songs

func (h *Handler) CreateSong(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.CreateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	input := domain.CreateSongInput{
		Title:  req.Title,
		Artist: req.Artist,
		Price:  req.Price,
		Tags:   req.Tags,
	}

	song, err := h.catalogService.CreateSong(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSongResponse(song))
}

func (h *Handler) ListSongs(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	songs, err := h.catalogService.List(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSongResponses(songs))
}

func (h *Handler) UpdateSong(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}
	songID := c.Param("songID")
	if _, err := uuid.Parse(songID); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid song id"})
		return
	}

	var req dto.UpdateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	input := domain.UpdateSongInput{
		Title:  req.Title,
		Artist: req.Artist,
		Price:  req.Price,
		Tags:   req.Tags,
	}

	song, err := h.catalogService.UpdateSong(c.Request.Context(), id, songID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSongResponse(song))
}

func (h *Handler) DeleteSong(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}
	songID := c.Param("songID")
	if _, err := uuid.Parse(songID); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid song id"})
		return
	}

	if err := h.catalogService.DeleteSong(c.Request.Context(), id, songID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "deleted"})
}

func (h *Handler) ReorderSongs(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.ReorderSongsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.catalogService.Reorder(c.Request.Context(), id, req.SongIDs); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "reordered"})
}

func (h *Handler) ListTags(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	tags, err := h.catalogService.Tags(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}

	c.JSON(http.StatusOK, ginext.H{"tags": tags})
}

// Session

func (h *Handler) GetSession(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	state, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(state, h.sessionService.OfflinePending(id)))
}

func (h *Handler) GoLive(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.GoLiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	input := domain.GoLiveInput{
		RequestCap: req.RequestCap,
		ActiveTags: req.ActiveTags,
		Duration:   time.Duration(req.DurationMinutes) * time.Minute,
	}

	state, err := h.sessionService.GoLive(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(state, false))
}

func (h *Handler) GoOffline(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	if err := h.sessionService.GoOffline(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "offline_pending"})
}

func (h *Handler) UndoOffline(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	if err := h.sessionService.UndoOffline(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "offline_canceled"})
}

func (h *Handler) ExtendSession(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.ExtendSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.sessionService.ExtendSession(
		c.Request.Context(), id, time.Duration(req.DurationMinutes)*time.Minute,
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(state, h.sessionService.OfflinePending(id)))
}

func (h *Handler) SetCap(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.SetCapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.sessionService.SetCap(c.Request.Context(), id, *req.RequestCap)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(state, h.sessionService.OfflinePending(id)))
}

func (h *Handler) SetActiveTags(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.SetTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.sessionService.SetActiveTags(c.Request.Context(), id, req.Tags)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(state, h.sessionService.OfflinePending(id)))
}

// Requests

func (h *Handler) SubmitRequest(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if req.SongID != nil {
		if _, err := uuid.Parse(*req.SongID); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid song id"})
			return
		}
	}

	input := domain.SubmitRequestInput{
		SongID:        req.SongID,
		RequesterName: req.RequesterName,
		Note:          req.Note,
		Email:         req.Email,
		AmountPaid:    req.AmountPaid,
		Tip:           req.Tip,
	}

	request, err := h.requestService.Submit(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRequestResponse(request))
}

func (h *Handler) GetQueue(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	view, err := h.queueService.Queue(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQueueResponse(view))
}

func (h *Handler) MarkPlayed(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.MarkPlayedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.requestService.MarkPlayed(c.Request.Context(), id, req.RequestIDs); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "played"})
}

func (h *Handler) ReopenSong(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}
	songID := c.Param("songID")
	if _, err := uuid.Parse(songID); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid song id"})
		return
	}

	if err := h.requestService.Reopen(c.Request.Context(), id, songID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "reopened"})
}

// Payouts

func (h *Handler) GetPayouts(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	summary, err := h.payoutService.Summary(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPayoutResponse(summary))
}

// Gigs

func (h *Handler) CreateGig(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	var req dto.CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	input := domain.CreateGigInput{
		Date:      date,
		StartTime: req.StartTime,
		Venue:     req.Venue,
		Address:   req.Address,
	}

	gig, err := h.gigService.Create(c.Request.Context(), id, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGigResponse(gig))
}

func (h *Handler) ListGigs(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	gigs, err := h.gigService.List(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGigResponses(gigs))
}

func (h *Handler) UpdateGig(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}
	gigID := c.Param("gigID")
	if _, err := uuid.Parse(gigID); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid gig id"})
		return
	}

	var req dto.UpdateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	input := domain.UpdateGigInput{
		StartTime: req.StartTime,
		Venue:     req.Venue,
		Address:   req.Address,
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "invalid date format, expected YYYY-MM-DD",
			})
			return
		}
		input.Date = &date
	}

	gig, err := h.gigService.Update(c.Request.Context(), id, gigID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGigResponse(gig))
}

func (h *Handler) DeleteGig(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}
	gigID := c.Param("gigID")
	if _, err := uuid.Parse(gigID); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid gig id"})
		return
	}

	if err := h.gigService.Delete(c.Request.Context(), id, gigID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ginext.H{"status": "deleted"})
}

// Realtime

func (h *Handler) ServeWS(c *ginext.Context) {
	id, ok := h.performerID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		return
	}

	h.hub.Subscribe(id, conn)
}

func (h *Handler) performerID(c *ginext.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid performer id"})
		return "", false
	}
	return id, true
}

func (h *Handler) handleError(c *ginext.Context, err error) {
	c.Set("error", err.Error())

	switch {
	case errors.Is(err, domain.ErrPerformerNotFound),
		errors.Is(err, domain.ErrSongNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrGigNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrCapReached),
		errors.Is(err, domain.ErrSessionOffline),
		errors.Is(err, domain.ErrSongNotRequestable),
		errors.Is(err, domain.ErrSlugTaken),
		errors.Is(err, domain.ErrSlugImmutable):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})

	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
