package router

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"
)

type Handler interface {
	CreatePerformer(c *ginext.Context)
	GetPerformer(c *ginext.Context)
	UpdatePerformer(c *ginext.Context)
	SetSlug(c *ginext.Context)
	GetPublicPage(c *ginext.Context)
	GetPageQR(c *ginext.Context)
	CreateSong(c *ginext.Context)
	ListSongs(c *ginext.Context)
	UpdateSong(c *ginext.Context)
	DeleteSong(c *ginext.Context)
	ReorderSongs(c *ginext.Context)
	ListTags(c *ginext.Context)
	GetSession(c *ginext.Context)
	GoLive(c *ginext.Context)
	GoOffline(c *ginext.Context)
	UndoOffline(c *ginext.Context)
	ExtendSession(c *ginext.Context)
	SetCap(c *ginext.Context)
	SetActiveTags(c *ginext.Context)
	SubmitRequest(c *ginext.Context)
	GetQueue(c *ginext.Context)
	MarkPlayed(c *ginext.Context)
	ReopenSong(c *ginext.Context)
	GetPayouts(c *ginext.Context)
	CreateGig(c *ginext.Context)
	ListGigs(c *ginext.Context)
	UpdateGig(c *ginext.Context)
	DeleteGig(c *ginext.Context)
	ServeWS(c *ginext.Context)
}

func InitRouter(mode string, h Handler, mw ...ginext.HandlerFunc) *ginext.Engine {
	router := ginext.New(mode)
	router.Use(mw...)

	api := router.Group("/api")
	{
		// Performers
		api.POST("/performers", h.CreatePerformer)
		api.GET("/performers/:id", h.GetPerformer)
		api.PATCH("/performers/:id", h.UpdatePerformer)
		api.PUT("/performers/:id/slug", h.SetSlug)

		// Public audience pages
		api.GET("/pages/:slug", h.GetPublicPage)
		api.GET("/pages/:slug/qr", h.GetPageQR)

		// Catalog
		api.POST("/performers/:id/songs", h.CreateSong)
		api.GET("/performers/:id/songs", h.ListSongs)
		api.PUT("/performers/:id/songs/order", h.ReorderSongs)
		api.PATCH("/performers/:id/songs/:songID", h.UpdateSong)
		api.DELETE("/performers/:id/songs/:songID", h.DeleteSong)
		api.GET("/performers/:id/tags", h.ListTags)

		// Session
		api.GET("/performers/:id/session", h.GetSession)
		api.POST("/performers/:id/session/live", h.GoLive)
		api.POST("/performers/:id/session/offline", h.GoOffline)
		api.POST("/performers/:id/session/offline/undo", h.UndoOffline)
		api.POST("/performers/:id/session/extend", h.ExtendSession)
		api.PUT("/performers/:id/session/cap", h.SetCap)
		api.PUT("/performers/:id/session/tags", h.SetActiveTags)

		// Requests and queue
		api.POST("/performers/:id/requests", h.SubmitRequest)
		api.GET("/performers/:id/queue", h.GetQueue)
		api.POST("/performers/:id/requests/played", h.MarkPlayed)
		api.POST("/performers/:id/songs/:songID/reopen", h.ReopenSong)

		// Payouts
		api.GET("/performers/:id/payouts", h.GetPayouts)

		// Gigs
		api.POST("/performers/:id/gigs", h.CreateGig)
		api.GET("/performers/:id/gigs", h.ListGigs)
		api.PATCH("/performers/:id/gigs/:gigID", h.UpdateGig)
		api.DELETE("/performers/:id/gigs/:gigID", h.DeleteGig)
	}

	router.GET("/ws/performers/:id", h.ServeWS)

	router.GET("/health", func(c *ginext.Context) {
		c.JSON(http.StatusOK, ginext.H{"status": "ok"})
	})

	return router
}
