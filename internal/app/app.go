package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/logger"
	"github.com/yoursongrequest/ysr/internal/config"
	"github.com/yoursongrequest/ysr/internal/handler"
	"github.com/yoursongrequest/ysr/internal/middleware"
	"github.com/yoursongrequest/ysr/internal/notification"
	"github.com/yoursongrequest/ysr/internal/realtime"
	"github.com/yoursongrequest/ysr/internal/repository"
	"github.com/yoursongrequest/ysr/internal/router"
	"github.com/yoursongrequest/ysr/internal/scheduler"
	"github.com/yoursongrequest/ysr/internal/service"
)

const migrationsDir = "migrations"

type App struct {
	cfg        *config.Config
	log        logger.Logger
	db         *dbpg.DB
	hub        *realtime.Hub
	httpServer *http.Server
	scheduler  *scheduler.Scheduler
}

func New(cfg *config.Config) (*App, error) {
	app := &App{cfg: cfg}

	log, err := logger.InitLogger(
		cfg.Logger.LogEngine(),
		"songrequest",
		cfg.Gin.Mode,
		logger.WithLevel(cfg.Logger.LogLevel()),
	)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	app.log = log

	if err = app.runMigrations(); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	if err = app.initDB(); err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	if err = app.initServices(); err != nil {
		return nil, fmt.Errorf("init services: %w", err)
	}

	return app, nil
}

func (a *App) initDB() error {
	db, err := dbpg.New(
		a.cfg.Postgres.DSN(),
		nil,
		&dbpg.Options{
			MaxOpenConns: a.cfg.Postgres.MaxOpenConns,
			MaxIdleConns: a.cfg.Postgres.MaxIdleConns,
		},
	)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.Master.PingContext(context.Background()); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	a.db = db
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "database connected",
		logger.String("host", a.cfg.Postgres.Host),
		logger.Int("port", a.cfg.Postgres.Port),
		logger.String("database", a.cfg.Postgres.Database),
	)

	return nil
}

func (a *App) initServices() error {
	performerRepo := repository.NewPerformerRepo(a.db)
	songRepo := repository.NewSongRepo(a.db)
	sessionRepo := repository.NewSessionRepo(a.db)
	requestRepo := repository.NewRequestRepo(a.db)
	transactionRepo := repository.NewTransactionRepo(a.db)
	gigRepo := repository.NewGigRepo(a.db)

	n, err := notification.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.log)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}

	commission, err := decimal.NewFromString(a.cfg.Session.Commission)
	if err != nil {
		return fmt.Errorf("parse commission: %w", err)
	}

	a.hub = realtime.NewHub(a.log)

	performerService := service.NewPerformerService(
		performerRepo, songRepo, sessionRepo, requestRepo, gigRepo,
		a.cfg.Session.PublicBaseURL,
	)
	catalogService := service.NewCatalogService(songRepo, performerRepo)
	sessionService := service.NewSessionService(
		sessionRepo, requestRepo, performerRepo, n, a.hub, a.log,
		service.SessionConfig{
			DefaultDuration:     a.cfg.Session.DefaultDuration,
			GraceWindow:         a.cfg.Session.GraceWindow,
			ClearQueueOnOffline: a.cfg.Session.ClearQueueOnOffline,
		},
	)
	requestService := service.NewRequestService(
		requestRepo, transactionRepo, songRepo, sessionRepo, performerRepo,
		n, a.hub, a.log,
	)
	queueService := service.NewQueueService(requestRepo, sessionRepo)
	payoutService := service.NewPayoutService(transactionRepo, performerRepo, commission)
	gigService := service.NewGigService(gigRepo, performerRepo)

	a.scheduler = scheduler.New(
		sessionService,
		a.cfg.Scheduler.Interval,
		a.log,
	)

	h := handler.NewHandler(
		performerService,
		catalogService,
		sessionService,
		requestService,
		queueService,
		payoutService,
		gigService,
		a.hub,
	)
	r := router.InitRouter(
		a.cfg.Gin.Mode,
		h,
		middleware.RequestID(),
		middleware.RequestLogger(a.log),
		middleware.Recovery(a.log),
	)

	a.httpServer = &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	return nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.hub.Run()
	go a.scheduler.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.log.LogAttrs(ctx, logger.InfoLevel, "HTTP server starting",
			logger.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.log.LogAttrs(context.Background(), logger.InfoLevel, "shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		a.cfg.Server.WriteTimeout,
	)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "HTTP server stopped")

	if err := a.db.Master.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	a.log.LogAttrs(context.Background(), logger.InfoLevel, "database connection closed")

	a.log.LogAttrs(context.Background(), logger.InfoLevel, "app stopped")

	return nil
}

func (a *App) runMigrations() error {
	db, err := sql.Open("postgres", a.cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	a.log.Info("migrations applied successfully")
	return nil
}
