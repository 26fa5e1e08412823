// Package server initializes and runs the main application server. It wires
// the database, the expiring session and upload stores with their sweepers,
// the sandboxed storage services and the HTTP endpoint, and handles graceful
// shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"

	"homecloud/internal/logging"
	"homecloud/internal/server/config"
	"homecloud/internal/server/httpapi"
	"homecloud/internal/server/models"
	"homecloud/internal/server/repositories/repomanager"
	"homecloud/internal/server/services"
	"homecloud/internal/server/sessions"
	"homecloud/internal/server/storage"
	"homecloud/internal/server/uploads"
	"homecloud/internal/ttlmap"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db    *sql.DB
	repos repomanager.RepositoryManager

	sessionSweeper *ttlmap.Sweeper[uuid.UUID, sessions.Record]
	uploadSweeper  *ttlmap.Sweeper[uuid.UUID, models.PendingUpload]

	httpServer *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.StorageLocation, 0o750); err != nil {
		return nil, fmt.Errorf("preparing storage location: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	usersRepo := rm.Users(db)
	sharesRepo := rm.Shares(db)

	sessionStore := ttlmap.New[uuid.UUID, sessions.Record]()
	uploadStore := ttlmap.New[uuid.UUID, models.PendingUpload]()

	storageService := storage.NewService(cfg.StorageLocation, logger)
	uploadService := uploads.NewService(uploadStore, cfg.StorageLocation, logger)
	userService := services.NewUserService(usersRepo, sessionStore, logger)
	shareService := services.NewShareService(sharesRepo, storageService, logger)

	key := []byte(cfg.SecretKey)
	guard := sessions.NewGuard(sessionStore, usersRepo, key, logger)

	httpServer := httpapi.NewServer(cfg.EndpointAddr, userService, uploadService,
		storageService, shareService, guard, key, cfg.SessionRetention, logger)

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		repos:          rm,
		sessionSweeper: ttlmap.NewSweeper(sessionStore, cfg.SweepInterval, cfg.SessionRetention),
		uploadSweeper:  ttlmap.NewSweeper(uploadStore, cfg.SweepInterval, cfg.UploadRetention),
		httpServer:     httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	app.sessionSweeper.Start()
	app.uploadSweeper.Start()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	app.sessionSweeper.Stop()
	app.uploadSweeper.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
