// Package server initializes and runs the main application server.
// It opens the database, runs migrations, wires services and starts the
// HTTP server with graceful shutdown on OS signals.
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

	"github.com/dmitrijs2005/snapfeed/internal/logging"
	"github.com/dmitrijs2005/snapfeed/internal/server/config"
	"github.com/dmitrijs2005/snapfeed/internal/server/httpapi"
	"github.com/dmitrijs2005/snapfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/snapfeed/internal/server/services"
	"github.com/dmitrijs2005/snapfeed/internal/server/storage"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	friendService *services.FriendService
	postService   *services.PostService
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	uploader := storage.NewS3Uploader(c)

	us := services.NewUserService(db, rm, c)
	fs := services.NewFriendService(db, rm, logger)
	ps := services.NewPostService(db, rm, uploader, logger, c)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   us,
		friendService: fs,
		postService:   ps,
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config, app.logger, app.userService, app.friendService, app.postService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
