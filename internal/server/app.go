// Package server initializes and runs the main application server.
// It opens the database, applies migrations, wires services to the media
// store, and starts the HTTP API with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pkalnins/gallery/internal/logging"
	"github.com/pkalnins/gallery/internal/server/config"
	"github.com/pkalnins/gallery/internal/server/httpapi"
	"github.com/pkalnins/gallery/internal/server/media"
	"github.com/pkalnins/gallery/internal/server/repositories/repomanager"
	"github.com/pkalnins/gallery/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *services.UserService
	postService *services.PostService
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewDefault(false)

	db, err := repomanager.OpenDB(context.Background(), c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	store := media.NewS3Store(c)

	us := services.NewUserService(db, m, c)
	ps := services.NewPostService(db, m, store, logger)

	return &App{config: c, logger: logger, userService: us, postService: ps}, nil
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
	s := httpapi.NewServer(app.config, app.logger, app.userService, app.postService)

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
}
