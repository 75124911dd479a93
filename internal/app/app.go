// Package app wires configuration, logging, the catalog store, the query
// services and the HTTP router together, and runs the server until it
// is told to stop.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/patric-chuzhbe/bookstore/internal/config"
	"github.com/patric-chuzhbe/bookstore/internal/db/jsondb"
	"github.com/patric-chuzhbe/bookstore/internal/db/memorystorage"
	"github.com/patric-chuzhbe/bookstore/internal/db/seed"
	"github.com/patric-chuzhbe/bookstore/internal/logger"
	"github.com/patric-chuzhbe/bookstore/internal/models"
	"github.com/patric-chuzhbe/bookstore/internal/router"
	"github.com/patric-chuzhbe/bookstore/internal/service"
)

type storage interface {
	GetBook(ctx context.Context, key string) (models.Book, bool, error)
	ListBooks(ctx context.Context) ([]models.Book, error)
	CreateUser(ctx context.Context, usr *models.User) error
	Ping(ctx context.Context) error
	Close() error
}

// App owns the configuration, the store and the HTTP handler of a running
// bookstore server.
type App struct {
	cfg         *config.Config
	db          storage
	httpHandler http.Handler
}

// New loads the configuration, initializes the logger, seeds the store
// and builds the router.
func New(optionsProto ...config.InitOption) (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New(optionsProto...)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	books, err := loadCatalog(app.cfg)
	if err != nil {
		return nil, err
	}

	db, err := memorystorage.New(books)
	if err != nil {
		return nil, fmt.Errorf("error building the catalog: %w", err)
	}
	app.db = db
	logger.Log.Infow("catalog loaded", "books", len(books), "source", catalogSource(app.cfg))

	svc := service.New(app.db)
	app.httpHandler = router.New(
		svc,
		service.NewDeferred(svc),
		svc,
		app.db,
		router.WithGzip(app.cfg.EnableGzip),
	)

	return app, nil
}

// Run serves HTTP until SIGINT/SIGTERM, then shuts the server down
// within the configured timeout.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.serve(ctx)
}

func (a *App) serve(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Infow("server running", "RunAddr", a.cfg.RunAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Log.Infow("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return a.db.Close()
	})

	return g.Wait()
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.httpHandler
}

// Close flushes the logger.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Fprintln(os.Stderr, "Logger sync error:", err)
	}
}

func loadCatalog(cfg *config.Config) ([]models.Book, error) {
	if cfg.CatalogFileName != "" {
		return jsondb.Load(cfg.CatalogFileName)
	}

	return seed.Books()
}

func catalogSource(cfg *config.Config) string {
	if cfg.CatalogFileName != "" {
		return cfg.CatalogFileName
	}

	return "embedded"
}
