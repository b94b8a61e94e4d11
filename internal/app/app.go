package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/upskill-backend/internal/data/db"
	apphttp "github.com/yungbote/upskill-backend/internal/http"
	"github.com/yungbote/upskill-backend/internal/observability"
	"github.com/yungbote/upskill-backend/internal/platform/envutil"
	"github.com/yungbote/upskill-backend/internal/platform/logger"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Cfg      Config
	Clients  Clients
	Stores   Stores
	Repos    Repos
	Services Services
	Metrics  *observability.Metrics
	Server   *apphttp.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	log, err := NewLogger()
	if err != nil {
		return nil, err
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "upskill-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	database, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(database.DB()); err != nil {
		_ = database.Close()
		log.Sync()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = database.Close()
		log.Sync()
		return nil, err
	}

	metrics := observability.NewMetrics()
	stores := wireStores(log, cfg, clients)
	reposet := wireRepos(database.DB(), log)
	serviceset := wireServices(database.DB(), log, cfg, clients, stores, reposet, metrics)
	handlerset := wireHandlers(log, serviceset, database, metrics)
	server := wireServer(log, cfg, handlerset, stores, metrics)

	return &App{
		Log:          log,
		DB:           database,
		Cfg:          cfg,
		Clients:      clients,
		Stores:       stores,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("Server listening", "addr", a.Cfg.Addr())
		return a.Server.Run(a.Cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		a.Log.Info("Shutting down server...")
		return a.Server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close()
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
