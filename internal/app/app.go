package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/recipebook-backend/internal/data/db"
	"github.com/yungbote/recipebook-backend/internal/data/repos"
	"github.com/yungbote/recipebook-backend/internal/domain"
	apphttp "github.com/yungbote/recipebook-backend/internal/http"
	"github.com/yungbote/recipebook-backend/internal/observability"
	"github.com/yungbote/recipebook-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Server   *apphttp.Server
	Cfg      Config
	Repos    repos.Set
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	a, err := NewWithConfig(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// NewWithConfig wires the application from an already loaded config.
func NewWithConfig(log *logger.Logger, cfg Config) (*App, error) {
	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	reposet, dbs, err := wireRepos(log, cfg, metrics)
	if err != nil {
		_ = otelShutdown(context.Background())
		return nil, err
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		if dbs != nil {
			_ = dbs.Close()
		}
		_ = otelShutdown(context.Background())
		return nil, err
	}

	serviceset := wireServices(log, cfg, reposet, clients, metrics)

	var health func(ctx context.Context) error
	if dbs != nil {
		health = dbs.Ping
	}
	handlerset, err := wireHandlers(log, serviceset, health)
	if err != nil {
		clients.Close()
		if dbs != nil {
			_ = dbs.Close()
		}
		_ = otelShutdown(context.Background())
		return nil, err
	}

	return &App{
		Log:          log,
		DB:           dbs,
		Server:       wireRouter(log, cfg, metrics, handlerset),
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work. With a change bus configured, published
// events are echoed to the debug log.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.ChangeBus != nil {
		log := a.Log.With("component", "ChangeForwarder")
		err := a.Clients.ChangeBus.StartForwarder(ctx, func(ch domain.Change) {
			log.Debug("catalog change", "kind", ch.Kind, "action", ch.Action, "id", ch.DomainID, "_id", ch.StorageID)
		})
		if err != nil {
			log.Warn("change forwarder not started", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if addr == "" {
		addr = a.Cfg.Addr()
	}
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
