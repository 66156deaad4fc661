package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	httpx "github.com/agbarbie/Rural-Connect-sub000/internal/http"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
	"github.com/agbarbie/Rural-Connect-sub000/internal/service"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	Verifier    ports.TokenVerifier
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	// ErrCh receives listener failures; optional.
	ErrCh chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Applications:  cfg.Services.Applications,
		Notifications: cfg.Services.Notifications,
		Jobs:          cfg.Services.Jobs,
		Bookmarks:     cfg.Services.Bookmarks,
		Verifier:      cfg.Verifier,
		HealthChecks:  healthChecks(cfg.DB, cfg.RedisClient),
		MaxBodyBytes:  appCfg.HTTP.MaxBodyBytes,
		Logger:        logger,
	})

	return startServer(logger, handler, appCfg.HTTP, cfg.ErrCh)
}

// healthChecks probes the stores the API cannot serve without.
func healthChecks(db *sql.DB, client redis.UniversalClient) map[string]httpx.HealthCheck {
	checks := make(map[string]httpx.HealthCheck, 2)
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}

func startServer(logger *slog.Logger, handler http.Handler, cfg config.HTTPConfig, errCh chan<- error) *http.Server {
	addr := cfg.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				select {
				case errCh <- fmt.Errorf("http server: %w", err):
				default:
				}
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	// Async is drained after the server stops so accepted requests finish
	// their notifications before the process exits.
	Async  *service.AsyncRunner
	Logger *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server and drains
// post-commit tasks.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Server != nil {
		logger.Info("shutting down HTTP server")
		if err := cfg.Server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("HTTP server stopped")
	}

	if cfg.Async != nil {
		if err := cfg.Async.Wait(ctx); err != nil {
			return fmt.Errorf("drain notification tasks: %w", err)
		}
	}
	return nil
}
