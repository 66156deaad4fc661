package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/agbarbie/Rural-Connect-sub000/config"
	"github.com/agbarbie/Rural-Connect-sub000/internal/adapters/reaper"
	"github.com/agbarbie/Rural-Connect-sub000/internal/core"
	"github.com/agbarbie/Rural-Connect-sub000/internal/data"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify/pagerduty"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/notify/slack"
	"github.com/agbarbie/Rural-Connect-sub000/internal/observability/statsd"
	"github.com/agbarbie/Rural-Connect-sub000/internal/ports"
	"github.com/agbarbie/Rural-Connect-sub000/internal/service"
	"github.com/agbarbie/Rural-Connect-sub000/internal/service/failurenotifier"
)

// cacheKeyPrefix namespaces every cache key written by this deployment.
const cacheKeyPrefix = "ruralconnect:"

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Applications  *service.ApplicationService
	Notifications *service.NotificationService
	Audience      *service.AudienceService
	Jobs          *service.JobService
	Bookmarks     *service.BookmarkService
	Counters      core.CounterAuditRepository
	// Async runs post-commit notification and broadcast tasks for every service.
	Async         *service.AsyncRunner
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.MetricsConfig
	Alerts        *failurenotifier.Service
}

// Sink returns the metrics sink, or nil when metrics are disabled.
//
//nolint:ireturn // services accept the Sink port.
func (o ObservabilityContainer) Sink() statsd.Sink {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink
}

// Alerter returns the operator alert fan-out, or nil when no sink is configured.
//
//nolint:ireturn // services accept the FailureAlerter port.
func (o ObservabilityContainer) Alerter() service.FailureAlerter {
	if !o.Alerts.Enabled() {
		return nil
	}
	return o.Alerts
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Applications  *data.ApplicationRepo
	Notifications *data.NotificationRepo
	Users         *data.UserRepo
	Audience      *data.AudienceRepo
	Jobs          *data.JobRepo
	Bookmarks     *data.BookmarkRepo
	Cache         *core.NotificationCache
}

// buildObservability configures the metrics sink and operator alerts.
func buildObservability(logger *slog.Logger, metrics config.MetricsConfig, alerts config.AlertsConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: metrics.StatsdAddress,
			Prefix:  metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("statsd disabled", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: metrics,
		Alerts:        buildFailureNotifier(obsLogger, alerts),
	}
}

// buildFailureNotifier registers every active alert sink. A sink that fails
// to build is logged and left out; nil means alerts are off.
func buildFailureNotifier(logger *slog.Logger, cfg config.AlertsConfig) *failurenotifier.Service {
	if !cfg.Enabled {
		return nil
	}

	type sinkFactory struct {
		name   string
		active bool
		build  func() (notify.Sink, error)
	}
	factories := []sinkFactory{
		{"slack", cfg.SlackEnabled(), func() (notify.Sink, error) {
			return slack.NewClient(slack.Config{
				WebhookURL: cfg.SlackWebhookURL,
				Channel:    cfg.SlackChannel,
				Username:   cfg.SlackUsername,
				Timeout:    cfg.Timeout,
				RetryLimit: cfg.Retries,
			})
		}},
		{"pagerduty", cfg.PagerDutyEnabled(), func() (notify.Sink, error) {
			return pagerduty.NewClient(pagerduty.Config{
				RoutingKey: cfg.PagerDutyRoutingKey,
				Source:     cfg.PagerDutySource,
				Timeout:    cfg.Timeout,
				RetryLimit: cfg.Retries,
			})
		}},
	}

	var sinks []failurenotifier.SinkRegistration
	for _, f := range factories {
		if !f.active {
			continue
		}
		sink, err := f.build()
		if err != nil {
			logger.Error("alert sink disabled", "sink", f.name, "error", err)
			continue
		}
		sinks = append(sinks, failurenotifier.SinkRegistration{Name: f.name, Sink: sink})
	}
	if len(sinks) == 0 {
		logger.Warn("alerts enabled but no sink has credentials")
		return nil
	}

	return failurenotifier.NewService(failurenotifier.Options{
		Logger:   logger,
		Sinks:    sinks,
		Cooldown: cfg.Cooldown,
	})
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, client redis.UniversalClient, cfg *config.AppConfig, logger *slog.Logger) *serviceRepositories {
	repos := &serviceRepositories{
		Applications:  data.NewApplicationRepo(db),
		Notifications: data.NewNotificationRepo(db),
		Users:         data.NewUserRepo(db),
		Audience:      data.NewAudienceRepo(db),
		Jobs:          data.NewJobRepo(db, data.RepoConfig{Logger: logger}),
		Bookmarks:     data.NewBookmarkRepo(db),
	}
	if client != nil {
		repos.Cache = core.NewNotificationCache(
			data.NewRedisCacheRepo(client, cacheKeyPrefix),
			core.NotificationCacheConfig{UnreadTTL: cfg.Notifications.UnreadCacheTTL},
		)
	}
	return repos
}

// NewServices wires repositories, caches and services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil || deps.DB == nil {
		return ServiceContainer{}, errors.New("config and database are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	observability := buildObservability(logger, cfg.Metrics, cfg.Alerts)
	sink := observability.Sink()
	repos := buildRepositories(deps.DB, deps.RedisClient, cfg, logger)
	async := service.NewAsyncRunner(service.AsyncRunnerOptions{Logger: logger, Metrics: sink})

	notifications, err := service.NewNotificationService(service.NotificationServiceOptions{
		Repo:    repos.Notifications,
		Users:   repos.Users,
		Cache:   repos.Cache,
		Logger:  logger,
		Metrics: sink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("notification service: %w", err)
	}

	audience, err := service.NewAudienceService(service.AudienceServiceOptions{
		Repo:     repos.Audience,
		Notifier: notifications,
		Cache:    repos.Cache,
		Config:   cfg.Notifications,
		Logger:   logger,
		Metrics:  sink,
		Alerts:   observability.Alerter(),
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("audience service: %w", err)
	}

	applications, err := service.NewApplicationService(service.ApplicationServiceOptions{
		Repo:     repos.Applications,
		Notifier: notifications,
		Async:    async,
		Config:   cfg.Applications,
		Logger:   logger,
		Metrics:  sink,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("application service: %w", err)
	}

	jobs, err := service.NewJobService(service.JobServiceOptions{
		Repo:        repos.Jobs,
		Broadcaster: audience,
		Async:       async,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("job service: %w", err)
	}

	return ServiceContainer{
		Applications:  applications,
		Notifications: notifications,
		Audience:      audience,
		Jobs:          jobs,
		Bookmarks:     service.NewBookmarkService(repos.Bookmarks),
		Counters:      repos.Applications,
		Async:         async,
		Observability: observability,
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	Verifier    ports.TokenVerifier
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	name string
	done <-chan struct{}
}

func launchBackground(ctx context.Context, logger *slog.Logger, errCh chan<- error, svc backgroundService) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := svc.start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errMsg := fmt.Errorf("%s failed: %w", svc.name, err)
			select {
			case errCh <- errMsg:
			default:
				logger.WarnContext(ctx, "dropping background service error", "service", svc.name, "error", errMsg)
			}
		}
	}()
	logger.InfoContext(ctx, "background service started", "service", svc.name, "mode", svc.mode)
	return done
}

func buildBackgroundServices(cfg *ServiceOrchestrationConfig, logger *slog.Logger) []backgroundService {
	return []backgroundService{
		{
			mode: config.ServiceModeReaper,
			name: "reaper",
			start: func(ctx context.Context) error {
				runner, err := reaper.NewRunner(reaper.RunnerOptions{
					DB:      cfg.DB,
					Logger:  logger,
					Config:  cfg.Config.Reaper,
					Metrics: cfg.Services.Observability.Sink(),
					Alerts:  cfg.Services.Observability.Alerter(),
				})
				if err != nil {
					return fmt.Errorf("create reaper runner: %w", err)
				}
				return runner.Run(ctx)
			},
		},
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// It blocks until ctx is cancelled, a shutdown signal arrives or a service fails.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enabled, err := cfg.Config.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}

	serviceCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, errorChannelBufferSize(enabled))

	var server *http.Server
	if enabled[config.ServiceModeHTTP] {
		server = StartHTTPServer(&HTTPServerConfig{
			Config:      cfg.Config,
			Services:    cfg.Services,
			Verifier:    cfg.Verifier,
			DB:          cfg.DB,
			RedisClient: cfg.RedisClient,
			Logger:      logger,
			ErrCh:       errCh,
		})
	}

	var handles []backgroundServiceHandle
	for _, svc := range buildBackgroundServices(cfg, logger) {
		if !enabled[svc.mode] {
			continue
		}
		handles = append(handles, backgroundServiceHandle{
			name: svc.name,
			done: launchBackground(serviceCtx, logger, errCh, svc),
		})
	}

	var runErr error
	select {
	case <-serviceCtx.Done():
		logger.Info("shutting down services")
	case runErr = <-errCh:
		logger.Error("service error", "error", runErr)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Config.HTTP.ShutdownTimeout)
	defer cancel()

	if err := ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  server,
		Async:   cfg.Services.Async,
		Logger:  logger,
	}); err != nil {
		logger.Error("graceful stop failed", "error", err)
		if runErr == nil {
			runErr = err
		}
	}

	for _, h := range handles {
		waitForService(shutdownCtx, h.done, h.name, logger)
	}
	if client := cfg.Services.Observability.MetricsSink; client != nil {
		if err := client.Close(); err != nil {
			logger.Warn("close statsd client", "error", err)
		}
	}

	return runErr
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	count := 0
	for _, mode := range config.ValidServiceModes() {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	return errorChannelCapacity(enabled) + 1
}

// waitForService waits for a background service to finish until ctx expires.
func waitForService(ctx context.Context, done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-ctx.Done():
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
