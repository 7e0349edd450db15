// Package app assembles the storefront from configuration and owns its
// lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erohshop/storefront/internal/config"
	"github.com/erohshop/storefront/internal/event"
	handler "github.com/erohshop/storefront/internal/handler/http"
	"github.com/erohshop/storefront/internal/remote"
	"github.com/erohshop/storefront/internal/service"
	"github.com/erohshop/storefront/internal/store"
	"github.com/erohshop/storefront/pkg/health"
	"github.com/erohshop/storefront/pkg/httpclient"
	pkgkafka "github.com/erohshop/storefront/pkg/kafka"
	"github.com/erohshop/storefront/pkg/middleware"
	"github.com/erohshop/storefront/pkg/tracing"
)

const (
	profileSweepInterval    = time.Minute
	categoriesMaxAgeSeconds = 30
	drainTimeout            = 10 * time.Second
	flushTimeout            = 3 * time.Second
)

// App is the running storefront: HTTP server, profile sweeper and the
// connections they share.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	profiles       *service.Profiles
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp connects the store, event sink and remote client and builds the
// router. A configured Redis that does not answer PING is fatal.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    handler.ServiceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{cfg: cfg, logger: logger, tracerShutdown: shutdown}
	checks := health.NewHandler()

	base, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	checks.RegisterCritical("store", base.Ping)

	events := event.NewProducer(a.openEventSink(checks), logger)

	breaker := a.remoteTransport()
	checks.RegisterNonCritical(remote.ServiceName, remote.HealthCheck(breaker))
	catalogAPI := remote.NewClient(breaker, cfg.RemoteBaseURL, logger)

	a.profiles = service.NewProfiles(base, catalogAPI, events, cfg.ProfileIdleTTL(), logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      handler.NewRouter(a.profiles, checks, a.routerConfig(), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	if a.cfg.StoreBackend != "redis" {
		a.logger.Info("using in-memory store")
		return store.NewMemoryStore(), nil
	}

	a.rdb = redis.NewClient(&redis.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPass,
		DB:       a.cfg.RedisDB,
	})
	if err := a.rdb.Ping(ctx).Err(); err != nil {
		_ = a.rdb.Close()
		a.rdb = nil
		return nil, fmt.Errorf("connect to redis at %s: %w", a.cfg.RedisAddr, err)
	}
	a.logger.Info("connected to redis", slog.String("addr", a.cfg.RedisAddr), slog.Int("db", a.cfg.RedisDB))
	return store.NewRedisStore(a.rdb, a.cfg.StoreTTL()), nil
}

func (a *App) openEventSink(checks *health.Handler) event.Sink {
	if !a.cfg.EventsEnabled() {
		a.logger.Info("kafka brokers not configured, activity events disabled")
		return event.NopSink{}
	}
	a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers), a.logger)
	checks.RegisterNonCritical("kafka", a.producer.Ping)
	a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))
	return a.producer
}

// remoteTransport is the retrying client behind a circuit breaker.
func (a *App) remoteTransport() *httpclient.CircuitBreakerClient {
	retrying := httpclient.New(httpclient.Config{
		Timeout:         a.cfg.RemoteTimeout(),
		MaxRetries:      a.cfg.RemoteMaxRetries,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 20,
	})
	bc := httpclient.DefaultCircuitBreakerConfig(remote.ServiceName)
	bc.FailureRatio = a.cfg.BreakerFailureRatio

	a.logger.Info("remote client initialized",
		slog.String("base_url", a.cfg.RemoteBaseURL),
		slog.Duration("timeout", a.cfg.RemoteTimeout()),
		slog.Int("max_retries", a.cfg.RemoteMaxRetries),
	)
	return httpclient.NewCircuitBreakerClient(retrying, bc, a.logger)
}

func (a *App) routerConfig() handler.RouterConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = a.cfg.CORSAllowedOrigins
	cors.Environment = a.cfg.Environment
	cors.AllowCredentials = true

	return handler.RouterConfig{
		CookieSecure:   a.cfg.CookieSecure,
		LoginRateRPS:   a.cfg.LoginRateLimitRPS,
		LoginRateBurst: a.cfg.LoginRateLimitBurst,
		CORS:           cors,
		CatalogMaxAge:  categoriesMaxAgeSeconds,
		PprofCIDRs:     a.cfg.PprofAllowedCIDRs,
	}
}

// Run serves HTTP and sweeps idle profiles until ctx is canceled or the
// listener fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		err := a.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.profiles.Run(sweepCtx, profileSweepInterval)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	return a.Shutdown()
}

// Shutdown drains HTTP first, then flushes spans and closes connections.
// Every step runs; their errors are joined.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"http server", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			defer cancel()
			return a.httpServer.Shutdown(ctx)
		}},
		{"tracer", func() error {
			if a.tracerShutdown == nil {
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			defer cancel()
			return a.tracerShutdown(ctx)
		}},
		{"kafka producer", func() error {
			if a.producer == nil {
				return nil
			}
			return a.producer.Close()
		}},
		{"redis", func() error {
			if a.rdb == nil {
				return nil
			}
			return a.rdb.Close()
		}},
	}

	var errs []error
	for _, s := range steps {
		if err := s.fn(); err != nil {
			a.logger.Error("shutdown step failed", slog.String("step", s.name), slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
