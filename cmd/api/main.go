// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/stockhub/internal/admin"
	"github.com/carterperez-dev/stockhub/internal/asset"
	"github.com/carterperez-dev/stockhub/internal/auth"
	"github.com/carterperez-dev/stockhub/internal/authz"
	"github.com/carterperez-dev/stockhub/internal/cart"
	"github.com/carterperez-dev/stockhub/internal/config"
	"github.com/carterperez-dev/stockhub/internal/core"
	"github.com/carterperez-dev/stockhub/internal/events"
	"github.com/carterperez-dev/stockhub/internal/health"
	"github.com/carterperez-dev/stockhub/internal/middleware"
	"github.com/carterperez-dev/stockhub/internal/moderation"
	"github.com/carterperez-dev/stockhub/internal/persistence"
	"github.com/carterperez-dev/stockhub/internal/purchase"
	"github.com/carterperez-dev/stockhub/internal/server"
	"github.com/carterperez-dev/stockhub/internal/storage"
	"github.com/carterperez-dev/stockhub/internal/user"
)

const (
	drainDelay       = 5 * time.Second
	tokenPurgePeriod = time.Hour
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"store", cfg.Store.Driver,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App,
			attribute.String("store.driver", cfg.Store.Driver),
		)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	backend, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	publisher, eventsCheck := setupPublisher(cfg.Events, logger)

	signer, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	logger.Info("download signer ready", "signer", cfg.Storage.Signer)

	policy := authz.DefaultPolicy()
	machine := moderation.NewMachine(cfg.Moderation.StrictTransitions)

	userSvc := user.NewService(backend.Users, policy)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(backend.Tokens, jwtManager, userSvc, redis.Client)
	authHandler := auth.NewHandler(authSvc)

	assetSvc := asset.NewService(backend.Assets, policy, publisher, logger)
	assetHandler := asset.NewHandler(assetSvc)

	moderationSvc := moderation.NewService(backend.Assets, policy, machine, publisher, logger)
	moderationHandler := moderation.NewHandler(moderationSvc)

	cartSvc := cart.NewService(backend.Cart, backend.Assets, policy, logger)
	cartHandler := cart.NewHandler(cartSvc)

	purchaseSvc := purchase.NewService(
		backend.Tx,
		backend.Purchases,
		signer,
		policy,
		publisher,
		logger,
	)
	purchaseHandler := purchase.NewHandler(purchaseSvc)

	deps := []health.Dependency{
		{Name: "store", Checker: health.CheckerFunc(backend.Ping)},
		{Name: "redis", Checker: redis},
	}
	if eventsCheck != nil {
		deps = append(deps, health.Dependency{
			Name:     "events",
			Checker:  eventsCheck,
			Optional: true,
		})
	}
	healthHandler := health.NewHandler(cfg.App.Version, deps...)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Policy:     policy,
		Users:      userSvc,
		Assets:     assetSvc,
		Sales:      purchaseSvc,
		DBStats:    backend.DBStats,
		RedisStats: redis.PoolStats,
		StorePing:  backend.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	optionalAuth := middleware.OptionalAuth(authSvc)
	adminOnly := middleware.RequireAdmin
	roleLimit := middleware.RoleRateLimiter(redis.Client, middleware.DefaultRoleLimits)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)

		r.Post("/users", authHandler.Register)

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Use(roleLimit)

			assetHandler.RegisterRoutes(r, authenticator, optionalAuth)
			cartHandler.RegisterRoutes(r, authenticator)
			purchaseHandler.RegisterRoutes(r, authenticator)
		})

		userHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		moderationHandler.RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	go purgeTokens(ctx, authSvc, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := backend.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// setupPublisher prefers the broker when configured. A broker that cannot
// be reached degrades to log-only events rather than blocking startup.
func setupPublisher(
	cfg config.EventsConfig,
	logger *slog.Logger,
) (events.Publisher, health.Checker) {
	if cfg.AMQPURL == "" {
		return events.NewLogPublisher(logger), nil
	}

	amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		logger.Warn("event broker unavailable, logging events instead", "error", err)
		return events.NewLogPublisher(logger), nil
	}

	logger.Info("event broker connected", "exchange", cfg.Exchange)
	return amqpPub, amqpPub
}

func purgeTokens(ctx context.Context, svc *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(tokenPurgePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purge expired refresh tokens", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired refresh tokens", "count", n)
			}
		}
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
