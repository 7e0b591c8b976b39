package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/hospital-scheduling/internal/config"
	authHandler "github.com/jwalitptl/hospital-scheduling/internal/handler/auth"
	catalogHandler "github.com/jwalitptl/hospital-scheduling/internal/handler/catalog"
	clinicianHandler "github.com/jwalitptl/hospital-scheduling/internal/handler/clinician"
	departmentHandler "github.com/jwalitptl/hospital-scheduling/internal/handler/department"
	"github.com/jwalitptl/hospital-scheduling/internal/handler/health"
	patientHandler "github.com/jwalitptl/hospital-scheduling/internal/handler/patient"
	procedureHandler "github.com/jwalitptl/hospital-scheduling/internal/handler/procedure"
	relationshipHandler "github.com/jwalitptl/hospital-scheduling/internal/handler/relationship"
	reportHandler "github.com/jwalitptl/hospital-scheduling/internal/handler/report"
	userHandler "github.com/jwalitptl/hospital-scheduling/internal/handler/user"
	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
	"github.com/jwalitptl/hospital-scheduling/internal/repository"
	"github.com/jwalitptl/hospital-scheduling/internal/repository/memory"
	"github.com/jwalitptl/hospital-scheduling/internal/repository/postgres"
	"github.com/jwalitptl/hospital-scheduling/internal/router"
	authService "github.com/jwalitptl/hospital-scheduling/internal/service/auth"
	catalogService "github.com/jwalitptl/hospital-scheduling/internal/service/catalog"
	clinicianService "github.com/jwalitptl/hospital-scheduling/internal/service/clinician"
	departmentService "github.com/jwalitptl/hospital-scheduling/internal/service/department"
	eventService "github.com/jwalitptl/hospital-scheduling/internal/service/event"
	patientService "github.com/jwalitptl/hospital-scheduling/internal/service/patient"
	procedureService "github.com/jwalitptl/hospital-scheduling/internal/service/procedure"
	relationshipService "github.com/jwalitptl/hospital-scheduling/internal/service/relationship"
	reportService "github.com/jwalitptl/hospital-scheduling/internal/service/report"
	userService "github.com/jwalitptl/hospital-scheduling/internal/service/user"
	"github.com/jwalitptl/hospital-scheduling/pkg/auth"
	"github.com/jwalitptl/hospital-scheduling/pkg/messaging"
	"github.com/jwalitptl/hospital-scheduling/pkg/messaging/redis"
	"github.com/jwalitptl/hospital-scheduling/pkg/metrics"
	"github.com/jwalitptl/hospital-scheduling/pkg/security"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, *l.Zerolog())
		},
	}
}

// openStorage returns the repositories for the configured driver. db is nil
// for the in-memory store.
func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (repository.Repositories, *sqlx.DB, error) {
	if cfg.Storage.Driver == "memory" {
		return memory.NewStore().Repositories(), nil, nil
	}
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return repository.Repositories{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewRepositories(db, m), db, nil
}

func openBroker(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (messaging.Broker, error) {
	if cfg.Redis.URL == "" {
		return messaging.NoopBroker{}, nil
	}
	return redis.NewRedisBroker(ctx, redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, logger)
}

func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if err := middleware.RegisterValidators(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(cfg.Metrics.Namespace, "api", registry)

	repos, db, err := openStorage(ctx, cfg, m)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	broker, err := openBroker(ctx, cfg, &logger)
	if err != nil {
		return err
	}
	defer broker.Close()

	// Initialize services
	events := eventService.NewEventService(broker, cfg.Redis.Channel, m, logger)
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	expiry := time.Duration(cfg.Auth.ExpiryHours) * time.Hour
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, expiry)

	catalogSvc := catalogService.NewService(repos, events, cfg.Cache.TTL, cfg.Cache.CleanupInterval, m)
	authSvc := authService.NewService(repos.Users, repos.Clinicians, hasher, jwtSvc, expiry)

	// Setup router
	routerCfg := router.RouterConfig{
		Mode:        cfg.Server.Mode,
		Logger:      logger,
		Registerer:  registry,
		Namespace:   cfg.Metrics.Namespace,
		CORSOrigins: cfg.CORS.AllowedOrigins,
	}
	if cfg.RateLimit.Enabled {
		routerCfg.RateLimit = &middleware.RateLimiterConfig{RPS: cfg.RateLimit.RequestsPerSecond, Burst: cfg.RateLimit.Burst}
	}
	r := router.NewRouter(middleware.NewAuthMiddleware(jwtSvc, cfg.Auth.Enabled), routerCfg)

	var public []router.Handler
	if cfg.Auth.Enabled {
		public = append(public, authHandler.NewHandler(authSvc))
	} else {
		logger.Warn().Msg("authentication disabled; every request acts as an administrator")
	}

	var pinger health.Pinger
	if db != nil {
		pinger = db
	}
	r.Setup(health.NewHandler(pinger, registry), public, []router.Handler{
		userHandler.NewHandler(userService.NewService(repos.Users, hasher, events)),
		departmentHandler.NewHandler(departmentService.NewService(repos.Departments, events)),
		clinicianHandler.NewHandler(clinicianService.NewService(repos, events)),
		patientHandler.NewHandler(patientService.NewService(repos, events)),
		relationshipHandler.NewHandler(relationshipService.NewService(repos, events)),
		catalogHandler.NewHandler(catalogSvc),
		procedureHandler.NewHandler(procedureService.NewService(repos, catalogSvc, events)),
		reportHandler.NewHandler(reportService.NewService(repos, catalogSvc)),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info().Msg("server exited properly")
	return nil
}
