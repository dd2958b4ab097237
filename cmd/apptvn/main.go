package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/api"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/audit"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/config"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/identity"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/middleware"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/roles"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/routing"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/storage"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/tenants"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("apptvn: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("starting apptvn server")

	otelProviders, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		return fmt.Errorf("init opentelemetry: %w", err)
	}

	connMgr, err := storage.NewConnectionManager(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	db := connMgr.Primary()

	redisClient, err := storage.NewRedisClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	provider, err := identity.NewOIDCProvider(ctx, identity.Config{
		IssuerURL: cfg.Identity.IssuerURL,
		ClientID:  cfg.Identity.ClientID,
		CacheSize: cfg.Identity.CacheSize,
		CacheTTL:  cfg.Identity.CacheTTL,
	})
	if err != nil {
		return fmt.Errorf("init identity provider: %w", err)
	}

	var admin tenants.IdentityAdmin
	if cfg.Identity.AdminBaseURL != "" {
		client, err := identity.NewAdminClient(cfg.Identity.AdminBaseURL, cfg.Identity.ServiceKey)
		if err != nil {
			return fmt.Errorf("init identity admin client: %w", err)
		}
		admin = client
	} else {
		logger.Warn("identity admin endpoint not configured, signup is disabled")
		admin = signupDisabled{}
	}

	tenantService := tenants.NewPostgresService(db)
	roleStore := roles.NewStore(db)
	rapportiniStore := api.NewRapportiniStore(db)
	signupFlow := tenants.NewSignupFlow(admin, tenantService, logger)

	var metrics *observability.Metrics
	registry := prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	authorizer := middleware.NewAuthorizer(provider, tenantService, logger, metrics)
	guard := routing.NewGuard(provider, tenantService, tenantService, logger, metrics)

	auditLogger, err := audit.NewDBLogger(db)
	if err != nil {
		return fmt.Errorf("init audit logger: %w", err)
	}
	auditStore := audit.NewDBStore(auditLogger)

	var rateLimit func(http.Handler) http.Handler
	if redisClient != nil {
		rateLimit = middleware.NewDistributedRateLimitMiddleware(redisClient).Handler
	} else {
		rateLimit = middleware.NewRateLimitMiddleware().Handler
	}

	server := api.NewServer(api.Deps{
		Tenants:      tenantService,
		Roles:        roleStore,
		Rapportini:   rapportiniStore,
		Signup:       signupFlow,
		Identity:     provider,
		Authorizer:   authorizer,
		Logger:       logger,
		Metrics:      metrics,
		AuditLogger:  auditLogger,
		AuditStore:   auditStore,
		RateLimit:    rateLimit,
		CORSOrigins:  cfg.CORS.AllowedOrigins,
		MaxBodyBytes: 1 << 20,
	})

	var handler http.Handler = guard.Middleware(server)
	if cfg.Observability.OTelEnabled {
		handler = otelhttp.NewHandler(handler, "apptvn")
	}

	mainServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(db, redisClient))
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	healthServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler:      healthMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	bgCtx, cancelBg := context.WithCancel(ctx)
	defer cancelBg()
	connMgr.StartHealthCheckRoutine(bgCtx, 30*time.Second)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		defer observability.RecoverPanic(logger, "invitation cleanup")
		if err := tenantService.CleanupExpiredInvitations(bgCtx); err != nil {
			logger.WithError(err).Error("invitation cleanup failed")
		}
	}); err != nil {
		return fmt.Errorf("schedule invitation cleanup: %w", err)
	}
	if _, err := scheduler.AddFunc("@daily", func() {
		defer observability.RecoverPanic(logger, "audit cleanup")
		removed, err := auditStore.Cleanup(bgCtx, audit.DefaultRetentionPolicy())
		if err != nil {
			logger.WithError(err).Error("audit cleanup failed")
			return
		}
		logger.WithField("removed", removed).Info("audit cleanup completed")
	}); err != nil {
		return fmt.Errorf("schedule audit cleanup: %w", err)
	}
	scheduler.Start()

	shutdown := observability.NewShutdownManager(logger, mainServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		cancelBg()
		stopped := scheduler.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		return auditLogger.Close()
	})
	if redisClient != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return redisClient.Close()
		})
	}
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		return connMgr.Close()
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, otelProviders, logger)
	})

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", mainServer.Addr).Info("api server listening")
		if err := mainServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("health server listening")
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return shutdown.WaitForShutdown()
	})

	return g.Wait()
}

// signupDisabled stands in for the identity admin API when no admin
// endpoint is configured. Signup and recovery fail cleanly instead of
// panicking on a nil client.
type signupDisabled struct{}

func (signupDisabled) CreateUser(context.Context, string, string) (string, error) {
	return "", errors.New("signup is not configured on this deployment")
}

func (signupDisabled) DeleteUser(context.Context, string) error {
	return errors.New("signup is not configured on this deployment")
}
