package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pet-health-core/internal/adapters/auth/identity"
	"pet-health-core/internal/adapters/auth/jwtauth"
	"pet-health-core/internal/adapters/capabilities/plansfeatures"
	"pet-health-core/internal/adapters/notify/amqpnotify"
	"pet-health-core/internal/adapters/ratelimit"
	pg "pet-health-core/internal/adapters/storage/postgres"
	"pet-health-core/internal/adapters/storage/postgres/migrations"
	"pet-health-core/internal/domain/wellness"
	"pet-health-core/internal/platform/config"
	"pet-health-core/internal/platform/logger"
	"pet-health-core/internal/platform/telemetry"
	"pet-health-core/internal/ports/auth"
	"pet-health-core/internal/ports/capabilities"
	portlimit "pet-health-core/internal/ports/ratelimit"
	"pet-health-core/internal/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg config.Config, log logger.Logger) error {
	shutdownMetrics, err := telemetry.Setup(ctx, telemetry.Options{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(flushCtx); err != nil {
			log.Warn("metrics flush failed", map[string]any{"error": err.Error()})
		}
	}()

	var db *sql.DB
	if strings.TrimSpace(cfg.Database.DSN) != "" {
		db, err = pg.Open(ctx, cfg.Database.DSN, pg.DefaultPoolOptions())
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(db); err != nil {
				return err
			}
			log.Info("schema migrated", nil)
		}
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	verifier, err := newVerifier(cfg.Auth, log)
	if err != nil {
		return err
	}

	premium, err := newPremiumResolver(cfg.Plans, log)
	if err != nil {
		return err
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	notifier, closeNotifier, err := newNotifier(cfg.RabbitMQ, log)
	if err != nil {
		return err
	}
	defer closeNotifier()

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: router.NewRouter(router.Options{
			AuthVerifier: verifier,
			DB:           db,
			Premium:      premium,
			Limiter:      limiter,
			Notifier:     notifier,
			Logger:       log,
			ShareOrigin:  cfg.Share.Origin,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration,
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTP.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newVerifier: JWT local > identity provider > modo dev (nil).
func newVerifier(cfg config.AuthConfig, log logger.Logger) (auth.AuthVerifier, error) {
	switch {
	case cfg.JWTSecret != "":
		v, err := jwtauth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return nil, err
		}
		return v, nil
	case cfg.IdentityURL != "":
		v, err := identity.NewVerifier(identity.Config{BaseURL: cfg.IdentityURL, APIKey: cfg.IdentityAPIKey})
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		log.Warn("no auth verifier configured, accepting X-Debug-User-ID", nil)
		return nil, nil
	}
}

func newPremiumResolver(cfg config.PlansConfig, log logger.Logger) (capabilities.PremiumResolver, error) {
	if cfg.BaseURL == "" && !cfg.AllowAll {
		log.Warn("plans-features not configured, every user is premium", nil)
		return capabilities.AllowAll{}, nil
	}
	client, err := plansfeatures.NewClient(plansfeatures.Config{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("plans-features client: %w", err)
	}
	return plansfeatures.NewResolver(client, cfg.AllowAll), nil
}

func newLimiter(ctx context.Context, cfg config.Config, log logger.Logger) (portlimit.Limiter, func(), error) {
	rl := ratelimit.Config{
		Limit:  cfg.Share.RateLimit,
		Window: cfg.Share.RateWindow.Duration,
		Prefix: "pet-health-core:ratelimit:",
	}
	if cfg.Redis.Addr == "" {
		return ratelimit.NewMemory(rl), func() {}, nil
	}

	client, err := ratelimit.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	l, err := ratelimit.NewRedis(client, rl)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info("share rate limiter backed by redis", map[string]any{"addr": cfg.Redis.Addr})
	return l, func() { _ = client.Close() }, nil
}

func newNotifier(cfg config.RabbitMQConfig, log logger.Logger) (wellness.AlertNotifier, func(), error) {
	if cfg.URL == "" {
		return wellness.NopNotifier{}, func() {}, nil
	}

	ch, closeConn, err := amqpnotify.Dial(cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	n, err := amqpnotify.New(ch, cfg.Exchange)
	if err != nil {
		_ = closeConn()
		return nil, nil, err
	}
	log.Info("wellness alerts published to rabbitmq", map[string]any{"exchange": cfg.Exchange})
	return n, func() { _ = closeConn() }, nil
}
