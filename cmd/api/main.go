package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/parts-store/internal/api/http"
	"github.com/spec-kit/parts-store/internal/config"
	"github.com/spec-kit/parts-store/internal/events"
	"github.com/spec-kit/parts-store/internal/observability"
	"github.com/spec-kit/parts-store/internal/payment"
	"github.com/spec-kit/parts-store/internal/persistence"
	"github.com/spec-kit/parts-store/internal/repository"
	"github.com/spec-kit/parts-store/internal/service"
	"github.com/spec-kit/parts-store/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var store repository.Store
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(cfg.Postgres, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = repository.NewPostgresStore(pg.PoolHandle())
	} else {
		logger.Warn("using in-memory document store; data is lost on restart")
		store = repository.NewMemoryStore()
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	stripe := payment.NewStripeProvider(cfg.Payment.StripeSecretKey)
	if !stripe.Configured() {
		logger.Warn("STRIPE_SECRET_KEY not provided; payment intents will fail")
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	app := httptransport.NewServer(httptransport.Dependencies{
		Config:     cfg,
		Store:      store,
		Redis:      redis,
		Payments:   stripe,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
	})

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
