package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-intake/internal/config"
	"github.com/xavierca1/lead-intake/internal/infra/database"
	"github.com/xavierca1/lead-intake/internal/infra/enrichment"
	"github.com/xavierca1/lead-intake/internal/infra/http/handlers"
	"github.com/xavierca1/lead-intake/internal/infra/integration/anymailfinder"
	"github.com/xavierca1/lead-intake/internal/infra/mail"
	"github.com/xavierca1/lead-intake/internal/infra/queue"
	"github.com/xavierca1/lead-intake/internal/usecase"
)

const migrateRetryInterval = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := config.InitLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	pool, err := database.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	leadRepo := database.NewLeadRepository(pool)
	if err := leadRepo.Ping(ctx); err != nil {
		logger.Error("database not reachable at startup", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		// a database that comes up late still gets its schema
		go func() {
			if err := database.MigrateWhenReady(ctx, pool, migrateRetryInterval, logger.Named("migrate")); err != nil && ctx.Err() == nil {
				logger.Error("migration failed", zap.Error(err))
			}
		}()
	}

	// 2. Enrichment
	simulator := enrichment.NewSimulator(
		enrichment.WithLatency(cfg.Enrichment.SimulatorMinLatency(), cfg.Enrichment.SimulatorJitter()),
	)
	var searcher enrichment.PersonSearcher
	if cfg.Enrichment.APIKey != "" {
		searcher = anymailfinder.NewClient(cfg.Enrichment.APIKey, cfg.Enrichment.BaseURL, cfg.Enrichment.Timeout())
	}
	provider := enrichment.NewProvider(searcher, simulator, cfg.Enrichment.Timeout(), logger.Named("enrichment"))
	logger.Info("enrichment configured", zap.String("mode", string(provider.Mode())))

	// 3. Events and alerts, optional
	var (
		publisher usecase.LeadEventPublisher
		broker    handlers.BrokerStatus
	)
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Error("rabbitmq unavailable, lead events disabled", zap.Error(err))
		} else {
			defer func() { _ = rabbit.Close() }()
			publisher = queue.NewProducer(rabbit.Ch)
			broker = rabbit

			if cfg.Mail.AlertsEnabled() {
				sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From)
				worker := queue.NewWorker(rabbit.Ch, mail.NewAlertNotifier(sender, cfg.Mail.AlertTo), logger.Named("worker"))
				go func() {
					if err := worker.Start(ctx, queue.QueueName); err != nil {
						logger.Error("alert worker stopped", zap.Error(err))
					}
				}()
			}
		}
	}

	// 4. Use cases and handlers
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, provider, publisher, logger.Named("intake"))
	listLeadsUC := usecase.NewListLeadsUseCase(leadRepo)

	router := newRouter(routerDeps{
		Leads:          handlers.NewLeadHandler(createLeadUC, listLeadsUC, logger),
		Health:         handlers.NewHealthHandler(leadRepo, broker, provider),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
