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

	"golang.org/x/sync/errgroup"

	"ledger/internal/config"
	"ledger/internal/database"
	"ledger/internal/events"
	"ledger/internal/logger"
	"ledger/internal/repository"
	"ledger/internal/server"
	"ledger/internal/services"
)

// @title           Ledger API
// @version         1.0
// @description     Records income and expense transactions and reports the running balance.

// @host      localhost:3000
// @BasePath  /

const (
	shutdownTimeout = 15 * time.Second
	eventQueueSize  = 256
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context) error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	vocab, err := cfg.Vocabulary()
	if err != nil {
		return err
	}

	// An unreachable store is not fatal: the API starts and every
	// store-backed request fails until it is restarted against a live store.
	store, closeStore, err := database.Open(ctx, cfg)
	if err != nil {
		log.Errorw("store unavailable, serving without it", "driver", cfg.DBDriver, "error", err)
		store = repository.Unavailable(err)
		closeStore = func(context.Context) error { return nil }
	} else {
		log.Infow("store connected", "driver", cfg.DBDriver)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Warnw("failed to close store", "error", err)
		}
	}()

	publisher := newPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnw("failed to close event publisher", "error", err)
		}
	}()

	svc := services.NewTransactionService(store, vocab, publisher)
	router := server.NewRouter(svc, server.Options{
		CORSOrigin: cfg.CORSOrigin,
		Swagger:    !cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("starting ledger API",
			"port", cfg.Port,
			"vocabulary", vocab.Name,
			"income", vocab.Income,
			"expense", vocab.Expense,
		)
		if !cfg.IsProduction() {
			log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newPublisher(cfg *config.Config) events.Publisher {
	log := logger.Get()
	if cfg.AMQPURL == "" {
		log.Debug("AMQP_URL not set, change events disabled")
		return events.Nop{}
	}

	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Errorw("failed to connect to AMQP broker, change events disabled", "error", err)
		return events.Nop{}
	}
	log.Infow("publishing change events", "exchange", cfg.AMQPExchange)
	return events.NewAsync(publisher, eventQueueSize)
}
