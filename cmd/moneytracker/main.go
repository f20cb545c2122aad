package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"moneytracker/internal/amqp"
	"moneytracker/internal/backend"
	"moneytracker/internal/cache"
	"moneytracker/internal/cli"
	apphttp "moneytracker/internal/http"
	"moneytracker/internal/ledger"
	applog "moneytracker/internal/log"
	"moneytracker/internal/receipt"
	"moneytracker/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(applog.New(applog.DefaultConfig()))
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentApp)
	logger.Info("Starting moneytracker", cli.Describe(cfg)...)

	ctx := context.Background()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	be, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "backend", cfg.DataBackend)
	}

	commits := applog.NewStructuredLogger(logger.WithComponent(applog.ComponentLedger))
	hooks := []ledger.Hook{
		ledger.PersistTo(be.Store),
		ledger.HookFunc(func(ctx context.Context, c ledger.Commit) error {
			commits.LogCommit(ctx, c.Kind, c.Revision, c.TransactionID)
			return nil
		}),
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// The ledger keeps working without change events.
			logger.Error("Failed to connect to AMQP, change events disabled", "error", err)
			amqpClient = nil
		} else {
			hooks = append(hooks, amqp.NewNotifier(amqpClient))
			logger.Info("AMQP change events enabled", "exchange", cfg.AMQPExchange)
		}
	}

	store := ledger.New(storage.LoadOrDefault(ctx, be.Store), ledger.WithHooks(hooks...))
	logger.Info("Ledger loaded", "transactions", store.Stats().TransactionCount)

	caches := cache.NewManager()
	var (
		scanner apphttp.ReceiptScanner
		archive *receipt.GCSArchive
	)
	if cfg.ReceiptsEnabled() {
		gemini, err := receipt.NewGeminiScanner(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize receipt scanner", err)
		}
		opts := []receipt.Option{receipt.WithCacheSize(cfg.ReceiptCacheSize, cfg.ReceiptCacheTTL)}
		if cfg.ReceiptBucket != "" {
			archive, err = receipt.NewGCSArchive(ctx, cfg.ReceiptBucket)
			if err != nil {
				cli.Fatal(logger, "Failed to initialize receipt archive", err, "bucket", cfg.ReceiptBucket)
			}
			opts = append(opts, receipt.WithArchive(archive))
		}
		svc := receipt.NewService(gemini, store, opts...)
		caches.Register("receipts", svc.Cache())
		scanner = svc
		logger.Info("Receipt scanning enabled", "model", cfg.GeminiModel)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Store:            store,
		Receipts:         scanner,
		Checks:           map[string]apphttp.Pinger{"storage": be},
		Logger:           logger.WithComponent(applog.ComponentHTTP),
		ReceiptRateLimit: cfg.ReceiptRateLimit,
	})

	runCtx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		caches.Stop()
		// Close drains pending saves and change events before the backend goes away.
		if err := store.Close(ctx); err != nil {
			logger.Error("Ledger close error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if archive != nil {
			if err := archive.Close(); err != nil {
				logger.Error("Receipt archive close error", "error", err)
			}
		}
		if err := be.Close(); err != nil {
			logger.Error("Backend close error", "error", err)
		}
	})
	caches.StartCleanup(runCtx, 10*time.Minute)

	logger.Info("Listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cli.Fatal(logger, "Server error", err, "port", cfg.Port)
	}

	cli.WaitForShutdown(runCtx, done)
	logger.Info("Server stopped gracefully")
}
