package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"moneytracker/internal/amqp"
	"moneytracker/internal/backend"
	"moneytracker/internal/cli"
	applog "moneytracker/internal/log"
	"moneytracker/internal/sheets"
	gsheet "moneytracker/internal/sheets/google"
	memmirror "moneytracker/internal/sheets/memory"
	"moneytracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(applog.New(applog.DefaultConfig()))
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentWorker)
	logger.Info("Starting tracker-worker")

	if cfg.AMQPURL == "" {
		cli.Fatal(logger, "Mirror worker cannot start", errors.New("AMQP_URL is required"))
	}

	ctx := context.Background()

	var mirror sheets.Mirror
	if cfg.GoogleSpreadsheetID != "" {
		if err := cfg.ValidateMirror(); err != nil {
			cli.Fatal(logger, "Mirror configuration validation failed", err)
		}
		client, err := gsheet.NewFromConfig(ctx, gsheet.Config{
			SpreadsheetID:      cfg.GoogleSpreadsheetID,
			SheetName:          cfg.GoogleSheetName,
			ServiceAccountFile: cfg.GoogleServiceAccountFile,
			ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		})
		if err != nil {
			cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
		}
		mirror = client
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		mirror = memmirror.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, mirroring into memory only")
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	be, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, "backend", cfg.DataBackend)
	}
	defer be.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer amqpClient.Close()

	w := worker.NewMirrorWorker(be.Store, mirror)

	runCtx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	// A failed startup sync is retried by the periodic resync below.
	if err := w.StartupSync(runCtx); err != nil {
		logger.Error("Startup sync failed", "error", err)
	}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return worker.Run(gctx, amqpClient, w, worker.RunOptions{})
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.MirrorResyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := w.StartupSync(gctx); err != nil && gctx.Err() == nil {
					logger.Error("Periodic resync failed", "error", err)
				}
			}
		}
	})

	logger.Info("Worker started, waiting for change events", "queue", cfg.AMQPQueue)
	if err := g.Wait(); err != nil {
		cli.Fatal(logger, "Worker stopped", err)
	}

	cli.WaitForShutdown(runCtx, done)
	logger.Info("Worker stopped gracefully", "last_revision", w.LastRevision())
}
