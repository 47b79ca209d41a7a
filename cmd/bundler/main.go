// Command bundler runs the full document delivery pipeline: index the input
// tree, assign files to bundles, render and stamp every page, and export
// the per-bundle load files. It takes no arguments; see internal/config for
// the environment surface.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/legaldocflow/batesbundler/internal/bates"
	"github.com/legaldocflow/batesbundler/internal/bundle"
	"github.com/legaldocflow/batesbundler/internal/config"
	"github.com/legaldocflow/batesbundler/internal/delivery"
	"github.com/legaldocflow/batesbundler/internal/index"
	"github.com/legaldocflow/batesbundler/internal/models"
	"github.com/legaldocflow/batesbundler/internal/render"
)

func main() {
	// Values from a .env file never override real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration.", "error", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("Failed to open log file.", "path", cfg.LogFile, "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stdout, logFile), nil)).
		With("runId", uuid.NewString())
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Run failed.", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	files, err := index.Index(cfg.InputDirectory, logger)
	if err != nil {
		return err
	}

	bundles := bundle.Assign(files, cfg.BundleRules, logger)

	stamper, err := render.NewStamper()
	if err != nil {
		return err
	}
	seq := bates.NewSequencer(cfg.BatesToken)
	orch := bundle.NewOrchestrator(cfg, seq, render.NewRenderer(), stamper, logger)

	completed, err := orch.Run(ctx, bundles)
	if err != nil {
		return err
	}

	if cfg.DeliveryBucket != "" {
		if err := deliver(ctx, cfg, completed, logger); err != nil {
			return err
		}
	}

	logger.Info("Finished running.", "completedBundles", len(completed))
	for _, b := range completed {
		logger.Info("Generated bundle.", "bundle", b.Label, "documents", b.Count)
		for _, doc := range b.Docs {
			logger.Info("Bundled document.", "bundle", b.Label, "document", doc)
		}
	}
	return nil
}

// deliver uploads each completed bundle; a failed upload is logged and does
// not block the remaining bundles.
func deliver(ctx context.Context, cfg *config.Config, completed []models.BundleSummary, logger *slog.Logger) error {
	uploader, err := delivery.NewUploader(ctx, cfg.DeliveryBucket)
	if err != nil {
		return err
	}
	defer uploader.Close()

	for _, b := range completed {
		if err := uploader.UploadBundle(ctx, cfg.OutputDirectory, b.Label, logger); err != nil {
			logger.Error("Bundle delivery failed.", "bundle", b.Label, "error", err)
		}
	}
	return nil
}
