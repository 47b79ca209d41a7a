// Command docx-converter prepares the input tree for bundling: every DOCX
// without a rendered sibling PDF is converted in place, up to a configured
// batch size. Conversion is delegated to LibreOffice.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"

	"github.com/legaldocflow/batesbundler/internal/config"
	"github.com/legaldocflow/batesbundler/internal/index"
	"github.com/legaldocflow/batesbundler/internal/models"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConverter()
	if err != nil {
		logger.Error("Invalid configuration.", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("Conversion run failed.", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	files, err := index.Index(cfg.InputDirectory, logger)
	if err != nil {
		return err
	}

	var candidates []*models.FileRecord
	for _, file := range files {
		if file.Extension != "DOCX" || slices.Contains(cfg.IgnoredFiles, file.Name) {
			continue
		}
		pdfVersion := strings.TrimSuffix(file.Path, filepath.Ext(file.Path)) + ".pdf"
		if _, err := os.Stat(pdfVersion); err == nil {
			continue
		}
		candidates = append(candidates, file)
	}

	batch := candidates
	if len(batch) > cfg.MaxDocToPDFBatchSize {
		batch = batch[:cfg.MaxDocToPDFBatchSize]
	}
	logger.Info("Converting DOCX files.", "candidates", len(candidates), "batch", len(batch))

	converted := 0
	for _, file := range batch {
		logger.Info("Converting file.", "file", file.Name)
		if err := convert(file.Path); err != nil {
			return fmt.Errorf("failed to convert %s: %w", file.Name, err)
		}
		converted++
	}

	logger.Info("Conversion batch finished.", "converted", converted, "remaining", len(candidates)-converted)
	return nil
}

// convert renders a DOCX to a PDF next to the source file.
func convert(path string) error {
	cmd := exec.Command("soffice", "--headless", "--convert-to", "pdf", "--outdir", filepath.Dir(path), path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("soffice: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
