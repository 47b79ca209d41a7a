// Package index walks the input tree and produces the file metadata the
// bundling pipeline works from.
package index

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/legaldocflow/batesbundler/internal/config"
	"github.com/legaldocflow/batesbundler/internal/models"
)

// Index walks dir recursively and returns one FileRecord per regular file,
// regardless of extension. A PDF with a same-named sibling in a recognized
// original format is linked to that original and inherits its timestamps,
// on the assumption the PDF was exported from it.
func Index(dir string, log *slog.Logger) ([]*models.FileRecord, error) {
	var records []*models.FileRecord

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rec, err := extractFileRecord(path)
		if err != nil {
			return err
		}
		if rec.Extension == "PDF" {
			if original := findOriginal(rec); original != nil {
				rec.OriginalFile = original
				rec.CreatedAt = original.CreatedAt
				rec.ModifiedAt = original.ModifiedAt
				log.Info("Linked original file metadata.", "file", rec.Name, "original", original.Name)
			}
		}
		records = append(records, rec)
		log.Info("Indexed file.", "file", rec.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", dir, err)
	}
	return records, nil
}

// findOriginal probes the PDF's directory for a same-named source document,
// trying each recognized format in order.
func findOriginal(rec *models.FileRecord) *models.FileRecord {
	base := strings.TrimSuffix(rec.Path, filepath.Ext(rec.Path))
	for _, format := range config.OriginalFileFormats {
		originalPath := base + "." + strings.ToLower(format)
		if _, err := os.Stat(originalPath); err != nil {
			continue
		}
		original, err := extractFileRecord(originalPath)
		if err != nil {
			continue
		}
		return original
	}
	return nil
}

// extractFileRecord stats path and builds its metadata record. Go exposes
// no portable file birth time, so CreatedAt carries the modification time.
func extractFileRecord(path string) (*models.FileRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	name := filepath.Base(path)
	return &models.FileRecord{
		Name:           name,
		NameWithoutExt: strings.TrimSuffix(name, filepath.Ext(name)),
		Path:           path,
		Extension:      strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), ".")),
		CreatedAt:      info.ModTime(),
		ModifiedAt:     info.ModTime(),
	}, nil
}
