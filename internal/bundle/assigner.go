// Package bundle groups indexed files into named volumes and drives the
// per-bundle rendering and export pipeline.
package bundle

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/legaldocflow/batesbundler/internal/config"
	"github.com/legaldocflow/batesbundler/internal/models"
)

// Bundles holds the label-to-files assignment in first-touch insertion
// order. Cross-bundle Bates ordering follows this order, so it must stay
// deterministic.
type Bundles struct {
	order   []string
	byLabel map[string][]*models.FileRecord
}

// Labels returns bundle labels in insertion order.
func (b *Bundles) Labels() []string { return b.order }

// Files returns the files assigned to label in assignment order.
func (b *Bundles) Files(label string) []*models.FileRecord { return b.byLabel[label] }

func (b *Bundles) ensure(label string) {
	if _, ok := b.byLabel[label]; !ok {
		b.order = append(b.order, label)
		b.byLabel[label] = nil
	}
}

func (b *Bundles) add(label string, file *models.FileRecord) {
	b.ensure(label)
	b.byLabel[label] = append(b.byLabel[label], file)
}

// Assign maps indexed files onto named bundles. Exact-path rules apply
// first, in file order; then each wildcard rule ("<dir>/*") appends every
// file whose containing directory equals <dir>, in rule order. A file
// matched by both an exact and a wildcard rule appears twice in the bundle;
// that duplication is established behavior and is not collapsed here. Files
// matched by no rule are skipped with a warning.
func Assign(files []*models.FileRecord, rules []config.BundleRule, log *slog.Logger) *Bundles {
	bundles := &Bundles{byLabel: make(map[string][]*models.FileRecord)}

	exact := make(map[string]string)
	for _, rule := range rules {
		if !strings.HasSuffix(rule.Path, "*") {
			exact[rule.Path] = rule.Bundle
		}
	}

	for _, file := range files {
		label, ok := exact[file.Path]
		if !ok {
			log.Warn("No bundle mapping exists for file.", "path", file.Path)
			continue
		}
		bundles.add(label, file)
	}

	for _, rule := range rules {
		if !strings.HasSuffix(rule.Path, "*") {
			continue
		}
		lookupDir := strings.TrimSuffix(rule.Path, "*")
		bundles.ensure(rule.Bundle)

		matched := 0
		for _, file := range files {
			if filepath.Dir(file.Path)+"/" == lookupDir {
				bundles.add(rule.Bundle, file)
				matched++
			}
		}
		log.Info("Wildcard mapping added files to bundle.", "bundle", rule.Bundle, "count", matched)
	}

	return bundles
}
