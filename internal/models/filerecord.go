package models

import "time"

// FileRecord describes one regular file discovered during indexing.
// Records are created once by the indexer and never mutated afterwards.
type FileRecord struct {
	Name           string
	NameWithoutExt string
	Path           string
	Extension      string // uppercase, without the leading dot
	CreatedAt      time.Time
	ModifiedAt     time.Time

	// OriginalFile links a rendered PDF to its same-named source document
	// (DOCX, XLSX, ...) sitting next to it. Nil when no original exists.
	OriginalFile *FileRecord
}

// BundleSummary reports one successfully completed bundle for the final
// run summary.
type BundleSummary struct {
	Label string
	Count int
	Docs  []string
}
