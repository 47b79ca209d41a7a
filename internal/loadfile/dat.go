package loadfile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Concordance control characters.
const (
	datQuote      = "þ"    // þ, wraps every field value
	datDelimiter  = "\x14" // column separator
	datTerminator = "®"    // ®, ends every row
)

var datHeader = []string{"BEGBATES", "ENDBATES", "DOCTITLE", "MODDATE", "PAGES", "FILE_EXT", "ORIGINAL_FILE_PATH"}

// DATRecord is one Concordance row: one source document. BegBates and
// EndBates must match the first and last image record emitted for the same
// document. OriginalFilePath is stored in its final serialized form.
type DATRecord struct {
	BegBates         string
	EndBates         string
	DocTitle         string
	ModDate          string // YYYYMMDD
	Pages            int
	FileExt          string
	OriginalFilePath string
}

// DATFile accumulates the document records of one bundle. Records must be
// added in rendering order; Export writes the file exactly once.
type DATFile struct {
	path     string
	records  []DATRecord
	exported bool
}

func NewDATFile(path string) *DATFile { return &DATFile{path: path} }

// Add appends a record. Addition order is the serialization order.
func (f *DATFile) Add(r DATRecord) { f.records = append(f.records, r) }

// Export serializes the header and all records to the configured path. The
// file is write-once; a second call is an error.
func (f *DATFile) Export() error {
	if f.exported {
		return fmt.Errorf("DAT file %s already exported", f.path)
	}
	if err := os.WriteFile(f.path, EncodeDAT(f.records), 0o644); err != nil {
		return fmt.Errorf("failed to write DAT file %s: %w", f.path, err)
	}
	f.exported = true
	slog.Info("Wrote DAT load file.", "path", f.path)
	return nil
}

// EncodeDAT renders the header row and one row per record. Every row,
// header included, is terminated with ® and a newline.
func EncodeDAT(records []DATRecord) []byte {
	var b strings.Builder
	writeDATRow(&b, datHeader)
	for _, r := range records {
		writeDATRow(&b, []string{
			r.BegBates,
			r.EndBates,
			r.DocTitle,
			r.ModDate,
			strconv.Itoa(r.Pages),
			r.FileExt,
			r.OriginalFilePath,
		})
	}
	return []byte(b.String())
}

func writeDATRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteString(datDelimiter)
		}
		b.WriteString(datQuote + field + datQuote)
	}
	b.WriteString(datTerminator + "\n")
}
