package loadfile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// OPTRecord is one line of an Opticon image cross-reference file: one
// rendered page. ImagePath is stored in its final serialized form (Windows
// separators, relative to the output root).
type OPTRecord struct {
	BatesNumber   string
	VolumeLabel   string
	ImagePath     string
	DocumentBreak bool
	// PageCount is only meaningful on document-break records; zero leaves
	// the field empty.
	PageCount int
}

// OPTFile accumulates the image records of one bundle. Records must be
// added in rendering order; Export writes the file exactly once.
type OPTFile struct {
	path     string
	records  []OPTRecord
	exported bool
}

func NewOPTFile(path string) *OPTFile { return &OPTFile{path: path} }

// Add appends a record. Addition order is the serialization order.
func (f *OPTFile) Add(r OPTRecord) { f.records = append(f.records, r) }

// Export serializes all records to the configured path. The file is
// write-once; a second call is an error.
func (f *OPTFile) Export() error {
	if f.exported {
		return fmt.Errorf("OPT file %s already exported", f.path)
	}
	if err := os.WriteFile(f.path, EncodeOPT(f.records), 0o644); err != nil {
		return fmt.Errorf("failed to write OPT file %s: %w", f.path, err)
	}
	f.exported = true
	slog.Info("Wrote OPT load file.", "path", f.path)
	return nil
}

// EncodeOPT renders records as comma-delimited OPT lines. Every line but
// the last is newline-terminated; the document-break column holds "Y" or
// stays empty.
func EncodeOPT(records []OPTRecord) []byte {
	var b strings.Builder
	for i, r := range records {
		docBreak := ""
		pages := ""
		if r.DocumentBreak {
			docBreak = "Y"
			if r.PageCount > 0 {
				pages = strconv.Itoa(r.PageCount)
			}
		}
		b.WriteString(r.BatesNumber + "," + r.VolumeLabel + "," + r.ImagePath + "," + docBreak + "," + pages)
		if i < len(records)-1 {
			b.WriteString("\n")
		}
	}
	return []byte(b.String())
}

// ParseOPT reads a generated OPT byte stream back into records. Encoding
// the result again reproduces the input exactly.
func ParseOPT(data []byte) ([]OPTRecord, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []OPTRecord
	for i, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			return nil, fmt.Errorf("line %d: expected 5 fields, got %d", i+1, len(fields))
		}
		r := OPTRecord{
			BatesNumber:   fields[0],
			VolumeLabel:   fields[1],
			ImagePath:     fields[2],
			DocumentBreak: fields[3] == "Y",
		}
		if fields[4] != "" {
			pages, err := strconv.Atoi(fields[4])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad page count %q: %w", i+1, fields[4], err)
			}
			r.PageCount = pages
		}
		records = append(records, r)
	}
	return records, nil
}
