package bundle

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/legaldocflow/batesbundler/internal/bates"
	"github.com/legaldocflow/batesbundler/internal/config"
	"github.com/legaldocflow/batesbundler/internal/loadfile"
	"github.com/legaldocflow/batesbundler/internal/models"
	"github.com/legaldocflow/batesbundler/internal/render"
)

// PageRenderer is the rasterization boundary consumed by the orchestrator.
// Implementations yield pages strictly in page order.
type PageRenderer interface {
	RenderPages(path string, maxPages int, fn func(pageIndex int, img image.Image) error) (int, error)
	OpenImage(path string) (image.Image, error)
}

// Stamper draws an identifier onto a rendered page.
type Stamper interface {
	Stamp(img image.Image, text string) image.Image
}

// Orchestrator drives the per-bundle pipeline: order files by modification
// time, render and stamp each page, archive originals, and export the two
// load files.
type Orchestrator struct {
	cfg      *config.Config
	seq      *bates.Sequencer
	renderer PageRenderer
	stamper  Stamper
	log      *slog.Logger
}

func NewOrchestrator(cfg *config.Config, seq *bates.Sequencer, renderer PageRenderer, stamper Stamper, log *slog.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, seq: seq, renderer: renderer, stamper: stamper, log: log}
}

// pageResult is one stamped page written to disk.
type pageResult struct {
	batesID   string
	imagePath string
}

// documentResult is the authoritative outcome of rendering one source
// document. Both load-file record streams are derived from it, so
// BEGBATES/ENDBATES and the page counts cannot drift apart.
type documentResult struct {
	file        *models.FileRecord
	pages       []pageResult
	originalDst string
}

// Run processes every bundle in insertion order and returns summaries for
// the bundles that completed. A bundle whose export fails is logged and
// excluded; its images stay on disk.
func (o *Orchestrator) Run(ctx context.Context, bundles *Bundles) ([]models.BundleSummary, error) {
	for _, dir := range []string{o.cfg.ImagesDirectory, o.cfg.LoadfilesDirectory, o.cfg.OriginalsDirectory} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	var completed []models.BundleSummary
	for _, label := range bundles.Labels() {
		summary, err := o.processBundle(ctx, label, bundles.Files(label))
		if err != nil {
			o.log.Error("Unable to generate load files for bundle.", "bundle", label, "error", err)
			continue
		}
		completed = append(completed, summary)
	}
	return completed, nil
}

func (o *Orchestrator) processBundle(ctx context.Context, label string, files []*models.FileRecord) (models.BundleSummary, error) {
	logCtx := o.log.With("bundle", label)
	logCtx.Info("Creating bundle.", "documents", len(files))

	imagesDir := filepath.Join(o.cfg.ImagesDirectory, label)
	originalsDir := filepath.Join(o.cfg.OriginalsDirectory, label)
	for _, dir := range []string{imagesDir, originalsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return models.BundleSummary{}, fmt.Errorf("failed to create bundle directory %s: %w", dir, err)
		}
	}

	// Stable sort keeps the indexed order for equal timestamps.
	sorted := make([]*models.FileRecord, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ModifiedAt.Before(sorted[j].ModifiedAt)
	})

	opt := loadfile.NewOPTFile(filepath.Join(o.cfg.LoadfilesDirectory, label+".opt"))
	dat := loadfile.NewDATFile(filepath.Join(o.cfg.LoadfilesDirectory, label+".dat"))

	summary := models.BundleSummary{Label: label}

	for _, file := range sorted {
		var (
			doc *documentResult
			err error
		)
		switch file.Extension {
		case "PDF":
			doc, err = o.processPDF(file, imagesDir, originalsDir)
		case "JPG":
			doc, err = o.processJPG(file, imagesDir, originalsDir)
		default:
			logCtx.Error("Unable to process file: type is not PDF or JPG.",
				"file", file.Name, "extension", file.Extension)
			continue
		}
		if err == nil {
			err = o.record(doc, label, opt, dat)
		}
		if err != nil {
			// Per-file boundary: identifiers consumed by this document stay
			// consumed, but none of its records reach the load files.
			logCtx.Error("Failed to process file; skipping.", "file", file.Name, "error", err)
			continue
		}

		logCtx.Info("Added file to bundle.", "file", file.Name)
		summary.Count++
		summary.Docs = append(summary.Docs, file.Name)
	}

	if err := o.export(ctx, opt, dat); err != nil {
		return models.BundleSummary{}, err
	}
	return summary, nil
}

func (o *Orchestrator) processPDF(file *models.FileRecord, imagesDir, originalsDir string) (*documentResult, error) {
	doc := &documentResult{file: file}

	_, err := o.renderer.RenderPages(file.Path, o.cfg.MaxPagesPerFile, func(pageIndex int, img image.Image) error {
		batesID := o.seq.Next()
		imagePath, err := o.writePage(img, batesID, imagesDir)
		if err != nil {
			return err
		}
		if pageIndex == 0 {
			dst, err := o.archiveOriginal(file, originalsDir, batesID)
			if err != nil {
				return err
			}
			doc.originalDst = dst
		}
		doc.pages = append(doc.pages, pageResult{batesID: batesID, imagePath: imagePath})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(doc.pages) == 0 {
		return nil, fmt.Errorf("no pages rendered for %s", file.Name)
	}
	return doc, nil
}

func (o *Orchestrator) processJPG(file *models.FileRecord, imagesDir, originalsDir string) (*documentResult, error) {
	img, err := o.renderer.OpenImage(file.Path)
	if err != nil {
		return nil, err
	}

	batesID := o.seq.Next()
	imagePath, err := o.writePage(img, batesID, imagesDir)
	if err != nil {
		return nil, err
	}
	dst, err := o.archiveOriginal(file, originalsDir, batesID)
	if err != nil {
		return nil, err
	}
	return &documentResult{
		file:        file,
		pages:       []pageResult{{batesID: batesID, imagePath: imagePath}},
		originalDst: dst,
	}, nil
}

// writePage stamps the page with its identifier and writes the TIFF.
func (o *Orchestrator) writePage(img image.Image, batesID, imagesDir string) (string, error) {
	imagePath := filepath.Join(imagesDir, batesID+".tiff")
	if err := render.WriteTIFF(imagePath, o.stamper.Stamp(img, batesID)); err != nil {
		return "", err
	}
	o.log.Info("Stamped page.", "bates", batesID)
	return imagePath, nil
}

// archiveOriginal copies the document's source file (the linked original
// when one exists, otherwise the document itself) into the bundle's
// originals directory as <BEGBATES>.<ext>.
func (o *Orchestrator) archiveOriginal(file *models.FileRecord, originalsDir, batesID string) (string, error) {
	source := file
	if file.OriginalFile != nil {
		source = file.OriginalFile
	}
	dst := filepath.Join(originalsDir, batesID+"."+strings.ToLower(source.Extension))
	if err := copyFile(source.Path, dst); err != nil {
		return "", fmt.Errorf("failed to archive original for %s: %w", file.Name, err)
	}
	return dst, nil
}

// record materializes the OPT and DAT rows for one rendered document. All
// rows are built before any is appended so a failure leaves both sinks
// untouched.
func (o *Orchestrator) record(doc *documentResult, label string, opt *loadfile.OPTFile, dat *loadfile.DATFile) error {
	optRecords := make([]loadfile.OPTRecord, 0, len(doc.pages))
	for i, page := range doc.pages {
		imagePath, err := loadfile.WindowsRelPath(page.imagePath, o.cfg.OutputDirectory)
		if err != nil {
			return err
		}
		r := loadfile.OPTRecord{
			BatesNumber:   page.batesID,
			VolumeLabel:   label,
			ImagePath:     imagePath,
			DocumentBreak: i == 0,
		}
		if i == 0 {
			r.PageCount = len(doc.pages)
		}
		optRecords = append(optRecords, r)
	}

	originalPath, err := loadfile.WindowsRelPath(doc.originalDst, o.cfg.OutputDirectory)
	if err != nil {
		return err
	}

	for _, r := range optRecords {
		opt.Add(r)
	}
	dat.Add(loadfile.DATRecord{
		BegBates:         doc.pages[0].batesID,
		EndBates:         doc.pages[len(doc.pages)-1].batesID,
		DocTitle:         doc.file.NameWithoutExt,
		ModDate:          doc.file.ModifiedAt.Format("20060102"),
		Pages:            len(doc.pages),
		FileExt:          doc.file.Extension,
		OriginalFilePath: originalPath,
	})
	return nil
}

// export writes both load files. They are independent sinks by this point,
// so the writes run concurrently; either failure fails the bundle.
func (o *Orchestrator) export(ctx context.Context, opt *loadfile.OPTFile, dat *loadfile.DATFile) error {
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(opt.Export)
	eg.Go(dat.Export)
	return eg.Wait()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
