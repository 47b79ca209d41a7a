// Package render turns source documents into raster pages and writes the
// stamped output images.
package render

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/tiff"
)

// Renderer rasterizes PDF pages and opens single-image documents.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// RenderPages validates and optimizes the PDF, then rasterizes its pages in
// page order, invoking fn for each one up to maxPages. It returns the
// number of pages actually rendered.
func (r *Renderer) RenderPages(path string, maxPages int, fn func(pageIndex int, img image.Image) error) (int, error) {
	tempDir, err := os.MkdirTemp("", "bundler-render-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	optimized := filepath.Join(tempDir, "optimized.pdf")
	if err := optimizePDF(path, optimized); err != nil {
		return 0, fmt.Errorf("failed to validate/optimize %s: %w", path, err)
	}
	pageCount, err := api.PageCountFile(optimized)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}

	doc, err := fitz.New(optimized)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s for rasterization: %w", path, err)
	}
	defer doc.Close()

	pages := pageCount
	if pages > maxPages {
		pages = maxPages
	}
	for i := 0; i < pages; i++ {
		img, err := doc.Image(i)
		if err != nil {
			return i, fmt.Errorf("failed to rasterize page %d of %s: %w", i+1, path, err)
		}
		if err := fn(i, img); err != nil {
			return i, err
		}
	}
	return pages, nil
}

// OpenImage decodes a single-page JPG document.
func (r *Renderer) OpenImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// WriteTIFF encodes img to path as a deflate-compressed TIFF.
func WriteTIFF(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}

func optimizePDF(inPath, outPath string) error {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return api.OptimizeFile(inPath, outPath, cfg)
}
