// Package delivery hands completed bundle output off to Google Cloud
// Storage for pickup by the review platform.
package delivery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
)

// Uploader pushes a bundle's output files to a GCS bucket.
type Uploader struct {
	client *storage.Client
	bucket string
}

func NewUploader(ctx context.Context, bucket string) (*Uploader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

func (u *Uploader) Close() error { return u.client.Close() }

// UploadBundle pushes the bundle's images, originals and load files to the
// bucket under their output-root-relative object names.
func (u *Uploader) UploadBundle(ctx context.Context, outputRoot, label string, log *slog.Logger) error {
	paths, err := bundlePaths(outputRoot, label)
	if err != nil {
		return err
	}
	log.Info("Uploading bundle output.", "bundle", label, "files", len(paths))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for _, path := range paths {
		rel, err := filepath.Rel(outputRoot, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		object := filepath.ToSlash(rel)
		eg.Go(func() error {
			if err := u.uploadFile(gctx, path, object); err != nil {
				return fmt.Errorf("object %s: %w", object, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("bundle %s upload failed: %w", label, err)
	}
	log.Info("Bundle upload complete.", "bundle", label)
	return nil
}

// bundlePaths lists every on-disk artifact belonging to one completed
// bundle, following the fixed output layout.
func bundlePaths(outputRoot, label string) ([]string, error) {
	var paths []string
	for _, dir := range []string{
		filepath.Join(outputRoot, "IMAGES", label),
		filepath.Join(outputRoot, "ORIGINALS", label),
	} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() {
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
		}
	}
	for _, ext := range []string{".opt", ".dat"} {
		paths = append(paths, filepath.Join(outputRoot, "LOADFILES", label+ext))
	}
	return paths, nil
}

func (u *Uploader) uploadFile(ctx context.Context, localPath, object string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("could not open local file %s: %w", localPath, err)
	}
	defer f.Close()

	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("io.Copy to GCS failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer (finalize upload): %w", err)
	}
	return nil
}
