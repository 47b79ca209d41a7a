package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBundleMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundles.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	mapFile := writeBundleMap(t, `[
		{"path": "/in/a.pdf", "bundle": "Bundle 1"},
		{"path": "/in/sub/*", "bundle": "Bundle 2"}
	]`)

	t.Setenv("INPUT_DIRECTORY", "/in")
	t.Setenv("OUTPUT_DIRECTORY", "/out")
	t.Setenv("BUNDLE_MAP_FILE", mapFile)
	t.Setenv("BATES_TOKEN", "ACME")
	t.Setenv("MAX_PAGES_PER_FILE", "10")
	t.Setenv("IGNORED_FILES", "skip.docx, other.docx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/in", cfg.InputDirectory)
	assert.Equal(t, "ACME", cfg.BatesToken)
	assert.Equal(t, 10, cfg.MaxPagesPerFile)
	assert.Equal(t, []string{"skip.docx", "other.docx"}, cfg.IgnoredFiles)
	assert.Equal(t, filepath.Join("/out", "IMAGES"), cfg.ImagesDirectory)
	assert.Equal(t, filepath.Join("/out", "LOADFILES"), cfg.LoadfilesDirectory)
	assert.Equal(t, filepath.Join("/out", "ORIGINALS"), cfg.OriginalsDirectory)

	require.Len(t, cfg.BundleRules, 2)
	assert.Equal(t, BundleRule{Path: "/in/a.pdf", Bundle: "Bundle 1"}, cfg.BundleRules[0])
	assert.Equal(t, BundleRule{Path: "/in/sub/*", Bundle: "Bundle 2"}, cfg.BundleRules[1])
}

func TestLoadDefaults(t *testing.T) {
	mapFile := writeBundleMap(t, `[]`)

	t.Setenv("INPUT_DIRECTORY", "/in")
	t.Setenv("OUTPUT_DIRECTORY", "/out")
	t.Setenv("BUNDLE_MAP_FILE", mapFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "GP", cfg.BatesToken)
	assert.Equal(t, 50000, cfg.MaxPagesPerFile)
	assert.Equal(t, 200, cfg.MaxDocToPDFBatchSize)
	assert.Equal(t, "run.log", cfg.LogFile)
	assert.Empty(t, cfg.IgnoredFiles)
	assert.Empty(t, cfg.DeliveryBucket)
}

func TestLoadRequiresDirectories(t *testing.T) {
	t.Setenv("INPUT_DIRECTORY", "")
	t.Setenv("OUTPUT_DIRECTORY", "/out")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadBundleMap(t *testing.T) {
	mapFile := writeBundleMap(t, `{"not": "an array"}`)

	t.Setenv("INPUT_DIRECTORY", "/in")
	t.Setenv("OUTPUT_DIRECTORY", "/out")
	t.Setenv("BUNDLE_MAP_FILE", mapFile)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadConverter(t *testing.T) {
	t.Setenv("INPUT_DIRECTORY", "/in")
	t.Setenv("MAX_DOC_TO_PDF_BATCH_SIZE", "5")
	t.Setenv("IGNORED_FILES", "a.docx")

	cfg, err := LoadConverter()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxDocToPDFBatchSize)
	assert.Equal(t, []string{"a.docx"}, cfg.IgnoredFiles)
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT_VAR", "123")
	assert.Equal(t, 123, getEnvInt("TEST_INT_VAR", 0))

	t.Setenv("TEST_INT_VAR", "invalid")
	assert.Equal(t, 10, getEnvInt("TEST_INT_VAR", 10))

	assert.Equal(t, 10, getEnvInt("TEST_INT_VAR_MISSING", 10))
}
