package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OriginalFileFormats are the source-document extensions the indexer probes
// when backlinking a rendered PDF to its original.
var OriginalFileFormats = []string{"DOCX", "DOC", "XLS", "XLSX", "PPT", "PPTX"}

// BundleRule maps one input path, or a directory wildcard ("<dir>/*"), to a
// bundle label. Rules are ordered; rule order controls the order in which
// wildcard bundles are created.
type BundleRule struct {
	Path   string `json:"path"`
	Bundle string `json:"bundle"`
}

// Config is the centralized configuration for a bundling run, populated
// from environment variables and the bundle map file.
type Config struct {
	InputDirectory  string
	OutputDirectory string

	// Derived output layout under OutputDirectory.
	ImagesDirectory    string
	LoadfilesDirectory string
	OriginalsDirectory string

	BatesToken           string
	MaxPagesPerFile      int
	MaxDocToPDFBatchSize int
	IgnoredFiles         []string
	DeliveryBucket       string
	LogFile              string

	BundleRules []BundleRule
}

// Load reads the full bundler configuration. Real environment variables
// take precedence over any .env file the caller loaded beforehand.
func Load() (*Config, error) {
	cfg := &Config{
		InputDirectory:       getEnv("INPUT_DIRECTORY", ""),
		OutputDirectory:      getEnv("OUTPUT_DIRECTORY", ""),
		BatesToken:           getEnv("BATES_TOKEN", "GP"),
		MaxPagesPerFile:      getEnvInt("MAX_PAGES_PER_FILE", 50000),
		MaxDocToPDFBatchSize: getEnvInt("MAX_DOC_TO_PDF_BATCH_SIZE", 200),
		IgnoredFiles:         splitList(getEnv("IGNORED_FILES", "")),
		DeliveryBucket:       getEnv("DELIVERY_BUCKET", ""),
		LogFile:              getEnv("LOG_FILE", "run.log"),
	}
	if cfg.InputDirectory == "" {
		return nil, fmt.Errorf("INPUT_DIRECTORY environment variable must be set")
	}
	if cfg.OutputDirectory == "" {
		return nil, fmt.Errorf("OUTPUT_DIRECTORY environment variable must be set")
	}

	mapFile := getEnv("BUNDLE_MAP_FILE", "")
	if mapFile == "" {
		return nil, fmt.Errorf("BUNDLE_MAP_FILE environment variable must be set")
	}
	rules, err := LoadBundleRules(mapFile)
	if err != nil {
		return nil, err
	}
	cfg.BundleRules = rules

	cfg.ImagesDirectory = filepath.Join(cfg.OutputDirectory, "IMAGES")
	cfg.LoadfilesDirectory = filepath.Join(cfg.OutputDirectory, "LOADFILES")
	cfg.OriginalsDirectory = filepath.Join(cfg.OutputDirectory, "ORIGINALS")
	return cfg, nil
}

// LoadConverter reads the subset of configuration the DOCX converter uses.
func LoadConverter() (*Config, error) {
	cfg := &Config{
		InputDirectory:       getEnv("INPUT_DIRECTORY", ""),
		MaxDocToPDFBatchSize: getEnvInt("MAX_DOC_TO_PDF_BATCH_SIZE", 200),
		IgnoredFiles:         splitList(getEnv("IGNORED_FILES", "")),
	}
	if cfg.InputDirectory == "" {
		return nil, fmt.Errorf("INPUT_DIRECTORY environment variable must be set")
	}
	return cfg, nil
}

// LoadBundleRules parses the ordered path-to-bundle rule list from a JSON
// array file.
func LoadBundleRules(path string) ([]BundleRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle map file: %w", err)
	}
	var rules []BundleRule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse bundle map file %s: %w", path, err)
	}
	return rules, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
