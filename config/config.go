// Package config loads the process-wide configuration from environment
// variables (§6), with cobra/pflag-friendly defaults for the CLI to
// override.
package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/localrag/go-localrag/schema"
)

const (
	DefaultDBPath       = "./lancedb/"
	DefaultModelName    = "Xenova/all-MiniLM-L6-v2"
	DefaultCacheDir     = "./models/"
	DefaultMaxFileSize  = 104857600
	DefaultHybridWeight = 0.6
)

// Config is the resolved, validated process configuration.
type Config struct {
	DBPath       string
	ModelName    string
	CacheDir     string
	BaseDir      string
	MaxFileSize  int64
	MaxDistance  *float64
	Grouping     schema.Grouping
	MaxFiles     int
	HybridWeight float64
	Development  bool
}

// Load reads environment variables per §6. Invalid RAG_* values log a
// warning and fall back to defaults rather than failing startup.
func Load() Config {
	cfg := Config{
		DBPath:       DefaultDBPath,
		ModelName:    DefaultModelName,
		CacheDir:     DefaultCacheDir,
		MaxFileSize:  DefaultMaxFileSize,
		HybridWeight: DefaultHybridWeight,
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MODEL_NAME"); v != "" {
		cfg.ModelName = v
	}
	if v := os.Getenv("CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	cfg.BaseDir = os.Getenv("BASE_DIR")
	if cfg.BaseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.BaseDir = wd
		}
	}

	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxFileSize = n
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid MAX_FILE_SIZE")
		}
	}

	if v := os.Getenv("RAG_MAX_DISTANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.MaxDistance = &f
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid RAG_MAX_DISTANCE")
		}
	}

	if v := os.Getenv("RAG_GROUPING"); v != "" {
		switch schema.Grouping(v) {
		case schema.GroupingSimilar, schema.GroupingRelated:
			cfg.Grouping = schema.Grouping(v)
		default:
			log.Warn().Str("value", v).Msg("ignoring invalid RAG_GROUPING")
		}
	}

	if v := os.Getenv("RAG_MAX_FILES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxFiles = n
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid RAG_MAX_FILES")
		}
	}

	cfg.HybridWeight = DefaultHybridWeight
	if v := os.Getenv("RAG_HYBRID_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			cfg.HybridWeight = f
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid RAG_HYBRID_WEIGHT")
		}
	}

	cfg.Development = os.Getenv("NODE_ENV") == "development"

	return cfg
}
