// Package config loads watchrec settings from defaults, an optional YAML
// file and WATCHREC_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/lehigh-university-libraries/watchrec/internal/catalog"
	"github.com/lehigh-university-libraries/watchrec/internal/match"
	"github.com/lehigh-university-libraries/watchrec/internal/recommend"
	"github.com/lehigh-university-libraries/watchrec/internal/validation"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "WATCHREC_"

	// ConfigPathEnvVar overrides the config file location
	ConfigPathEnvVar = "WATCHREC_CONFIG"
)

// DefaultConfigPaths are searched in order when WATCHREC_CONFIG is unset
var DefaultConfigPaths = []string{
	"watchrec.yaml",
	"watchrec.yml",
}

// Config is the merged runtime configuration
type Config struct {
	History HistoryConfig `koanf:"history"`
	Catalog CatalogConfig `koanf:"catalog"`
	Match   MatchConfig   `koanf:"match"`
	Report  ReportConfig  `koanf:"report"`
	Log     LogConfig     `koanf:"log"`
}

type HistoryConfig struct {
	Path string `koanf:"path"`
}

type CatalogConfig struct {
	Source        string `koanf:"source" validate:"required"`
	CacheDir      string `koanf:"cache_dir" validate:"required"`
	ForceDownload bool   `koanf:"force_download"`
	ClearCache    bool   `koanf:"clear_cache"`
}

type MatchConfig struct {
	Algorithm string  `koanf:"algorithm" validate:"oneof=ratio levenshtein"`
	Limit     int     `koanf:"limit" validate:"gt=0"`
	Cutoff    float64 `koanf:"cutoff" validate:"gte=0,lte=1"`
}

type ReportConfig struct {
	Format    string `koanf:"format" validate:"oneof=text json yaml csv"`
	Output    string `koanf:"output"`
	TopGenres int    `koanf:"top_genres" validate:"gt=0"`
	PerGenre  int    `koanf:"per_genre" validate:"gt=0"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source:   "netflix_titles.csv",
			CacheDir: catalog.DefaultCacheDir,
		},
		Match: MatchConfig{
			Algorithm: "ratio",
			Limit:     match.DefaultLimit,
			Cutoff:    match.DefaultCutoff,
		},
		Report: ReportConfig{
			Format:    "text",
			TopGenres: recommend.DefaultTopGenres,
			PerGenre:  recommend.DefaultPerGenre,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load layers defaults, the config file (if any) and the environment. An
// explicit path wins over WATCHREC_CONFIG and the default locations. The
// result is not validated yet; callers apply flag overrides first and then
// call Validate.
func Load(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := findConfigFile(explicitPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// WATCHREC_MATCH_CUTOFF -> match.cutoff
	// WATCHREC_REPORT_TOP_GENRES -> report.top_genres
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every field rule
func (c *Config) Validate() error {
	if err := validation.New().Validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// findConfigFile returns the first config file found, or "" when none exists.
// A requested file (flag or WATCHREC_CONFIG) that does not exist is an error.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath == "" {
		explicitPath = os.Getenv(ConfigPathEnvVar)
	}
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicitPath, err)
		}
		return explicitPath, nil
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", nil
}

// sections are the top-level keys; the first underscore after the prefix
// separates the section from the field name
var sections = map[string]bool{
	"history": true,
	"catalog": true,
	"match":   true,
	"report":  true,
	"log":     true,
}

func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	section, field, ok := strings.Cut(key, "_")
	if !ok || !sections[section] {
		// not ours (e.g. WATCHREC_CONFIG); koanf drops empty keys
		return ""
	}
	return section + "." + field
}
