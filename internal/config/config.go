package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration, loaded from config.yaml in the
// data directory. Missing fields fall back to defaults.
type Config struct {
	Search   SearchConfig   `yaml:"search"`
	Database DatabaseConfig `yaml:"database"`
	Export   ExportConfig   `yaml:"export"`
	Web      WebConfig      `yaml:"web"`
	Tools    ToolsConfig    `yaml:"tools"`
	Log      LogConfig      `yaml:"log"`
}

// SearchConfig tunes the two-stage search engine. The scoring constants are
// empirical; the defaults match the shipped ranking behavior.
type SearchConfig struct {
	// LexicalBase is the base score for an indexed (FTS) hit.
	LexicalBase float64 `yaml:"lexical_base"`

	// RepeatBoost is added per repeated occurrence of the full query in the
	// content, up to RepeatBoostMax.
	RepeatBoost    float64 `yaml:"repeat_boost"`
	RepeatBoostMax float64 `yaml:"repeat_boost_max"`

	// CoverageBoost scales with the fraction of query words present in the
	// content.
	CoverageBoost float64 `yaml:"coverage_boost"`

	// Fuzzy-fallback blend weights: whole-string sequence similarity,
	// whole-word hits, and substring-within-word hits.
	SequenceWeight  float64 `yaml:"sequence_weight"`
	WordWeight      float64 `yaml:"word_weight"`
	SubstringWeight float64 `yaml:"substring_weight"`

	// MinScore is the default cutoff for fuzzy-fallback candidates.
	MinScore float64 `yaml:"min_score"`

	// DefaultLimit caps result counts when the caller does not specify one.
	DefaultLimit int `yaml:"default_limit"`

	// ScanMultiplier bounds the fuzzy fallback scan at
	// ScanMultiplier x remaining results.
	ScanMultiplier int `yaml:"scan_multiplier"`
}

// DatabaseConfig tunes the SQLite connection pool. Zero values use the
// sql.DB defaults.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
}

// ExportConfig restricts where export files may be written.
type ExportConfig struct {
	// AllowedPaths is an allowlist of directories for export operations.
	// Paths outside ~/.keystash/exports require either being in this list
	// or AllowUnsafePaths=true. Relative paths are ignored.
	AllowedPaths []string `yaml:"allowed_paths"`

	// AllowUnsafePaths disables directory restrictions for export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `yaml:"allow_unsafe_paths"`
}

// WebConfig configures the browse UI.
type WebConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// ToolsConfig controls MCP tool registration.
type ToolsConfig struct {
	// Disabled lists MCP tool names to exclude from registration.
	// Unknown names are logged as warnings.
	Disabled []string `yaml:"disabled"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			LexicalBase:     0.8,
			RepeatBoost:     0.1,
			RepeatBoostMax:  0.2,
			CoverageBoost:   0.1,
			SequenceWeight:  0.3,
			WordWeight:      0.5,
			SubstringWeight: 0.2,
			MinScore:        0.3,
			DefaultLimit:    50,
			ScanMultiplier:  3,
		},
		Web: WebConfig{
			Bind: "127.0.0.1",
			Port: 7272,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from baseDir/config.yaml.
// Returns the default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.keystash.
func Load(baseDir string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(baseDir, "config.yaml"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), overlay), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns a zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for non-zero scalars; arrays are merged and
// deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Search = SearchConfig{
		LexicalBase:     pickFloat(base.Search.LexicalBase, overlay.Search.LexicalBase),
		RepeatBoost:     pickFloat(base.Search.RepeatBoost, overlay.Search.RepeatBoost),
		RepeatBoostMax:  pickFloat(base.Search.RepeatBoostMax, overlay.Search.RepeatBoostMax),
		CoverageBoost:   pickFloat(base.Search.CoverageBoost, overlay.Search.CoverageBoost),
		SequenceWeight:  pickFloat(base.Search.SequenceWeight, overlay.Search.SequenceWeight),
		WordWeight:      pickFloat(base.Search.WordWeight, overlay.Search.WordWeight),
		SubstringWeight: pickFloat(base.Search.SubstringWeight, overlay.Search.SubstringWeight),
		MinScore:        pickFloat(base.Search.MinScore, overlay.Search.MinScore),
		DefaultLimit:    pickInt(base.Search.DefaultLimit, overlay.Search.DefaultLimit),
		ScanMultiplier:  pickInt(base.Search.ScanMultiplier, overlay.Search.ScanMultiplier),
	}

	result.Database = DatabaseConfig{
		MaxOpenConns: pickInt(base.Database.MaxOpenConns, overlay.Database.MaxOpenConns),
		MaxIdleConns: pickInt(base.Database.MaxIdleConns, overlay.Database.MaxIdleConns),
	}

	result.Export = ExportConfig{
		AllowedPaths:     mergeStringSlice(base.Export.AllowedPaths, overlay.Export.AllowedPaths),
		AllowUnsafePaths: base.Export.AllowUnsafePaths || overlay.Export.AllowUnsafePaths,
	}

	result.Web = WebConfig{
		Bind: pickString(base.Web.Bind, overlay.Web.Bind),
		Port: pickInt(base.Web.Port, overlay.Web.Port),
	}

	result.Tools = ToolsConfig{
		Disabled: mergeStringSlice(base.Tools.Disabled, overlay.Tools.Disabled),
	}

	result.Log = LogConfig{
		Level: pickString(base.Log.Level, overlay.Log.Level),
	}

	return result
}

func pickFloat(base, overlay float64) float64 {
	if overlay != 0 {
		return overlay
	}
	return base
}

func pickInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

func pickString(base, overlay string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes
// duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
