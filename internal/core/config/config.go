package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/duckuio/ducku-cli/internal/core/errors"
)

// Config is the tool-level configuration loaded from ducku.toml.
// It is immutable after Load; per-project settings live in ProjectConfig.
type Config struct {
	Version       int           `toml:"version"`
	Scan          Scan          `toml:"scan"`
	Watch         Watch         `toml:"watch"`
	DB            Database      `toml:"db"`
	Observability Observability `toml:"observability"`
	Report        Report        `toml:"report"`
}

type Scan struct {
	ExcludeDirs  []string `toml:"exclude_dirs"`
	ExcludeFiles []string `toml:"exclude_files"`
	Include      []string `toml:"include"`
	// MaxFileSize in bytes; files above it are skipped with a warning.
	MaxFileSize  int64         `toml:"max_file_size"`
	ParseTimeout time.Duration `toml:"parse_timeout"`
	// Workers bounds the parallel extraction pool; 0 means GOMAXPROCS.
	Workers      int  `toml:"workers"`
	IncludeTests bool `toml:"include_tests"`
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce"`
	RescansPerMinute float64       `toml:"rescans_per_minute"`
}

type Database struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Report struct {
	TSV   string `toml:"tsv"`
	SARIF string `toml:"sarif"`
}

// DefaultExcludeDirs are directory names never worth scanning. The project
// config can extend but not shrink this list.
var DefaultExcludeDirs = []string{
	".git", ".hg", ".svn", "node_modules", "vendor", "bower_components",
	"__pycache__", ".venv", "venv", ".tox", "dist", "build", "target",
	".idea", ".vscode", "coverage", ".pytest_cache", ".mypy_cache",
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfig, fmt.Sprintf("parse %s", path))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Newf(errors.CodeConfig, "unknown option %q in %s", undecoded[0].String(), path)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no ducku.toml exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Scan.ExcludeDirs) == 0 {
		cfg.Scan.ExcludeDirs = append([]string(nil), DefaultExcludeDirs...)
	}
	if cfg.Scan.MaxFileSize <= 0 {
		cfg.Scan.MaxFileSize = 2 << 20 // 2 MiB
	}
	if cfg.Scan.ParseTimeout <= 0 {
		cfg.Scan.ParseTimeout = 10 * time.Second
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerMinute <= 0 {
		cfg.Watch.RescansPerMinute = 12
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "ducku-history.db"
	}
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return errors.Newf(errors.CodeConfig, "unsupported config version %d; supported version is 1", cfg.Version)
	}
	if cfg.Scan.Workers < 0 {
		return errors.New(errors.CodeConfig, "scan.workers must not be negative")
	}
	for _, pattern := range append(append([]string(nil), cfg.Scan.ExcludeDirs...), cfg.Scan.ExcludeFiles...) {
		if strings.TrimSpace(pattern) == "" {
			return errors.New(errors.CodeConfig, "scan exclude patterns must not be empty")
		}
	}
	if cfg.DB.Enabled && strings.TrimSpace(cfg.DB.Path) == "" {
		return errors.New(errors.CodeConfig, "db.path must not be empty when db.enabled=true")
	}
	return nil
}
