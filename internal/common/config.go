package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/vigil/internal/scorer"
	"github.com/ternarybob/vigil/internal/storage/s3"
)

// Config is the application configuration, loaded from TOML with
// environment overrides applied afterwards.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Storage     StorageConfig `toml:"storage"`
	Jobs        JobsConfig    `toml:"jobs"`
	Refresh     RefreshConfig `toml:"refresh"`
	Screening   scorer.Config `toml:"screening"`
}

// JobsConfig mirrors the bulk pipeline tuning knobs. Kept separate from
// the jobs package so configuration loading stays import-cycle free.
type JobsConfig struct {
	ResultsBucket    string `toml:"results_bucket"`
	ChunkSize        int    `toml:"chunk_size"`
	ChunkConcurrency int    `toml:"chunk_concurrency"`
	MaxWorkers       int    `toml:"max_workers"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	S3     s3.Config    `toml:"s3"`
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig configures the embedded entity snapshot cache.
type BadgerConfig struct {
	Path           string `toml:"path"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

// RefreshConfig drives the scheduled watchlist reload.
type RefreshConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron format
	// RatePerSecond caps loader fetches during a refresh cycle.
	RatePerSecond float64 `toml:"rate_per_second"`
	// Lists are the watchlist sources to load each cycle.
	Lists []ListConfig `toml:"lists"`
}

// ListConfig describes one watchlist source: either a local NDJSON file
// (path) or an object-store location (bucket + key).
type ListConfig struct {
	Source string `toml:"source"`
	Path   string `toml:"path"`
	Bucket string `toml:"bucket"`
	Key    string `toml:"key"`
}

// DefaultConfig returns the compile-time defaults used when no config file
// is supplied.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8084,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{Path: "./data/vigil"},
		},
		Refresh: RefreshConfig{
			Enabled:       true,
			Schedule:      "0 */12 * * *",
			RatePerSecond: 2,
		},
		Screening: scorer.DefaultConfig(),
	}
}

// LoadConfig reads TOML files in order (later files override earlier ones)
// on top of the defaults, applies environment overrides, and validates.
func LoadConfig(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides maps VIGIL_* environment variables over the loaded
// configuration.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VIGIL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("VIGIL_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("VIGIL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("VIGIL_S3_ENDPOINT"); v != "" {
		c.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("VIGIL_S3_ACCESS_KEY"); v != "" {
		c.Storage.S3.AccessKey = v
	}
	if v := os.Getenv("VIGIL_S3_SECRET_KEY"); v != "" {
		c.Storage.S3.SecretKey = v
	}
	if v := os.Getenv("VIGIL_RESULTS_BUCKET"); v != "" {
		c.Jobs.ResultsBucket = v
	}
}

var validate = validator.New()

// Validate checks configuration ranges, including the screening weights
// and thresholds.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.Screening.Validate(); err != nil {
		return err
	}
	return nil
}
