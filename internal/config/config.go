// Package config loads drawsync settings from an optional YAML file and
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/roach88/drawsync/internal/delta"
	"github.com/roach88/drawsync/internal/source"
	"github.com/roach88/drawsync/internal/store/workbook"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverXLSX     = "xlsx"
)

// DataDirName is the folder created under the user's Documents directory.
const DataDirName = "七星彩数据"

// SQLiteFileName is the default database name inside the data directory.
const SQLiteFileName = "qxc_history.db"

// Environment variables read by Load.
const (
	EnvConfig      = "DRAWSYNC_CONFIG"
	EnvDriver      = "DRAWSYNC_STORE_DRIVER"
	EnvStorePath   = "DRAWSYNC_STORE_PATH"
	EnvDatabaseURL = "DRAWSYNC_DATABASE_URL"
	EnvLogLevel    = "DRAWSYNC_LOG_LEVEL"
	EnvPageCap     = "DRAWSYNC_PAGE_CAP"
)

// Config holds all drawsync settings.
type Config struct {
	Source SourceConfig `yaml:"source" json:"source"`
	Sync   SyncConfig   `yaml:"sync" json:"sync"`
	Store  StoreConfig  `yaml:"store" json:"store"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// SourceConfig configures the remote draw history endpoint.
type SourceConfig struct {
	Endpoint   string        `yaml:"endpoint" json:"endpoint"`
	GameNo     string        `yaml:"game_no" json:"game_no"`
	ProvinceID string        `yaml:"province_id" json:"province_id"`
	PageSize   int           `yaml:"page_size" json:"page_size"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// SyncConfig configures synchronization runs.
type SyncConfig struct {
	PageCap        int           `yaml:"page_cap" json:"page_cap"`
	PersistPartial bool          `yaml:"persist_partial" json:"persist_partial"`
	Interval       time.Duration `yaml:"interval" json:"interval"`
}

// StoreConfig selects and locates the durable store.
type StoreConfig struct {
	Driver string `yaml:"driver" json:"driver"`
	// Dir is the data directory; Path defaults to a file inside it.
	Dir         string `yaml:"dir" json:"dir"`
	Path        string `yaml:"path,omitempty" json:"path,omitempty"`
	DatabaseURL string `yaml:"database_url,omitempty" json:"database_url,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Endpoint:   source.DefaultEndpoint,
			GameNo:     source.DefaultGameNo,
			ProvinceID: source.DefaultProvinceID,
			PageSize:   source.DefaultPageSize,
			UserAgent:  source.DefaultUserAgent,
			Timeout:    source.DefaultTimeout,
		},
		Sync: SyncConfig{
			PageCap:        delta.DefaultPageCap,
			PersistPartial: true,
			Interval:       time.Hour,
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			Dir:    DefaultDataDir(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultDataDir returns <Documents>/七星彩数据.
func DefaultDataDir() string {
	docs := xdg.UserDirs.Documents
	if docs == "" {
		docs = filepath.Join(xdg.Home, "Documents")
	}
	return filepath.Join(docs, DataDirName)
}

// Load builds the configuration. path, or $DRAWSYNC_CONFIG when path is
// empty, names an optional YAML file layered over the defaults.
// Environment overrides are applied last, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Store.Driver = getEnv(EnvDriver, c.Store.Driver)
	c.Store.Path = getEnv(EnvStorePath, c.Store.Path)
	c.Store.DatabaseURL = getEnv(EnvDatabaseURL, c.Store.DatabaseURL)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)

	if v := os.Getenv(EnvPageCap); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageCap, err)
		}
		c.Sync.PageCap = n
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Source.Endpoint == "" {
		return fmt.Errorf("source.endpoint is required")
	}
	if c.Source.PageSize < 1 {
		return fmt.Errorf("source.page_size must be at least 1, got %d", c.Source.PageSize)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive, got %s", c.Source.Timeout)
	}
	if c.Sync.PageCap < 1 {
		return fmt.Errorf("sync.page_cap must be at least 1, got %d", c.Sync.PageCap)
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("sync.interval must not be negative, got %s", c.Sync.Interval)
	}

	switch c.Store.Driver {
	case DriverSQLite, DriverXLSX:
		if c.Store.Path == "" && c.Store.Dir == "" {
			return fmt.Errorf("store.dir or store.path is required for driver %q", c.Store.Driver)
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url is required for driver %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown store.driver %q (valid: %s, %s, %s)",
			c.Store.Driver, DriverSQLite, DriverPostgres, DriverXLSX)
	}
	return nil
}

// StorePath returns the file used by the sqlite and xlsx drivers.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Driver == DriverXLSX {
		return filepath.Join(c.Store.Dir, workbook.DefaultFileName)
	}
	return filepath.Join(c.Store.Dir, SQLiteFileName)
}

// SourceClientConfig converts the source section for source.New.
func (c *Config) SourceClientConfig() source.Config {
	return source.Config{
		Endpoint:   c.Source.Endpoint,
		GameNo:     c.Source.GameNo,
		ProvinceID: c.Source.ProvinceID,
		PageSize:   c.Source.PageSize,
		UserAgent:  c.Source.UserAgent,
		Timeout:    c.Source.Timeout,
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
