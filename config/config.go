package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"stockanalyze/market"
)

// Config is the complete engine configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Fetch  FetchConfig  `yaml:"fetch"`
	SMTP   SMTPConfig   `yaml:"smtp"`
	Report ReportConfig `yaml:"report"`
}

// StoreConfig selects and parameterizes the series cache.
type StoreConfig struct {
	Backend  string `yaml:"backend"` // "csv" or "sqlite"
	CacheDir string `yaml:"cache_dir"`
	DBPath   string `yaml:"db_path,omitempty"`
	// StartDate is the first day of history kept per symbol, YYYY-MM-DD.
	StartDate string `yaml:"start_date"`
}

// FetchConfig parameterizes the market-data client and coordinator.
type FetchConfig struct {
	BaseURL string `yaml:"base_url,omitempty"` // override for proxies or tests
	Timeout string `yaml:"timeout"`            // e.g. "30s"
	Workers int    `yaml:"workers"`
}

// SMTPConfig carries report delivery credentials. The environment wins over
// the file for every field so secrets stay out of committed YAML.
type SMTPConfig struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Sender   string `yaml:"sender"`
	Password string `yaml:"-"`
}

// ReportConfig drives the daily report run.
type ReportConfig struct {
	GroupFile string `yaml:"group_file"`
	EmailFile string `yaml:"email_file"`
	OutDir    string `yaml:"out_dir"`
	// Schedule is a cron expression; empty disables scheduled runs.
	Schedule string `yaml:"schedule,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:   "csv",
			CacheDir:  "stock_cache",
			DBPath:    "stock_cache/bars.db",
			StartDate: "2024-01-01",
		},
		Fetch: FetchConfig{
			Timeout: "30s",
			Workers: 5,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Report: ReportConfig{
			GroupFile: "stock_list.txt",
			EmailFile: "email_list.txt",
			OutDir:    "reports",
		},
	}
}

// Load reads path (YAML) over the defaults, then applies environment
// overrides. An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv maps the environment variables onto the config. Names match the
// ones the report scripts have always used.
func (c *Config) applyEnv() {
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		c.SMTP.Server = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		c.SMTP.Sender = v
	}
	if v := os.Getenv("SENDER_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
	if v := os.Getenv("STOCK_CACHE_DIR"); v != "" {
		c.Store.CacheDir = v
	}
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Store.Backend != "csv" && c.Store.Backend != "sqlite" {
		return fmt.Errorf("store.backend must be 'csv' or 'sqlite', got %q", c.Store.Backend)
	}
	if c.Store.CacheDir == "" {
		return fmt.Errorf("store.cache_dir is required")
	}
	if c.Store.Backend == "sqlite" && c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path required for sqlite backend")
	}
	if _, err := time.Parse(market.DateLayout, c.Store.StartDate); err != nil {
		return fmt.Errorf("store.start_date: %w", err)
	}
	if _, err := c.FetchTimeout(); err != nil {
		return fmt.Errorf("fetch.timeout: %w", err)
	}
	if c.Fetch.Workers <= 0 {
		return fmt.Errorf("fetch.workers must be positive")
	}
	return nil
}

// StartDate parses the configured history start.
func (c *Config) StartDate() time.Time {
	t, _ := time.Parse(market.DateLayout, c.Store.StartDate)
	return t
}

// FetchTimeout parses the configured per-request timeout.
func (c *Config) FetchTimeout() (time.Duration, error) {
	if c.Fetch.Timeout == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(c.Fetch.Timeout)
}
