package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/profinance-crm/profinance/internal/cache"
	"github.com/profinance-crm/profinance/internal/model"
	"github.com/profinance-crm/profinance/internal/money"
	"github.com/profinance-crm/profinance/internal/sample"
	"github.com/profinance-crm/profinance/internal/sheet"
	"github.com/profinance-crm/profinance/internal/source"
)

// FileName is the config file looked up by default.
const FileName = "profinance.yaml"

// Config represents the top-level profinance.yaml configuration.
type Config struct {
	Sheets  SheetsConfig  `yaml:"sheets"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Cache   CacheConfig   `yaml:"cache"`
	Refresh RefreshConfig `yaml:"refresh"`
	Display DisplayConfig `yaml:"display"`
	Sample  SampleConfig  `yaml:"sample"`
	Log     LogConfig     `yaml:"log"`
}

// SheetsConfig binds each dataset kind to a spreadsheet id. An empty id
// means the kind always shows sample data.
type SheetsConfig struct {
	Expenses    string `yaml:"expenses"`
	Income      string `yaml:"income"`
	Debts       string `yaml:"debts"`
	Capital     string `yaml:"capital,omitempty"`
	Investments string `yaml:"investments,omitempty"`
}

// FetchConfig controls the remote source.
type FetchConfig struct {
	URLTemplates []string      `yaml:"url_templates"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	CSVMode      string        `yaml:"csv_mode"` // "rfc4180" or "naive"
}

// CacheConfig controls the on-disk aggregate cache.
type CacheConfig struct {
	Dir string        `yaml:"dir"`
	Key string        `yaml:"key"`
	TTL time.Duration `yaml:"ttl"`
}

// RefreshConfig controls the polling refresh.
type RefreshConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// DisplayConfig controls how amounts are rendered.
type DisplayConfig struct {
	Currency string `yaml:"currency"`
}

// SampleConfig seeds the fallback data generator.
type SampleConfig struct {
	Seed uint64 `yaml:"seed"`
}

// LogConfig controls logging and the sync audit log.
type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"` // "console" or "json"
	SyncLog string `yaml:"sync_log"`
}

// ID returns the spreadsheet id bound to kind.
func (s SheetsConfig) ID(kind model.Kind) string {
	switch kind {
	case model.KindExpenses:
		return s.Expenses
	case model.KindIncome:
		return s.Income
	case model.KindDebts:
		return s.Debts
	case model.KindCapital:
		return s.Capital
	case model.KindInvestments:
		return s.Investments
	default:
		return ""
	}
}

// Load reads a profinance.yaml file from disk. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, returning Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail later at run time.
func (c *Config) Validate() error {
	if _, err := sheet.ParseMode(c.Fetch.CSVMode); err != nil {
		return err
	}
	if len(c.Fetch.URLTemplates) == 0 {
		return errors.New("fetch.url_templates must list at least one endpoint")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be positive, got %d", c.Fetch.MaxBodyBytes)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive, got %s", c.Refresh.Interval)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// Default returns a Config bound to the ProFinance spreadsheets.
func Default() *Config {
	return &Config{
		Sheets: SheetsConfig{
			Expenses: "1-71MXkppgdH3q-F8t6TnKK4V18s_AHqlMIzxG3mfWLg",
			Debts:    "1X6QSvmqkIH87lRQqw96Bv0TPUkjHVpKGjp0z-qEPCL4",
			Income:   "1vsWkRV0ehb4_-hGEKzGT5inEnq_9N-vb3vf26KzmXbM",
		},
		Fetch: FetchConfig{
			URLTemplates: append([]string(nil), source.DefaultTemplates...),
			Timeout:      source.DefaultTimeout,
			MaxBodyBytes: source.DefaultMaxBodyBytes,
			CSVMode:      string(sheet.DefaultMode),
		},
		Cache: CacheConfig{
			Dir: defaultCacheDir(),
			Key: cache.DefaultKey,
			TTL: cache.DefaultTTL,
		},
		Refresh: RefreshConfig{
			Interval: 5 * time.Minute,
		},
		Display: DisplayConfig{
			Currency: money.DefaultCode,
		},
		Sample: SampleConfig{
			Seed: sample.DefaultSeed,
		},
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			SyncLog: filepath.Join("logs", "sync-log.csv"),
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "profinance")
	}
	return ".profinance-cache"
}
