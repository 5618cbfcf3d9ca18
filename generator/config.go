package generator

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "time"

    "gopkg.in/yaml.v3"

    "github.com/alovak/cardforge/internal/cardgen"
)

// Config is a configuration for the generator application
type Config struct {
    HTTPAddr string `yaml:"http_addr"`
    // DefaultBIN is used when a generate request carries no prefix.
    DefaultBIN string `yaml:"default_bin"`
    // MaxQuantity caps the number of cards in one batch.
    MaxQuantity int `yaml:"max_quantity"`
    // ExpiryTZ is an IANA timezone name that decides the "current year" for
    // random expiry dates (e.g., "Australia/Sydney"). Empty means UTC.
    ExpiryTZ string `yaml:"expiry_tz"`
    MetricsEnabled bool `yaml:"metrics_enabled"`
}

func DefaultConfig() *Config {
    return &Config{
        HTTPAddr:       "localhost:9090",
        DefaultBIN:     "4",
        MaxQuantity:    1000,
        MetricsEnabled: true,
    }
}

// LoadConfig starts from DefaultConfig, overlays the YAML file at path (if
// path is not empty) and then the CARDFORGE_* environment variables.
func LoadConfig(path string) (*Config, error) {
    cfg := DefaultConfig()
    if path != "" {
        raw, err := os.ReadFile(path)
        if err != nil {
            return nil, fmt.Errorf("reading config: %w", err)
        }
        if err := yaml.Unmarshal(raw, cfg); err != nil {
            return nil, fmt.Errorf("parsing config %s: %w", path, err)
        }
    }
    if err := cfg.ApplyEnv(os.Getenv); err != nil {
        return nil, err
    }
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

// ApplyEnv overrides fields from the environment lookup.
func (c *Config) ApplyEnv(getenv func(string) string) error {
    if v := getenv("CARDFORGE_HTTP_ADDR"); v != "" {
        c.HTTPAddr = v
    }
    if v := getenv("CARDFORGE_DEFAULT_BIN"); v != "" {
        c.DefaultBIN = v
    }
    if v := getenv("CARDFORGE_MAX_QUANTITY"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil {
            return fmt.Errorf("CARDFORGE_MAX_QUANTITY: %w", err)
        }
        c.MaxQuantity = n
    }
    if v := getenv("CARDFORGE_EXPIRY_TZ"); v != "" {
        c.ExpiryTZ = v
    }
    if v := getenv("CARDFORGE_METRICS_ENABLED"); v != "" {
        b, err := strconv.ParseBool(v)
        if err != nil {
            return fmt.Errorf("CARDFORGE_METRICS_ENABLED: %w", err)
        }
        c.MetricsEnabled = b
    }
    return nil
}

func (c *Config) Validate() error {
    if c.MaxQuantity < 1 {
        return errors.New("max_quantity must be at least 1")
    }
    if c.DefaultBIN != "" && !cardgen.IsDigits(c.DefaultBIN) {
        return fmt.Errorf("default_bin must be digits: %q", c.DefaultBIN)
    }
    if _, err := c.Location(); err != nil {
        return err
    }
    return nil
}

// Location resolves ExpiryTZ, falling back to UTC when unset.
func (c *Config) Location() (*time.Location, error) {
    if c.ExpiryTZ == "" {
        return time.UTC, nil
    }
    loc, err := time.LoadLocation(c.ExpiryTZ)
    if err != nil {
        return nil, fmt.Errorf("expiry_tz: %w", err)
    }
    return loc, nil
}
