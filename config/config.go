// Package config loads client settings from defaults, an optional YAML file
// and QUIP_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	quipbridge "github.com/opengovern/quip-bridge"
)

const envPrefix = "QUIP_"

type Config struct {
	Token   string      `koanf:"token"`
	BaseURL string      `koanf:"baseurl"`
	Retry   RetryConfig `koanf:"retry"`
	Rate    RateConfig  `koanf:"rate"`
	Log     LogConfig   `koanf:"log"`
}

type RetryConfig struct {
	BaseWait        time.Duration `koanf:"basewait"`
	RateLimit       int           `koanf:"ratelimit"`
	Unavailable     int           `koanf:"unavailable"`
	CounterCapacity int           `koanf:"countercapacity"`
}

// RateConfig controls client-side pacing and whether Quip's advertised
// quota is honoured before sending.
type RateConfig struct {
	RPS          float64 `koanf:"rps"`
	Burst        int     `koanf:"burst"`
	RespectQuota bool    `koanf:"respectquota"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// Load reads configuration. An empty path skips the YAML file; a non-empty
// path that cannot be read is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	// QUIP_RETRY_BASEWAIT -> quip.retry.basewait
	if err := k.Load(envprovider.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("quip", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"quip.baseurl":               "https://platform.quip.com:443/1",
		"quip.retry.basewait":        quipbridge.DefaultBaseWait.String(),
		"quip.retry.ratelimit":       quipbridge.DefaultMaxRetries,
		"quip.retry.unavailable":     quipbridge.DefaultMaxRetries,
		"quip.retry.countercapacity": quipbridge.DefaultCounterCapacity,
		"quip.rate.rps":              0,
		"quip.rate.burst":            1,
		"quip.rate.respectquota":     false,
		"quip.log.level":             "info",
		"quip.log.pretty":            false,
	}
	return k.Load(confmap.Provider(defaults, "."), nil)
}

// Validate reports every problem in cfg at once. The token is not required
// here so that commands which never call the API can still load config.
func Validate(cfg *Config) error {
	var errs []error
	if cfg.BaseURL == "" {
		errs = append(errs, errors.New("baseurl is required"))
	} else if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("baseurl %q must be an http(s) URL", cfg.BaseURL))
	}
	if cfg.Retry.BaseWait <= 0 {
		errs = append(errs, fmt.Errorf("retry.basewait must be positive, got %s", cfg.Retry.BaseWait))
	}
	if cfg.Retry.RateLimit < 1 {
		errs = append(errs, fmt.Errorf("retry.ratelimit must be at least 1, got %d", cfg.Retry.RateLimit))
	}
	if cfg.Retry.Unavailable < 1 {
		errs = append(errs, fmt.Errorf("retry.unavailable must be at least 1, got %d", cfg.Retry.Unavailable))
	}
	if cfg.Retry.CounterCapacity < 1 {
		errs = append(errs, fmt.Errorf("retry.countercapacity must be at least 1, got %d", cfg.Retry.CounterCapacity))
	}
	if cfg.Rate.RPS < 0 {
		errs = append(errs, fmt.Errorf("rate.rps must not be negative, got %g", cfg.Rate.RPS))
	}
	if cfg.Rate.Burst < 1 {
		errs = append(errs, fmt.Errorf("rate.burst must be at least 1, got %d", cfg.Rate.Burst))
	}
	return errors.Join(errs...)
}

// ProviderConfig converts the retry settings for the call engine.
func (c *Config) ProviderConfig() quipbridge.ProviderConfig {
	return quipbridge.ProviderConfig{
		UseProviderLimits:            c.Rate.RespectQuota,
		MaxServiceUnavailableRetries: c.Retry.Unavailable,
		MaxRateLimitRetries:          c.Retry.RateLimit,
		BaseWait:                     c.Retry.BaseWait,
		CounterCapacity:              c.Retry.CounterCapacity,
	}
}
