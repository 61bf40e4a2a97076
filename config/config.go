// Package config loads the pricing service settings from the environment.
//
// Variables use the PRICING_ prefix, e.g. PRICING_DEFAULT_EXCHANGE_RATE.
// A `.env` file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PRICING_"

type Config struct {
	// DefaultExchangeRate is used when no rate has been stored yet and as
	// the fallback answer when the live FX lookup fails.
	DefaultExchangeRate float64 `koanf:"default_exchange_rate"`

	FXAPIURL            string        `koanf:"fx_api_url"`
	FXTimeout           time.Duration `koanf:"fx_timeout"`
	FXCacheTTL          time.Duration `koanf:"fx_cache_ttl"`
	FXRequestsPerMinute int           `koanf:"fx_requests_per_minute"`

	ReportTitle     string `koanf:"report_title"`
	ImportMaxBytes  int64  `koanf:"import_max_bytes"`
	ImportChunkSize int    `koanf:"import_chunk_size"`
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		DefaultExchangeRate: 42.1,
		FXAPIURL:            "https://api.exchangerate.host/latest?base=CNY&symbols=LKR",
		FXTimeout:           10 * time.Second,
		FXCacheTTL:          time.Hour,
		FXRequestsPerMinute: 6,
		ReportTitle:         "All Items Report",
		ImportMaxBytes:      10 << 20,
		ImportChunkSize:     100,
	}
}

// Load reads PRICING_* variables over the defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultExchangeRate, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.FXAPIURL, validation.Required, is.URL),
		validation.Field(&c.FXTimeout, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.FXRequestsPerMinute, validation.Required, validation.Min(1)),
		validation.Field(&c.ReportTitle, validation.Required),
		validation.Field(&c.ImportMaxBytes, validation.Required, validation.Min(int64(1024))),
		validation.Field(&c.ImportChunkSize, validation.Required, validation.Min(1)),
	)
}
