package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultExchangeRate != 42.1 {
		t.Errorf("DefaultExchangeRate = %v, want 42.1", cfg.DefaultExchangeRate)
	}
	if cfg.FXTimeout != 10*time.Second {
		t.Errorf("FXTimeout = %v, want 10s", cfg.FXTimeout)
	}
	if cfg.ReportTitle != "All Items Report" {
		t.Errorf("ReportTitle = %q", cfg.ReportTitle)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PRICING_DEFAULT_EXCHANGE_RATE", "43.2")
	t.Setenv("PRICING_FX_TIMEOUT", "3s")
	t.Setenv("PRICING_REPORT_TITLE", "Colombo Items")
	t.Setenv("PRICING_IMPORT_CHUNK_SIZE", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultExchangeRate != 43.2 {
		t.Errorf("DefaultExchangeRate = %v, want 43.2", cfg.DefaultExchangeRate)
	}
	if cfg.FXTimeout != 3*time.Second {
		t.Errorf("FXTimeout = %v, want 3s", cfg.FXTimeout)
	}
	if cfg.ReportTitle != "Colombo Items" {
		t.Errorf("ReportTitle = %q, want 'Colombo Items'", cfg.ReportTitle)
	}
	if cfg.ImportChunkSize != 25 {
		t.Errorf("ImportChunkSize = %d, want 25", cfg.ImportChunkSize)
	}
	// untouched values keep their defaults
	if cfg.FXRequestsPerMinute != 6 {
		t.Errorf("FXRequestsPerMinute = %d, want 6", cfg.FXRequestsPerMinute)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero exchange rate", func(c *Config) { c.DefaultExchangeRate = 0 }, true},
		{"negative exchange rate", func(c *Config) { c.DefaultExchangeRate = -1 }, true},
		{"bad fx url", func(c *Config) { c.FXAPIURL = "not a url" }, true},
		{"empty title", func(c *Config) { c.ReportTitle = "" }, true},
		{"tiny import limit", func(c *Config) { c.ImportMaxBytes = 10 }, true},
		{"zero chunk size", func(c *Config) { c.ImportChunkSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
