package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:    AppConfig{Environment: "test"},
		Server: ServerConfig{Addr: ":8000"},
		Queue: QueueConfig{
			ExecAPIKey:    "secret",
			MaxLotDefault: 5.0,
		},
		Database: DatabaseConfig{
			Path:         "data/queue.db",
			MaxOpenConns: 4,
			MaxIdleConns: 4,
		},
		Logging: LoggingConfig{
			Level:            "info",
			Encoding:         "json",
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	// 内存库不要求 path。
	cfg.Database.Path = ""
	cfg.Database.InMemory = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected in-memory config to pass, got %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"empty api key", func(c *Config) { c.Queue.ExecAPIKey = "" }, "exec_api_key"},
		{"zero default cap", func(c *Config) { c.Queue.MaxLotDefault = 0 }, "max_lot_default"},
		{"negative account cap", func(c *Config) { c.Queue.AccountCaps = map[string]float64{"a": -1} }, "account_caps[a]"},
		{"deviation enabled without threshold", func(c *Config) { c.Queue.EnforcePriceDeviation = true }, "max_deviation_pct"},
		{"negative reservation timeout", func(c *Config) { c.Queue.ReservationTimeout = -time.Second }, "reservation_timeout"},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"missing log level", func(c *Config) { c.Logging.Level = "" }, "logging.level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantMsg, err)
			}
		})
	}
}

func TestCapFor(t *testing.T) {
	cfg := QueueConfig{
		MaxLotDefault: 5.0,
		AccountCaps:   map[string]float64{"vip": 20.0},
	}

	if got := cfg.CapFor("vip"); got != 20.0 {
		t.Fatalf("expected per-account cap 20, got %v", got)
	}
	if got := cfg.CapFor("other"); got != 5.0 {
		t.Fatalf("expected default cap 5, got %v", got)
	}
}
