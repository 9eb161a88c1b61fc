// Package config loads the gateway configuration from the environment, with
// an optional YAML file as a lower-priority source. Environment variables
// always win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	EnvMainnet = "mainnet"
	EnvTestnet = "testnet"
)

// Config is the process-wide gateway configuration, fixed at startup and
// read-only afterwards.
type Config struct {
	Env          string // mainnet or testnet
	BaseURL      string // venue REST base, derived from Env unless overridden
	APIKey       string
	APISecret    string
	AgentKey     string // shared secret protecting /api/*
	RecvWindowMS int64

	// Guardrail thresholds; zero disables the corresponding check.
	MaxNotional          decimal.Decimal
	MaxQuantity          decimal.Decimal
	MaxPriceDeviationPct decimal.Decimal

	Listen   string
	LogLevel string
	LogFile  string
}

// fileConfig mirrors Config for the optional YAML file.
type fileConfig struct {
	Env                  string `yaml:"env"`
	BaseURL              string `yaml:"base_url"`
	APIKey               string `yaml:"api_key"`
	APISecret            string `yaml:"api_secret"`
	AgentKey             string `yaml:"agent_key"`
	RecvWindowMS         int64  `yaml:"recv_window_ms"`
	MaxNotional          string `yaml:"max_notional_per_order"`
	MaxQuantity          string `yaml:"max_qty_per_order"`
	MaxPriceDeviationPct string `yaml:"max_price_deviation_pct"`
	Listen               string `yaml:"listen"`
	LogLevel             string `yaml:"log_level"`
	LogFile              string `yaml:"log_file"`
}

// Load builds the configuration from the environment only.
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile builds the configuration from the environment on top of an
// optional YAML file.
func LoadFromFile(path string) (*Config, error) {
	var file fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Env:          strings.ToLower(getEnv("BINANCE_ENV", file.Env, EnvMainnet)),
		BaseURL:      getEnv("BINANCE_HTTP_BASE", file.BaseURL, ""),
		APIKey:       getEnv("BINANCE_API_KEY", file.APIKey, ""),
		APISecret:    getEnv("BINANCE_API_SECRET", file.APISecret, ""),
		AgentKey:     getEnv("AGENT_KEY", file.AgentKey, ""),
		RecvWindowMS: parseInt64Env("RECV_WINDOW_MS", file.RecvWindowMS, 5000),
		Listen:       getEnv("LISTEN", file.Listen, ":8080"),
		LogLevel:     getEnv("LOG_LEVEL", file.LogLevel, "info"),
		LogFile:      getEnv("LOG_FILE", file.LogFile, ""),
	}

	var err error
	if cfg.MaxNotional, err = parseDecimalEnv("MAX_NOTIONAL_PER_ORDER", file.MaxNotional); err != nil {
		return nil, err
	}
	if cfg.MaxQuantity, err = parseDecimalEnv("MAX_QTY_PER_ORDER", file.MaxQuantity); err != nil {
		return nil, err
	}
	if cfg.MaxPriceDeviationPct, err = parseDecimalEnv("MAX_PRICE_DEVIATION_PCT", file.MaxPriceDeviationPct); err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL(cfg.Env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the gateway cannot run with.
func (c *Config) Validate() error {
	if c.Env != EnvMainnet && c.Env != EnvTestnet {
		return fmt.Errorf("BINANCE_ENV must be %q or %q, got %q", EnvMainnet, EnvTestnet, c.Env)
	}
	if c.RecvWindowMS <= 0 {
		return fmt.Errorf("RECV_WINDOW_MS must be > 0, got %d", c.RecvWindowMS)
	}
	if c.MaxNotional.IsNegative() {
		return fmt.Errorf("MAX_NOTIONAL_PER_ORDER must be >= 0")
	}
	if c.MaxQuantity.IsNegative() {
		return fmt.Errorf("MAX_QTY_PER_ORDER must be >= 0")
	}
	if c.MaxPriceDeviationPct.IsNegative() {
		return fmt.Errorf("MAX_PRICE_DEVIATION_PCT must be >= 0")
	}
	return nil
}

func defaultBaseURL(env string) string {
	if env == EnvTestnet {
		return baseTestnet
	}
	return baseMainnet
}

// Default venue REST bases, selected by Env when no explicit override is set.
const (
	baseMainnet = "https://api.binance.com"
	baseTestnet = "https://testnet.binance.vision"
)

// getEnv returns the first non-empty of: environment value, file value,
// default.
func getEnv(key, fileValue, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

func parseInt64Env(key string, fileValue, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	if fileValue != 0 {
		return fileValue
	}
	return defaultValue
}

func parseDecimalEnv(key, fileValue string) (decimal.Decimal, error) {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fileValue
	}
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid decimal %q: %w", key, raw, err)
	}
	return d, nil
}
