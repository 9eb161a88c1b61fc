package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Env != EnvMainnet {
		t.Fatalf("env = %s, want mainnet", cfg.Env)
	}
	if cfg.BaseURL != "https://api.binance.com" {
		t.Fatalf("base = %s", cfg.BaseURL)
	}
	if cfg.RecvWindowMS != 5000 {
		t.Fatalf("recvWindow = %d, want 5000", cfg.RecvWindowMS)
	}
	if !cfg.MaxNotional.IsZero() || !cfg.MaxQuantity.IsZero() || !cfg.MaxPriceDeviationPct.IsZero() {
		t.Fatalf("guardrails should default to disabled: %+v", cfg)
	}
	if cfg.Listen != ":8080" {
		t.Fatalf("listen = %s", cfg.Listen)
	}
}

func TestLoad_TestnetBase(t *testing.T) {
	t.Setenv("BINANCE_ENV", "TESTNET")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Env != EnvTestnet {
		t.Fatalf("env = %s", cfg.Env)
	}
	if cfg.BaseURL != "https://testnet.binance.vision" {
		t.Fatalf("base = %s", cfg.BaseURL)
	}
}

func TestLoad_ExplicitBaseOverride(t *testing.T) {
	t.Setenv("BINANCE_ENV", "testnet")
	t.Setenv("BINANCE_HTTP_BASE", "http://localhost:9000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:9000" {
		t.Fatalf("base = %s", cfg.BaseURL)
	}
}

func TestLoad_Guardrails(t *testing.T) {
	t.Setenv("MAX_NOTIONAL_PER_ORDER", "1500.50")
	t.Setenv("MAX_QTY_PER_ORDER", "2")
	t.Setenv("MAX_PRICE_DEVIATION_PCT", "0.5")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.MaxNotional.String() != "1500.5" {
		t.Fatalf("max notional = %s", cfg.MaxNotional)
	}
	if cfg.MaxQuantity.String() != "2" {
		t.Fatalf("max qty = %s", cfg.MaxQuantity)
	}
	if cfg.MaxPriceDeviationPct.String() != "0.5" {
		t.Fatalf("max deviation = %s", cfg.MaxPriceDeviationPct)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("BINANCE_ENV", "devnet")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid env")
	}
}

func TestLoad_InvalidDecimal(t *testing.T) {
	t.Setenv("MAX_NOTIONAL_PER_ORDER", "lots")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid decimal")
	}
}

func TestLoadFromFile_EnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	data := []byte("env: testnet\nagent_key: file-key\nrecv_window_ms: 9000\nmax_qty_per_order: \"7\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AGENT_KEY", "env-key")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Env != EnvTestnet {
		t.Fatalf("env = %s, want testnet from file", cfg.Env)
	}
	if cfg.AgentKey != "env-key" {
		t.Fatalf("agent key = %s, env must win", cfg.AgentKey)
	}
	if cfg.RecvWindowMS != 9000 {
		t.Fatalf("recvWindow = %d, want 9000 from file", cfg.RecvWindowMS)
	}
	if cfg.MaxQuantity.String() != "7" {
		t.Fatalf("max qty = %s, want 7 from file", cfg.MaxQuantity)
	}
}
