package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Klingon-tech/strata-agent/pkg/types"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.conf")
	content := `# comment
network = testnet
node.url = "http://localhost:3999"
rpc.port = 9000
rpc.allowed = 127.0.0.1, 10.0.0.0/8

fees.delegate_rate = 40
log.json = yes
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	cfg := DefaultMainnet()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}

	if cfg.Network != types.Testnet {
		t.Errorf("network = %s, want testnet", cfg.Network)
	}
	if cfg.Node.URL != "http://localhost:3999" {
		t.Errorf("node url = %q, quotes should be stripped", cfg.Node.URL)
	}
	if cfg.RPC.Port != 9000 {
		t.Errorf("rpc port = %d, want 9000", cfg.RPC.Port)
	}
	if len(cfg.RPC.AllowedIPs) != 2 || cfg.RPC.AllowedIPs[1] != "10.0.0.0/8" {
		t.Errorf("allowed = %v, want two trimmed entries", cfg.RPC.AllowedIPs)
	}
	if cfg.Fees.DelegateRate != 40 {
		t.Errorf("delegate rate = %d, want 40", cfg.Fees.DelegateRate)
	}
	if !cfg.Log.JSON {
		t.Error("log.json = yes should parse as true")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("missing file should yield empty values, got %v", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.conf")
	if err := os.WriteFile(path, []byte("just some words\n"), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("line without = should be rejected")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("STRATA_SECRET", "deadbeef")
	t.Setenv("STRATA_API_KEY", "k")

	cfg := DefaultTestnet()
	cfg.Identity.Secret = "from-file"
	ApplyEnv(cfg)

	if cfg.Identity.Secret != "deadbeef" {
		t.Errorf("env secret should override file, got %q", cfg.Identity.Secret)
	}
	if cfg.Node.APIKey != "k" {
		t.Errorf("api key = %q, want k", cfg.Node.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad network", func(c *Config) { c.Network = "moonnet" }, false},
		{"no node url", func(c *Config) { c.Node.URL = "" }, false},
		{"bad node url", func(c *Config) { c.Node.URL = "ftp://x" }, false},
		{"negative timeout", func(c *Config) { c.Node.TimeoutSeconds = -1 }, false},
		{"bad rpc port", func(c *Config) { c.RPC.Port = 70000 }, false},
		{"one identity source", func(c *Config) { c.Identity.Secret = "aa" }, true},
		{"two identity sources", func(c *Config) {
			c.Identity.Secret = "aa"
			c.Identity.Mnemonic = "abandon"
		}, false},
		{"orphan passphrase", func(c *Config) { c.Identity.Passphrase = "x" }, false},
		{"keystore with passphrase", func(c *Config) {
			c.Identity.Keystore = "agent"
			c.Identity.Passphrase = "x"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTestnet()
			tt.modify(cfg)
			err := Validate(cfg)
			if tt.ok && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDefaultsPerNetwork(t *testing.T) {
	main := Default(types.Mainnet)
	test := Default(types.Testnet)
	dev := Default(types.Devnet)

	if main.Node.URL == test.Node.URL || test.Node.URL == dev.Node.URL {
		t.Error("each network should default to its own node URL")
	}
	if main.RPC.Port == test.RPC.Port {
		t.Error("networks should not collide on the tool server port")
	}
}
