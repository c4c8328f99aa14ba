package config

import (
	"fmt"
	"strings"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if !cfg.Network.Valid() {
		return fmt.Errorf("network must be mainnet, testnet, or devnet")
	}
	if cfg.Node.URL == "" {
		return fmt.Errorf("node.url is required")
	}
	if !strings.HasPrefix(cfg.Node.URL, "http://") && !strings.HasPrefix(cfg.Node.URL, "https://") {
		return fmt.Errorf("node.url must be an http(s) URL")
	}
	if cfg.Node.TimeoutSeconds < 0 {
		return fmt.Errorf("node.timeout must not be negative")
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}

	sources := 0
	if cfg.Identity.Secret != "" {
		sources++
	}
	if cfg.Identity.Mnemonic != "" {
		sources++
	}
	if cfg.Identity.Keystore != "" {
		sources++
	}
	if sources > 1 {
		return fmt.Errorf("identity: set at most one of secret, mnemonic, keystore")
	}
	if cfg.Identity.Passphrase != "" && cfg.Identity.Mnemonic == "" && cfg.Identity.Keystore == "" {
		return fmt.Errorf("identity.passphrase needs identity.mnemonic or identity.keystore")
	}

	return nil
}
