// Package config handles application configuration.
//
// Configuration comes from three layers, lowest to highest precedence:
// built-in defaults per network, the .conf file, then command-line
// flags. Secrets may additionally come from environment variables so
// they never have to live in a file.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// Config holds the agent's runtime configuration.
type Config struct {
	// Core
	Network types.Network `conf:"network"`
	DataDir string        `conf:"datadir"`

	// Upstream Strata node
	Node NodeConfig

	// Signing identity
	Identity IdentityConfig

	// Tool server
	RPC RPCConfig

	// Fee schedule overrides
	Fees FeeConfig

	// Logging
	Log LogConfig
}

// NodeConfig holds upstream node settings.
type NodeConfig struct {
	URL            string `conf:"node.url"`
	APIKey         string `conf:"node.apikey"`
	TimeoutSeconds int    `conf:"node.timeout"` // 0 = no per-request cap
}

// IdentityConfig holds signing identity settings. At most one of
// Secret, Mnemonic, or Keystore may be set.
type IdentityConfig struct {
	Secret     string `conf:"identity.secret"`     // hex private key
	Mnemonic   string `conf:"identity.mnemonic"`   // BIP-39 phrase
	Passphrase string `conf:"identity.passphrase"` // BIP-39 passphrase (with mnemonic)
	Keystore   string `conf:"identity.keystore"`   // name of an encrypted identity file
}

// RPCConfig holds tool server settings.
type RPCConfig struct {
	Enabled     bool     `conf:"rpc.enabled"`
	Addr        string   `conf:"rpc.addr"`
	Port        int      `conf:"rpc.port"`
	AllowedIPs  []string `conf:"rpc.allowed"`
	CORSOrigins []string `conf:"rpc.cors"` // Allowed CORS origins ("*" = all).
}

// FeeConfig holds fee schedule overrides. Zero means use the default.
type FeeConfig struct {
	TransferMicro     uint64 `conf:"fees.transfer"`
	ContractCallMicro uint64 `conf:"fees.contract_call"`
	DelegateRate      uint64 `conf:"fees.delegate_rate"` // microSTR per signing byte
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.strata-agent
//	macOS:   ~/Library/Application Support/StrataAgent
//	Windows: %APPDATA%\StrataAgent
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".strata-agent"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "StrataAgent")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "StrataAgent")
		}
		return filepath.Join(home, "AppData", "Roaming", "StrataAgent")
	default:
		return filepath.Join(home, ".strata-agent")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// KeystoreDir returns the encrypted identity directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "strata-agent.conf")
}
