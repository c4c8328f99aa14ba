package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// LoadFile loads agent configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = types.Network(value)
	case "datadir":
		cfg.DataDir = value

	// Node
	case "node.url":
		cfg.Node.URL = value
	case "node.apikey":
		cfg.Node.APIKey = value
	case "node.timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Node.TimeoutSeconds = n

	// Identity
	case "identity.secret":
		cfg.Identity.Secret = value
	case "identity.mnemonic":
		cfg.Identity.Mnemonic = value
	case "identity.passphrase":
		cfg.Identity.Passphrase = value
	case "identity.keystore":
		cfg.Identity.Keystore = value

	// RPC
	case "rpc.enabled", "rpc":
		cfg.RPC.Enabled = parseBool(value)
	case "rpc.addr":
		cfg.RPC.Addr = value
	case "rpc.port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.RPC.Port = port
	case "rpc.allowed":
		cfg.RPC.AllowedIPs = parseStringList(value)
	case "rpc.cors":
		cfg.RPC.CORSOrigins = parseStringList(value)

	// Fees
	case "fees.transfer":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Fees.TransferMicro = n
	case "fees.contract_call":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Fees.ContractCallMicro = n
	case "fees.delegate_rate":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Fees.DelegateRate = n

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// ApplyEnv overlays environment variables. Only secrets are read from
// the environment so they can stay out of the .conf file.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("STRATA_SECRET"); v != "" {
		cfg.Identity.Secret = v
	}
	if v := os.Getenv("STRATA_MNEMONIC"); v != "" {
		cfg.Identity.Mnemonic = v
	}
	if v := os.Getenv("STRATA_PASSPHRASE"); v != "" {
		cfg.Identity.Passphrase = v
	}
	if v := os.Getenv("STRATA_API_KEY"); v != "" {
		cfg.Node.APIKey = v
	}
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// parseStringList parses a comma-separated list.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// WriteDefaultConfig writes a default agent configuration file.
func WriteDefaultConfig(path string, network types.Network) error {
	cfg := Default(network)
	content := `# Strata Agent Configuration

# Network: mainnet, testnet, or devnet
network = ` + string(network) + `

# Data directory (default: ~/.strata-agent)
# datadir = ~/.strata-agent

# ============================================================================
# Upstream Node
# ============================================================================

node.url = ` + cfg.Node.URL + `
# node.apikey =
# Per-request timeout in seconds (0 = rely on per-call deadlines)
# node.timeout = 0

# ============================================================================
# Identity
# ============================================================================

# Exactly one source. Prefer STRATA_SECRET / STRATA_MNEMONIC environment
# variables over writing secrets here.
# identity.secret =
# identity.mnemonic =
# identity.passphrase =
# identity.keystore = agent

# ============================================================================
# Tool Server
# ============================================================================

rpc.enabled = true
rpc.addr = 127.0.0.1
rpc.port = ` + strconv.Itoa(cfg.RPC.Port) + `
rpc.allowed = 127.0.0.1
# CORS allowed origins ("*" for all)
# rpc.cors = http://localhost:3000

# ============================================================================
# Fees (microSTR; 0 = built-in default)
# ============================================================================

# fees.transfer = 300
# fees.contract_call = 3000
# fees.delegate_rate = 25

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
