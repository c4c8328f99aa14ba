package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// Node
	NodeURL     string
	NodeAPIKey  string
	NodeTimeout int

	// Identity
	Keystore string

	// RPC
	RPC        bool
	RPCAddr    string
	RPCPort    int
	RPCAllowed string
	RPCCORS    string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetRPC     bool
	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("strata-agentd", flag.ContinueOnError)

	fs.BoolVar(&f.Help, "help", false, "Show usage")
	fs.BoolVar(&f.Version, "version", false, "Show version")

	fs.StringVar(&f.Network, "network", "", "Network: mainnet, testnet, or devnet")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory")
	fs.StringVar(&f.Config, "config", "", "Config file path")

	fs.StringVar(&f.NodeURL, "node", "", "Upstream node URL")
	fs.StringVar(&f.NodeAPIKey, "apikey", "", "Upstream node API key")
	fs.IntVar(&f.NodeTimeout, "node-timeout", 0, "Per-request node timeout in seconds")

	fs.StringVar(&f.Keystore, "keystore", "", "Encrypted identity name to load")

	fs.BoolVar(&f.RPC, "rpc", true, "Enable the tool server")
	fs.StringVar(&f.RPCAddr, "rpc-addr", "", "Tool server bind address")
	fs.IntVar(&f.RPCPort, "rpc-port", 0, "Tool server port")
	fs.StringVar(&f.RPCAllowed, "rpc-allowed", "", "Allowed client IPs/CIDRs (comma-separated)")
	fs.StringVar(&f.RPCCORS, "rpc-cors", "", "Allowed CORS origins (comma-separated)")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "JSON log output")

	fs.Usage = printUsage
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	f.SetRPC = isFlagSet(fs, "rpc")
	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()

	return f
}

// ApplyFlags applies flag overrides onto a Config (highest precedence).
func ApplyFlags(cfg *Config, f *Flags) {
	if f.Network != "" {
		cfg.Network = types.Network(f.Network)
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	if f.NodeURL != "" {
		cfg.Node.URL = f.NodeURL
	}
	if f.NodeAPIKey != "" {
		cfg.Node.APIKey = f.NodeAPIKey
	}
	if f.NodeTimeout != 0 {
		cfg.Node.TimeoutSeconds = f.NodeTimeout
	}

	if f.Keystore != "" {
		cfg.Identity.Keystore = f.Keystore
	}

	if f.SetRPC {
		cfg.RPC.Enabled = f.RPC
	}
	if f.RPCAddr != "" {
		cfg.RPC.Addr = f.RPCAddr
	}
	if f.RPCPort != 0 {
		cfg.RPC.Port = f.RPCPort
	}
	if f.RPCAllowed != "" {
		cfg.RPC.AllowedIPs = parseStringList(f.RPCAllowed)
	}
	if f.RPCCORS != "" {
		cfg.RPC.CORSOrigins = parseStringList(f.RPCCORS)
	}

	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `strata-agentd - Strata agent tool server

Usage:
  strata-agentd [flags]

Flags:
  -network <name>       Network: mainnet, testnet, or devnet
  -datadir <path>       Data directory (default ~/.strata-agent)
  -config <path>        Config file path
  -node <url>           Upstream node URL
  -apikey <key>         Upstream node API key
  -node-timeout <sec>   Per-request node timeout (0 = per-call deadlines)
  -keystore <name>      Encrypted identity to load (prompts for passphrase)
  -rpc=<bool>           Enable the tool server (default true)
  -rpc-addr <addr>      Tool server bind address
  -rpc-port <port>      Tool server port
  -rpc-allowed <list>   Allowed client IPs/CIDRs
  -rpc-cors <list>      Allowed CORS origins
  -log-level <level>    debug, info, warn, or error
  -log-file <path>      Also write JSON logs to this file
  -log-json             JSON log output on stdout
  -version              Print version and exit
  -help                 Show this help

Secrets are read from STRATA_SECRET, STRATA_MNEMONIC, STRATA_PASSPHRASE,
and STRATA_API_KEY when set, overriding the config file.
`)
}

// Load builds the effective configuration: defaults, then config file,
// then environment secrets, then flags.
func Load() (*Config, *Flags, error) {
	flags := ParseFlags()

	// Handle help/version
	if flags.Help {
		printUsage()
		os.Exit(0)
	}
	if flags.Version {
		fmt.Println("strata-agentd version 0.1.0")
		os.Exit(0)
	}

	// Determine network first (needed for defaults)
	network := types.Mainnet
	switch strings.ToLower(flags.Network) {
	case "testnet":
		network = types.Testnet
	case "devnet":
		network = types.Devnet
	}

	cfg := Default(network)

	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	// Auto-create data directories and default config on first start.
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	ApplyEnv(cfg)
	ApplyFlags(cfg, flags)

	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, flags, nil
}

// EnsureDataDirs creates the data directory structure and a default
// config file if they don't already exist. Idempotent.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.KeystoreDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
