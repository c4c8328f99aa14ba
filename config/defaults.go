package config

import "github.com/Klingon-tech/strata-agent/pkg/types"

// Default node endpoints per network.
const (
	MainnetNodeURL = "https://node.strata.network"
	TestnetNodeURL = "https://testnet.strata.network"
	DevnetNodeURL  = "http://localhost:3999"
)

// DefaultMainnet returns the default agent configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: types.Mainnet,
		DataDir: DefaultDataDir(),
		Node: NodeConfig{
			URL:            MainnetNodeURL,
			TimeoutSeconds: 0, // long read-only calls are legitimate
		},
		RPC: RPCConfig{
			Enabled:    true,
			Addr:       "127.0.0.1",
			Port:       8740,
			AllowedIPs: []string{"127.0.0.1"},
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default agent configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = types.Testnet
	cfg.Node.URL = TestnetNodeURL
	cfg.RPC.Port = 8741
	return cfg
}

// DefaultDevnet returns the default agent configuration for a local devnet.
func DefaultDevnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = types.Devnet
	cfg.Node.URL = DevnetNodeURL
	cfg.RPC.Port = 8742
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network types.Network) *Config {
	switch network {
	case types.Testnet:
		return DefaultTestnet()
	case types.Devnet:
		return DefaultDevnet()
	default:
		return DefaultMainnet()
	}
}
