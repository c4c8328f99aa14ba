package types

import "fmt"

// Network identifies which Strata environment addresses and transactions
// belong to. Address encoding and transaction signing bytes both commit to
// the network, so values for one environment are rejected on another.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Devnet  Network = "devnet"
)

// Address version bytes per network. Devnet shares the testnet version so
// local addresses look like testnet addresses (ST... prefix).
const (
	versionMainnet = 22 // c32 'P' -> addresses start "SP"
	versionTestnet = 26 // c32 'T' -> addresses start "ST"
)

// Valid returns true for a known network name.
func (n Network) Valid() bool {
	switch n {
	case Mainnet, Testnet, Devnet:
		return true
	}
	return false
}

// Version returns the address version byte for this network.
func (n Network) Version() byte {
	if n == Mainnet {
		return versionMainnet
	}
	return versionTestnet
}

// ParseNetwork converts a string into a Network.
func ParseNetwork(s string) (Network, error) {
	n := Network(s)
	if !n.Valid() {
		return "", fmt.Errorf("unknown network %q", s)
	}
	return n, nil
}
