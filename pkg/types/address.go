package types

import (
	"encoding/hex"
	"fmt"
)

// AddressSize is the length of an address in bytes.
const AddressSize = 20

// Address represents a 160-bit account address (public key hash).
//
// The string form is always paired with a network: the same 20 bytes encode
// to an "SP..." string on mainnet and an "ST..." string on testnet/devnet.
// There is deliberately no package-level default network.
type Address [AddressSize]byte

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Encode returns the c32check string form of the address for the given
// network (e.g. "SP2J6ZY4..." on mainnet).
func (a Address) Encode(net Network) string {
	s, err := C32CheckEncode(net.Version(), a[:])
	if err != nil {
		// Version bytes are fixed and < 32, so this cannot happen.
		return "S?" + hex.EncodeToString(a[:])
	}
	return s
}

// Hex returns the raw hex-encoded address without network information.
// Used for logging and diagnostics only.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// DecodeAddress parses a c32check address string and returns the address
// together with its version byte. The caller decides whether the version is
// acceptable (see ParseAddress).
func DecodeAddress(s string) (Address, byte, error) {
	if s == "" {
		return Address{}, 0, fmt.Errorf("empty address")
	}
	version, payload, err := C32CheckDecode(s)
	if err != nil {
		return Address{}, 0, fmt.Errorf("invalid address: %w", err)
	}
	if len(payload) != AddressSize {
		return Address{}, 0, fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(payload))
	}
	var a Address
	copy(a[:], payload)
	return a, version, nil
}

// ParseAddress parses a c32check address string and verifies it belongs to
// the given network. A mainnet string on testnet (or vice versa) is an error.
func ParseAddress(s string, net Network) (Address, error) {
	a, version, err := DecodeAddress(s)
	if err != nil {
		return Address{}, err
	}
	if version != net.Version() {
		return Address{}, fmt.Errorf("address %s is not a %s address", s, net)
	}
	return a, nil
}
