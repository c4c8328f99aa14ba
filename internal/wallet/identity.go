package wallet

import (
	"fmt"

	"github.com/Klingon-tech/strata-agent/pkg/crypto"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// IdentityError reports that no usable signing identity could be resolved
// from the configured material.
type IdentityError struct {
	Reason string
}

func (e *IdentityError) Error() string {
	return "resolve identity: " + e.Reason
}

// Identity is the agent's resolved signing identity: one key pair and its
// address on a specific network. The address string depends on the network,
// so an Identity is always bound to exactly one of them.
type Identity struct {
	key     *crypto.PrivateKey
	Network types.Network
	Address types.Address
}

// Source describes where the identity secret comes from. Exactly one of
// Secret or Mnemonic must be set; Passphrase only applies to Mnemonic.
type Source struct {
	Secret     string // hex-encoded private key
	Mnemonic   string // BIP-39 seed phrase
	Passphrase string // optional BIP-39 passphrase
}

// Resolve turns a secret source into an Identity on the given network.
//
// A hex secret is used directly. A mnemonic goes through the fixed
// derivation path m/44'/5757'/0'/0/0, so the same phrase always resolves
// to the same identity.
func Resolve(src Source, net types.Network) (*Identity, error) {
	if !net.Valid() {
		return nil, &IdentityError{Reason: fmt.Sprintf("unknown network %q", net)}
	}

	switch {
	case src.Secret != "" && src.Mnemonic != "":
		return nil, &IdentityError{Reason: "both secret and mnemonic configured, expected exactly one"}

	case src.Secret != "":
		key, err := crypto.PrivateKeyFromHex(src.Secret)
		if err != nil {
			return nil, &IdentityError{Reason: fmt.Sprintf("malformed secret: %v", err)}
		}
		return fromKey(key, net), nil

	case src.Mnemonic != "":
		key, err := keyFromMnemonic(src.Mnemonic, src.Passphrase)
		if err != nil {
			return nil, &IdentityError{Reason: err.Error()}
		}
		return fromKey(key, net), nil

	default:
		return nil, &IdentityError{Reason: "no secret or mnemonic configured"}
	}
}

func keyFromMnemonic(mnemonic, passphrase string) (*crypto.PrivateKey, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	identityKey, err := master.DeriveIdentityKey()
	if err != nil {
		return nil, err
	}
	return identityKey.Signer()
}

func fromKey(key *crypto.PrivateKey, net types.Network) *Identity {
	return &Identity{
		key:     key,
		Network: net,
		Address: crypto.AddressFromPubKey(key.PublicKey()),
	}
}

// Key returns the identity's signing key.
func (id *Identity) Key() *crypto.PrivateKey {
	return id.key
}

// PublicKey returns the compressed 33-byte public key.
func (id *Identity) PublicKey() []byte {
	return id.key.PublicKey()
}

// AddressString renders the identity's address with the network prefix
// ("SP" on mainnet, "ST" otherwise).
func (id *Identity) AddressString() string {
	return id.Address.Encode(id.Network)
}

// Zero wipes the private key material.
func (id *Identity) Zero() {
	id.key.Zero()
}
