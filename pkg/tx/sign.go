package tx

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/strata-agent/pkg/crypto"
)

// ErrSenderMismatch is returned when an intent's declared sender is not the
// address derived from the signing key.
var ErrSenderMismatch = errors.New("intent sender does not match signing identity")

// Signed transaction layout: signing bytes | pubkey(33) | signature(64).
const (
	pubKeyLen    = 33
	signatureLen = 64
)

// Sign produces a broadcast-ready transaction from an intent and a private
// key. It is pure: no network I/O, deterministic for a given intent and key.
// The key itself is never serialized into the result.
func Sign(in *Intent, key *crypto.PrivateKey) (*SignedTransaction, error) {
	pubKey := key.PublicKey()
	if crypto.AddressFromPubKey(pubKey) != in.Sender {
		return nil, ErrSenderMismatch
	}

	signing := in.SigningBytes()
	digest := crypto.Hash(signing)
	sig, err := key.Sign(digest[:])
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	raw := make([]byte, 0, len(signing)+pubKeyLen+signatureLen)
	raw = append(raw, signing...)
	raw = append(raw, pubKey...)
	raw = append(raw, sig...)

	return &SignedTransaction{Raw: raw, ID: in.ID()}, nil
}

// VerifyRaw checks that a serialized transaction carries a valid signature
// from the embedded public key and that the public key hashes to the
// transaction's sender address. Used in tests and diagnostics; the ledger
// performs the authoritative check.
func VerifyRaw(raw []byte) error {
	if len(raw) < 1+1+1+20+8+8+1+1+pubKeyLen+signatureLen {
		return fmt.Errorf("raw transaction too short: %d bytes", len(raw))
	}
	split := len(raw) - pubKeyLen - signatureLen
	signing := raw[:split]
	pubKey := raw[split : split+pubKeyLen]
	sig := raw[split+pubKeyLen:]

	digest := crypto.Hash(signing)
	if !crypto.VerifySignature(digest[:], sig, pubKey) {
		return fmt.Errorf("invalid signature")
	}

	// Sender sits after version, network and kind bytes.
	sender := signing[3 : 3+20]
	addr := crypto.AddressFromPubKey(pubKey)
	for i := range addr {
		if addr[i] != sender[i] {
			return fmt.Errorf("public key does not match sender address")
		}
	}
	return nil
}
