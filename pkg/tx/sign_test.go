package tx

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Klingon-tech/strata-agent/pkg/crypto"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

const signTestSecret = "9d3b7a5c1e8f2406b3d5a7c9e1f30425a6b8c0d2e4f6081a3c5e7092b4d6f810"

func signTestKey(t *testing.T) (*crypto.PrivateKey, types.Address) {
	t.Helper()
	key, err := crypto.PrivateKeyFromHex(signTestSecret)
	if err != nil {
		t.Fatalf("PrivateKeyFromHex() error: %v", err)
	}
	return key, crypto.AddressFromPubKey(key.PublicKey())
}

func signTestIntent(t *testing.T, sender types.Address) *Intent {
	t.Helper()
	in, err := testBuilder().Transfer(sender, 5, TransferPayload{
		Recipient: addr(2),
		Amount:    1000,
	})
	if err != nil {
		t.Fatalf("Transfer() error: %v", err)
	}
	return in
}

func TestSign(t *testing.T) {
	key, sender := signTestKey(t)
	in := signTestIntent(t, sender)

	signed, err := Sign(in, key)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	if signed.ID != in.ID() {
		t.Error("signed transaction ID should equal the intent ID")
	}
	if err := VerifyRaw(signed.Raw); err != nil {
		t.Errorf("VerifyRaw() error: %v", err)
	}

	// The raw secret must never appear in the serialized transaction.
	if bytes.Contains(signed.Raw, key.Serialize()) {
		t.Error("serialized transaction must not contain the private key")
	}
}

func TestSign_SenderMismatch(t *testing.T) {
	key, _ := signTestKey(t)
	in := signTestIntent(t, addr(0x55)) // not the key's address

	_, err := Sign(in, key)
	if !errors.Is(err, ErrSenderMismatch) {
		t.Errorf("Sign() error = %v, want ErrSenderMismatch", err)
	}
}

func TestSign_Deterministic(t *testing.T) {
	key, sender := signTestKey(t)
	in := signTestIntent(t, sender)

	s1, err := Sign(in, key)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	s2, err := Sign(in, key)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	if s1.ID != s2.ID {
		t.Error("signing the same intent twice should yield the same ID")
	}
}

func TestVerifyRaw_Tampered(t *testing.T) {
	key, sender := signTestKey(t)
	signed, err := Sign(signTestIntent(t, sender), key)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	tampered := append([]byte(nil), signed.Raw...)
	tampered[40] ^= 0xff // flip a byte inside the signed region
	if err := VerifyRaw(tampered); err == nil {
		t.Error("tampered transaction should fail verification")
	}

	if err := VerifyRaw([]byte("short")); err == nil {
		t.Error("truncated transaction should fail verification")
	}
}

func TestIntentID_CommitsToFields(t *testing.T) {
	_, sender := signTestKey(t)
	base := signTestIntent(t, sender)

	bumped, err := testBuilder().Transfer(sender, 6, TransferPayload{
		Recipient: addr(2),
		Amount:    1000,
	})
	if err != nil {
		t.Fatalf("Transfer() error: %v", err)
	}
	if base.ID() == bumped.ID() {
		t.Error("different nonce should produce a different transaction ID")
	}

	mainnet := NewBuilder(types.Mainnet, DefaultSchedule())
	crossNet, err := mainnet.Transfer(sender, 5, TransferPayload{
		Recipient: addr(2),
		Amount:    1000,
	})
	if err != nil {
		t.Fatalf("Transfer() error: %v", err)
	}
	if base.ID() == crossNet.ID() {
		t.Error("the same transfer on a different network should have a different ID")
	}
}
