package wallet

import (
	"bytes"
	"testing"

	"github.com/tyler-smith/go-bip32"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testMaster(t *testing.T) *HDKey {
	t.Helper()
	seed, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		t.Fatalf("NewMasterKey() error: %v", err)
	}
	return master
}

func TestNewMasterKey_BadSeed(t *testing.T) {
	if _, err := NewMasterKey([]byte("short")); err == nil {
		t.Error("short seed should be rejected")
	}
}

func TestDeriveIdentityKey(t *testing.T) {
	master := testMaster(t)

	key, err := master.DeriveIdentityKey()
	if err != nil {
		t.Fatalf("DeriveIdentityKey() error: %v", err)
	}

	if key.Depth() != 5 {
		t.Errorf("depth = %d, want 5 (m/44'/5757'/0'/0/0)", key.Depth())
	}
	if priv := key.PrivateKeyBytes(); len(priv) != 32 {
		t.Errorf("private key length = %d, want 32", len(priv))
	}
	if pub := key.PublicKeyBytes(); len(pub) != 33 {
		t.Errorf("public key length = %d, want 33", len(pub))
	}
}

func TestDeriveIdentityKey_Deterministic(t *testing.T) {
	k1, err := testMaster(t).DeriveIdentityKey()
	if err != nil {
		t.Fatalf("DeriveIdentityKey() error: %v", err)
	}
	k2, err := testMaster(t).DeriveIdentityKey()
	if err != nil {
		t.Fatalf("DeriveIdentityKey() error: %v", err)
	}
	if !bytes.Equal(k1.PrivateKeyBytes(), k2.PrivateKeyBytes()) {
		t.Error("derivation from the same seed should be deterministic")
	}
}

func TestDeriveIdentityKey_MatchesManualPath(t *testing.T) {
	master := testMaster(t)

	fixed, err := master.DeriveIdentityKey()
	if err != nil {
		t.Fatalf("DeriveIdentityKey() error: %v", err)
	}

	manual, err := master.DerivePath(PurposeBIP44, CoinTypeStrata, bip32.FirstHardenedChild+IdentityAccount, 0, 0)
	if err != nil {
		t.Fatalf("DerivePath() error: %v", err)
	}

	if !bytes.Equal(fixed.PrivateKeyBytes(), manual.PrivateKeyBytes()) {
		t.Error("DeriveIdentityKey should match the explicit path derivation")
	}
}

func TestSigner(t *testing.T) {
	key, err := testMaster(t).DeriveIdentityKey()
	if err != nil {
		t.Fatalf("DeriveIdentityKey() error: %v", err)
	}

	signer, err := key.Signer()
	if err != nil {
		t.Fatalf("Signer() error: %v", err)
	}
	if !bytes.Equal(signer.PublicKey(), key.PublicKeyBytes()) {
		t.Error("signer public key should match HD public key")
	}
}
