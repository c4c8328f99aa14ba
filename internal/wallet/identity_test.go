package wallet

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/Klingon-tech/strata-agent/pkg/types"
)

const testSecretHex = "4c2f1d8e0a6b39475c1e8d2f0b4a69375d1c8e2a0f4b69385e1d2c3a0f4b6947"

func TestResolve_FromSecret(t *testing.T) {
	id, err := Resolve(Source{Secret: testSecretHex}, types.Testnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if len(id.PublicKey()) != 33 {
		t.Errorf("public key length = %d, want 33", len(id.PublicKey()))
	}
	if got := id.AddressString(); !strings.HasPrefix(got, "ST") {
		t.Errorf("testnet address %q should start with ST", got)
	}
}

func TestResolve_SecretSpellings(t *testing.T) {
	base, err := Resolve(Source{Secret: testSecretHex}, types.Testnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	// 0x prefix and trailing compression marker are cosmetic.
	for _, secret := range []string{
		"0x" + testSecretHex,
		testSecretHex + "01",
		"0x" + testSecretHex + "01",
	} {
		id, err := Resolve(Source{Secret: secret}, types.Testnet)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", secret, err)
		}
		if id.Address != base.Address {
			t.Errorf("secret spelling %q resolved to a different address", secret)
		}
	}
}

// TestResolve_MnemonicKnownVector pins the full derivation pipeline
// (BIP-39 seed, m/44'/5757'/0'/0/0, BLAKE3 pubkey hash, c32check) to fixed
// outputs. Any change to the path or the address construction breaks this.
func TestResolve_MnemonicKnownVector(t *testing.T) {
	const (
		wantPubKey  = "03d5d038bce81b3965314dba54f636f093c7dbdd6617cded013a53474fbccb100c"
		wantMainnet = "SPR0BEBGJR52S7TC4J517412WFXAN402AQVARBSDG"
		wantTestnet = "STR0BEBGJR52S7TC4J517412WFXAN402AQ0PYXC28"
	)

	main, err := Resolve(Source{Mnemonic: testMnemonic}, types.Mainnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := hex.EncodeToString(main.PublicKey()); got != wantPubKey {
		t.Errorf("public key = %s, want %s", got, wantPubKey)
	}
	if got := main.AddressString(); got != wantMainnet {
		t.Errorf("mainnet address = %s, want %s", got, wantMainnet)
	}

	test, err := Resolve(Source{Mnemonic: testMnemonic}, types.Testnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := test.AddressString(); got != wantTestnet {
		t.Errorf("testnet address = %s, want %s", got, wantTestnet)
	}
}

func TestResolve_FromMnemonic(t *testing.T) {
	id, err := Resolve(Source{Mnemonic: testMnemonic}, types.Mainnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if got := id.AddressString(); !strings.HasPrefix(got, "SP") {
		t.Errorf("mainnet address %q should start with SP", got)
	}

	// Same phrase, same identity.
	again, err := Resolve(Source{Mnemonic: testMnemonic}, types.Mainnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if id.Address != again.Address {
		t.Error("resolving the same mnemonic twice should yield the same address")
	}
}

func TestResolve_MnemonicMatchesManualDerivation(t *testing.T) {
	id, err := Resolve(Source{Mnemonic: testMnemonic}, types.Testnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	key, err := testMaster(t).DeriveIdentityKey()
	if err != nil {
		t.Fatalf("DeriveIdentityKey() error: %v", err)
	}
	signer, err := key.Signer()
	if err != nil {
		t.Fatalf("Signer() error: %v", err)
	}

	manual := fromKey(signer, types.Testnet)
	if id.Address != manual.Address {
		t.Error("Resolve should use the m/44'/5757'/0'/0/0 path")
	}
}

func TestResolve_PassphraseChangesIdentity(t *testing.T) {
	plain, err := Resolve(Source{Mnemonic: testMnemonic}, types.Testnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	salted, err := Resolve(Source{Mnemonic: testMnemonic, Passphrase: "hunter2"}, types.Testnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if plain.Address == salted.Address {
		t.Error("a BIP-39 passphrase should change the resolved identity")
	}
}

func TestResolve_SameKeyDifferentNetworks(t *testing.T) {
	main, err := Resolve(Source{Secret: testSecretHex}, types.Mainnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	test, err := Resolve(Source{Secret: testSecretHex}, types.Testnet)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if main.Address != test.Address {
		t.Error("the raw address hash should not depend on the network")
	}
	if main.AddressString() == test.AddressString() {
		t.Error("the rendered address should differ across networks")
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		net  types.Network
	}{
		{"no source", Source{}, types.Testnet},
		{"both sources", Source{Secret: testSecretHex, Mnemonic: testMnemonic}, types.Testnet},
		{"malformed secret", Source{Secret: "zz"}, types.Testnet},
		{"bad mnemonic", Source{Mnemonic: "not a phrase"}, types.Testnet},
		{"unknown network", Source{Secret: testSecretHex}, types.Network("moonnet")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.src, tt.net)
			if err == nil {
				t.Fatal("expected error")
			}
			var idErr *IdentityError
			if !errors.As(err, &idErr) {
				t.Errorf("error = %T, want *IdentityError", err)
			}
		})
	}
}
