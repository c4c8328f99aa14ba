package types

import (
	"strings"
	"testing"
)

func testAddr(fill byte) Address {
	var a Address
	for i := range a {
		a[i] = fill
	}
	return a
}

func TestAddressEncode_NetworkPrefix(t *testing.T) {
	a := testAddr(0x11)

	main := a.Encode(Mainnet)
	test := a.Encode(Testnet)
	dev := a.Encode(Devnet)

	if !strings.HasPrefix(main, "SP") {
		t.Errorf("mainnet address %q should start with SP", main)
	}
	if !strings.HasPrefix(test, "ST") {
		t.Errorf("testnet address %q should start with ST", test)
	}
	if dev[:2] != test[:2] {
		t.Errorf("devnet prefix %q should match testnet prefix %q", dev[:2], test[:2])
	}
	if main == test {
		t.Error("mainnet and testnet encodings should differ")
	}
}

func TestAddressEncode_Deterministic(t *testing.T) {
	a := testAddr(0x7f)
	if a.Encode(Mainnet) != a.Encode(Mainnet) {
		t.Error("Encode() should be deterministic")
	}
}

func TestParseAddress_RoundTrip(t *testing.T) {
	for _, net := range []Network{Mainnet, Testnet, Devnet} {
		a := testAddr(0xc3)
		s := a.Encode(net)
		parsed, err := ParseAddress(s, net)
		if err != nil {
			t.Fatalf("ParseAddress(%q, %s) error: %v", s, net, err)
		}
		if parsed != a {
			t.Errorf("round trip mismatch on %s: %x != %x", net, parsed, a)
		}
	}
}

func TestParseAddress_WrongNetwork(t *testing.T) {
	a := testAddr(0x01)
	mainStr := a.Encode(Mainnet)

	if _, err := ParseAddress(mainStr, Testnet); err == nil {
		t.Error("mainnet address should be rejected on testnet")
	}
	if _, err := ParseAddress(a.Encode(Testnet), Mainnet); err == nil {
		t.Error("testnet address should be rejected on mainnet")
	}
}

func TestParseAddress_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"garbage", "not-an-address"},
		{"truncated", testAddr(9).Encode(Mainnet)[:10]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAddress(tt.in, Mainnet); err == nil {
				t.Errorf("ParseAddress(%q) should fail", tt.in)
			}
		})
	}
}

func TestParseNetwork(t *testing.T) {
	for _, s := range []string{"mainnet", "testnet", "devnet"} {
		if _, err := ParseNetwork(s); err != nil {
			t.Errorf("ParseNetwork(%q) error: %v", s, err)
		}
	}
	if _, err := ParseNetwork("ropsten"); err == nil {
		t.Error("unknown network should be rejected")
	}
}
