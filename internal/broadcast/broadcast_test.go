package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Klingon-tech/strata-agent/pkg/crypto"
	"github.com/Klingon-tech/strata-agent/pkg/tx"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

const testSecretHex = "6a1e3c5f7092b4d6f8102c4e6081a3c5e7d9f1b3a5c7e9012345678901234567"

func signedTx(t *testing.T) *tx.SignedTransaction {
	t.Helper()
	key, err := crypto.PrivateKeyFromHex(testSecretHex)
	if err != nil {
		t.Fatalf("PrivateKeyFromHex() error: %v", err)
	}
	sender := crypto.AddressFromPubKey(key.PublicKey())

	var recipient types.Address
	recipient[0] = 2

	in, err := tx.NewBuilder(types.Testnet, tx.DefaultSchedule()).
		Transfer(sender, 0, tx.TransferPayload{Recipient: recipient, Amount: 100})
	if err != nil {
		t.Fatalf("Transfer() error: %v", err)
	}
	signed, err := tx.Sign(in, key)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	return signed
}

func TestSubmit_Accepted(t *testing.T) {
	signed := signedTx(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/transactions" {
			t.Errorf("path = %s, want /v2/transactions", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !bytes.Equal(body, signed.Raw) {
			t.Error("node should receive the raw signed bytes unchanged")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := New(srv.URL, "", types.Testnet).Submit(context.Background(), signed)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if !res.Accepted {
		t.Error("2xx response should report accepted")
	}
	if res.TxID != signed.ID {
		t.Errorf("txid = %s, want %s", res.TxID, signed.ID)
	}
	if !strings.Contains(res.ExplorerURL, res.TxID.String()) {
		t.Errorf("explorer URL %q should contain the txid", res.ExplorerURL)
	}
	if !strings.Contains(res.ExplorerURL, "chain=testnet") {
		t.Errorf("testnet explorer URL %q should carry the chain marker", res.ExplorerURL)
	}
}

func TestSubmit_Rejected(t *testing.T) {
	signed := signedTx(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":  "transaction rejected",
			"reason": "BadNonce",
		})
	}))
	defer srv.Close()

	res, err := New(srv.URL, "", types.Testnet).Submit(context.Background(), signed)
	if err != nil {
		t.Fatalf("a node rejection is a Result, not an error: %v", err)
	}
	if res.Accepted {
		t.Error("4xx response should report not accepted")
	}
	if !res.TxID.IsZero() {
		t.Errorf("rejected transaction should carry no txid, got %s", res.TxID)
	}
	if res.Reason != "BadNonce" {
		t.Errorf("reason = %q, want BadNonce", res.Reason)
	}
	if res.ExplorerURL != "" {
		t.Error("rejected transaction should have no explorer URL")
	}
}

func TestSubmit_RejectedPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mempool full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res, err := New(srv.URL, "", types.Testnet).Submit(context.Background(), signedTx(t))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if res.Accepted {
		t.Error("5xx response should report not accepted")
	}
	if !res.TxID.IsZero() {
		t.Errorf("rejected transaction should carry no txid, got %s", res.TxID)
	}
	if res.Reason != "mempool full" {
		t.Errorf("reason = %q, want raw body fallback", res.Reason)
	}
}

func TestSubmit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	if _, err := New(srv.URL, "", types.Testnet).Submit(context.Background(), signedTx(t)); err == nil {
		t.Error("transport failure should be an error, not a Result")
	}
}

func TestExplorerURL_Devnet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := New(srv.URL, "", types.Devnet).Submit(context.Background(), signedTx(t))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if res.ExplorerURL != "" {
		t.Errorf("devnet should have no explorer URL, got %q", res.ExplorerURL)
	}
}
