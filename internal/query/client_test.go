package query

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Klingon-tech/strata-agent/pkg/cvalue"
	"github.com/Klingon-tech/strata-agent/pkg/tx"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

func testAddr(fill byte) types.Address {
	var a types.Address
	for i := range a {
		a[i] = fill
	}
	return a
}

func TestGetAccount(t *testing.T) {
	addr := testAddr(1)
	encoded := addr.Encode(types.Testnet)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/accounts/"+encoded {
			t.Errorf("path = %s, want /v2/accounts/%s", r.URL.Path, encoded)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"balance": "0x0f4240",
			"locked":  "0x00",
			"nonce":   7,
		})
	}))
	defer srv.Close()

	snap, err := New(srv.URL, "").GetAccount(context.Background(), addr, types.Testnet)
	if err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}
	if snap.BalanceMicro != 1_000_000 {
		t.Errorf("balance = %d, want 1000000", snap.BalanceMicro)
	}
	if snap.LockedMicro != 0 {
		t.Errorf("locked = %d, want 0", snap.LockedMicro)
	}
	if snap.Nonce != 7 {
		t.Errorf("nonce = %d, want 7", snap.Nonce)
	}
}

func TestGetAccount_EmptyLocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"balance": "0x01",
			"nonce":   0,
		})
	}))
	defer srv.Close()

	snap, err := New(srv.URL, "").GetAccount(context.Background(), testAddr(1), types.Testnet)
	if err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}
	if snap.LockedMicro != 0 {
		t.Errorf("missing locked field should read as 0, got %d", snap.LockedMicro)
	}
}

func TestGetAccount_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such account", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").GetAccount(context.Background(), testAddr(1), types.Testnet)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", statusErr.Status)
	}
	if !strings.Contains(statusErr.Body, "no such account") {
		t.Errorf("body = %q, want node message preserved", statusErr.Body)
	}
}

func TestAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		json.NewEncoder(w).Encode(NetworkInfo{})
	}))
	defer srv.Close()

	if _, err := New(srv.URL, "sekrit").GetNetworkInfo(context.Background()); err != nil {
		t.Fatalf("GetNetworkInfo() error: %v", err)
	}
	if gotKey != "sekrit" {
		t.Errorf("X-Api-Key = %q, want sekrit", gotKey)
	}

	if _, err := New(srv.URL, "").GetNetworkInfo(context.Background()); err != nil {
		t.Fatalf("GetNetworkInfo() error: %v", err)
	}
	if gotKey != "" {
		t.Errorf("empty api key should send no header, got %q", gotKey)
	}
}

func TestGetNetworkInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/info" {
			t.Errorf("path = %s, want /v2/info", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"network_id":   "testnet",
			"chain_height": 1234,
			"fee_rate":     25,
		})
	}))
	defer srv.Close()

	info, err := New(srv.URL, "").GetNetworkInfo(context.Background())
	if err != nil {
		t.Fatalf("GetNetworkInfo() error: %v", err)
	}
	if info.Network != "testnet" || info.ChainHeight != 1234 || info.FeeRateMicro != 25 {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestGetStackingParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/stacking" {
			t.Errorf("path = %s, want /v2/stacking", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"min_delegate_amount":     50_000_000,
			"cycle_length":            2100,
			"current_cycle":           42,
			"next_cycle_start_height": 90300,
			"max_cycles":              12,
		})
	}))
	defer srv.Close()

	params, err := New(srv.URL, "").GetStackingParams(context.Background())
	if err != nil {
		t.Fatalf("GetStackingParams() error: %v", err)
	}
	if params.MinDelegateMicro != 50_000_000 {
		t.Errorf("min = %d, want 50000000", params.MinDelegateMicro)
	}
	if params.MaxCycles != 12 {
		t.Errorf("max cycles = %d, want 12", params.MaxCycles)
	}
}

func TestCallReadOnly(t *testing.T) {
	contract := tx.ContractID{Address: testAddr(0xaa), Name: "token-v1"}
	sender := testAddr(1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPrefix := "/v2/contracts/call-read/"
		if !strings.HasPrefix(r.URL.Path, wantPrefix) || !strings.HasSuffix(r.URL.Path, "/token-v1/get-balance") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req readOnlyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Arguments) != 1 {
			t.Errorf("argument count = %d, want 1", len(req.Arguments))
		}

		json.NewEncoder(w).Encode(readOnlyResponse{
			Okay:   true,
			Result: cvalue.Uint(500).EncodeHex(),
		})
	}))
	defer srv.Close()

	got, err := New(srv.URL, "").CallReadOnly(
		context.Background(),
		contract, "get-balance",
		[]cvalue.Value{cvalue.Uint(1)},
		sender, types.Testnet,
	)
	if err != nil {
		t.Fatalf("CallReadOnly() error: %v", err)
	}
	if native, _ := got.Native().(uint64); native != 500 {
		t.Errorf("result = %v, want u500", got)
	}
}

func TestCallReadOnly_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(readOnlyResponse{Okay: false, Cause: "unwrap failure"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").CallReadOnly(
		context.Background(),
		tx.ContractID{Address: testAddr(0xaa), Name: "c"}, "f",
		nil, testAddr(1), types.Testnet,
	)
	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("error = %v, want *CallError", err)
	}
	if callErr.Cause != "unwrap failure" {
		t.Errorf("cause = %q, want node cause preserved", callErr.Cause)
	}
}

func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(srv.URL, "").GetNetworkInfo(ctx); err == nil {
		t.Error("cancelled context should abort the request")
	}
}
