package rpc

import (
	"github.com/Klingon-tech/strata-agent/internal/broadcast"
	"github.com/Klingon-tech/strata-agent/internal/query"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNodeError      = -32000 // upstream node request failed
	CodeRejected       = -32001 // node evaluated and refused
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// AddressParam is used by query_getBalance.
type AddressParam struct {
	Address string `json:"address"`
}

// TransferParams is used by tx_transfer. Amount takes either form:
// amount_micro in microSTR, or amount as a decimal STR string ("1.5").
type TransferParams struct {
	Recipient   string `json:"recipient"`
	AmountMicro uint64 `json:"amount_micro,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Memo        string `json:"memo,omitempty"`
}

// ContractCallParams is used by tx_contractCall and query_callReadOnly.
// Contract is "ADDRESS.name"; arguments are hex value envelopes.
type ContractCallParams struct {
	Contract  string   `json:"contract"`
	Function  string   `json:"function"`
	Arguments []string `json:"arguments,omitempty"`
}

// TokenTransferParams is used by tx_transferToken.
type TokenTransferParams struct {
	Contract    string `json:"contract"`
	Asset       string `json:"asset"`
	AmountMicro uint64 `json:"amount_micro"`
	Recipient   string `json:"recipient"`
	Memo        string `json:"memo,omitempty"`
}

// NFTTransferParams is used by tx_transferNFT.
type NFTTransferParams struct {
	Contract  string `json:"contract"`
	Asset     string `json:"asset"`
	TokenID   uint64 `json:"token_id"`
	Recipient string `json:"recipient"`
}

// DelegateParams is used by stack_delegate and stack_checkEligibility.
type DelegateParams struct {
	AmountMicro   uint64 `json:"amount_micro"`
	Cycles        uint32 `json:"cycles"`
	RewardAddress string `json:"reward_address"`
	StartHeight   uint64 `json:"start_height,omitempty"`
}

// ── Result types ────────────────────────────────────────────────────────

// IdentityResult is returned by wallet_getIdentity.
type IdentityResult struct {
	Address   string `json:"address"`
	PublicKey string `json:"public_key"` // compressed, hex
	Network   string `json:"network"`
}

// BalanceResult is returned by query_getBalance.
type BalanceResult struct {
	Address      string `json:"address"`
	BalanceMicro uint64 `json:"balance_micro"`
	Balance      string `json:"balance"` // decimal STR
	LockedMicro  uint64 `json:"locked_micro"`
	Nonce        uint64 `json:"nonce"`
}

// ReadOnlyResult is returned by query_callReadOnly.
type ReadOnlyResult struct {
	Value string `json:"value"` // human-readable rendering
	Hex   string `json:"hex"`   // canonical envelope
}

// SubmitResult is returned by every transaction tool. It carries the
// broadcast outcome plus the nonce and fee the agent chose, so a caller
// can retry deliberately after a rejection.
type SubmitResult struct {
	broadcast.Result
	Nonce    uint64 `json:"nonce"`
	FeeMicro uint64 `json:"fee_micro"`
}

// NetworkInfoResult is returned by query_getNetworkInfo.
type NetworkInfoResult struct {
	query.NetworkInfo
	Configured string `json:"configured_network"` // agent-side network name
}
