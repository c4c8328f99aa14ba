// Package broadcast submits signed transactions to a Strata node.
package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Klingon-tech/strata-agent/internal/log"
	"github.com/Klingon-tech/strata-agent/pkg/tx"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// Explorer URL templates per network. Devnet has no public explorer.
const (
	mainnetExplorer = "https://explorer.strata.network/tx/%s"
	testnetExplorer = "https://explorer.strata.network/tx/%s?chain=testnet"
)

// Result is the outcome of a broadcast attempt that reached the node.
// A rejected transaction is a Result with Accepted=false, not an error;
// errors are reserved for transport failures where the node's answer is
// unknown.
type Result struct {
	TxID        types.TxID `json:"txid"`
	Accepted    bool       `json:"accepted"`
	Reason      string     `json:"reason,omitempty"` // node's rejection reason
	ExplorerURL string     `json:"explorer_url,omitempty"`
}

// submitResponse mirrors the node's transaction endpoint.
type submitResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Broadcaster posts signed transactions to a node.
type Broadcaster struct {
	baseURL string
	apiKey  string
	net     types.Network
	http    *http.Client
}

// New creates a broadcaster for the node at baseURL.
func New(baseURL, apiKey string, net types.Network) *Broadcaster {
	return &Broadcaster{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		net:     net,
		http:    &http.Client{},
	}
}

// NewWithTimeout creates a broadcaster with a hard cap per submission.
func NewWithTimeout(baseURL, apiKey string, net types.Network, timeout time.Duration) *Broadcaster {
	b := New(baseURL, apiKey, net)
	b.http.Timeout = timeout
	return b
}

// Submit posts a signed transaction. Any HTTP answer from the node,
// acceptance or rejection, produces a Result; only transport failures
// return an error.
func (b *Broadcaster) Submit(ctx context.Context, signed *tx.SignedTransaction) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/v2/transactions", bytes.NewReader(signed.Raw))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if b.apiKey != "" {
		req.Header.Set("X-Api-Key", b.apiKey)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit transaction: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		result := &Result{
			TxID:        signed.ID,
			Accepted:    true,
			ExplorerURL: b.explorerURL(signed.ID),
		}
		log.Broadcast.Info().
			Str("txid", result.TxID.String()).
			Msg("transaction accepted")
		return result, nil
	}

	// A rejected transaction was never admitted, so it has no id on the
	// ledger; the Result carries only the reason.
	result := &Result{Reason: rejectionReason(body)}
	log.Broadcast.Warn().
		Str("txid", signed.ID.String()).
		Int("status", resp.StatusCode).
		Str("reason", result.Reason).
		Msg("transaction rejected")
	return result, nil
}

// rejectionReason extracts the node's reason from a rejection body,
// falling back to the raw text when it is not the JSON envelope.
func rejectionReason(body []byte) string {
	var sr submitResponse
	if err := json.Unmarshal(body, &sr); err == nil {
		if sr.Reason != "" {
			return sr.Reason
		}
		if sr.Error != "" {
			return sr.Error
		}
	}
	return strings.TrimSpace(string(body))
}

func (b *Broadcaster) explorerURL(id types.TxID) string {
	switch b.net {
	case types.Mainnet:
		return fmt.Sprintf(mainnetExplorer, id.String())
	case types.Testnet:
		return fmt.Sprintf(testnetExplorer, id.String())
	}
	return ""
}
