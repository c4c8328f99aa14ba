package query

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// AccountSnapshot is the node's view of an account at query time.
type AccountSnapshot struct {
	BalanceMicro uint64 // spendable balance in microSTR
	LockedMicro  uint64 // currently locked for stake-delegation
	Nonce        uint64 // next expected nonce
}

// accountResponse mirrors the node's account endpoint. Balances come back
// as 0x-prefixed hex strings.
type accountResponse struct {
	Balance string `json:"balance"`
	Locked  string `json:"locked"`
	Nonce   uint64 `json:"nonce"`
}

// GetAccount fetches the balance and next nonce for an address.
func (c *Client) GetAccount(ctx context.Context, addr types.Address, net types.Network) (*AccountSnapshot, error) {
	encoded := addr.Encode(net)
	var resp accountResponse
	if err := c.get(ctx, "/v2/accounts/"+url.PathEscape(encoded), &resp); err != nil {
		return nil, fmt.Errorf("get account %s: %w", encoded, err)
	}

	balance, err := parseHexAmount(resp.Balance)
	if err != nil {
		return nil, fmt.Errorf("account %s: bad balance %q: %w", encoded, resp.Balance, err)
	}
	locked, err := parseHexAmount(resp.Locked)
	if err != nil {
		return nil, fmt.Errorf("account %s: bad locked amount %q: %w", encoded, resp.Locked, err)
	}

	return &AccountSnapshot{
		BalanceMicro: balance,
		LockedMicro:  locked,
		Nonce:        resp.Nonce,
	}, nil
}

// GetBalance fetches just the spendable balance in microSTR.
func (c *Client) GetBalance(ctx context.Context, addr types.Address, net types.Network) (uint64, error) {
	snap, err := c.GetAccount(ctx, addr, net)
	if err != nil {
		return 0, err
	}
	return snap.BalanceMicro, nil
}

// NonceHint fetches the next expected nonce for an address.
func (c *Client) NonceHint(ctx context.Context, addr types.Address, net types.Network) (uint64, error) {
	snap, err := c.GetAccount(ctx, addr, net)
	if err != nil {
		return 0, err
	}
	return snap.Nonce, nil
}

// parseHexAmount parses a 0x-prefixed hex amount. An empty string is zero.
func parseHexAmount(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	trimmed := strings.TrimPrefix(s, "0x")
	if trimmed == "" {
		return 0, fmt.Errorf("empty hex value")
	}
	v, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}
