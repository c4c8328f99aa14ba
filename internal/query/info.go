package query

import (
	"context"
	"fmt"
)

// NetworkInfo summarizes the node's view of the chain.
type NetworkInfo struct {
	Network      string `json:"network_id"`
	NodeVersion  string `json:"server_version"`
	ChainHeight  uint64 `json:"chain_height"`
	AnchorHeight uint64 `json:"anchor_height"`
	PeerCount    int    `json:"peer_count"`
	FeeRateMicro uint64 `json:"fee_rate"` // suggested microSTR per signing byte
}

// GetNetworkInfo fetches chain status from the node.
func (c *Client) GetNetworkInfo(ctx context.Context) (*NetworkInfo, error) {
	var info NetworkInfo
	if err := c.get(ctx, "/v2/info", &info); err != nil {
		return nil, fmt.Errorf("get network info: %w", err)
	}
	return &info, nil
}

// StackingParams carries the consensus parameters that govern
// stake-delegation eligibility.
type StackingParams struct {
	MinDelegateMicro     uint64 `json:"min_delegate_amount"`
	CycleLengthBlocks    uint64 `json:"cycle_length"`
	CurrentCycle         uint64 `json:"current_cycle"`
	NextCycleStartHeight uint64 `json:"next_cycle_start_height"`
	MaxCycles            uint32 `json:"max_cycles"`
}

// GetStackingParams fetches the current stake-delegation parameters.
func (c *Client) GetStackingParams(ctx context.Context) (*StackingParams, error) {
	var params StackingParams
	if err := c.get(ctx, "/v2/stacking", &params); err != nil {
		return nil, fmt.Errorf("get stacking params: %w", err)
	}
	return &params, nil
}
