// Package stacking answers whether an account can enter stake-delegation.
package stacking

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/strata-agent/internal/log"
	"github.com/Klingon-tech/strata-agent/internal/query"
	"github.com/Klingon-tech/strata-agent/pkg/tx"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// ChainSource supplies the chain state the checker needs.
// *query.Client satisfies it.
type ChainSource interface {
	GetAccount(ctx context.Context, addr types.Address, net types.Network) (*query.AccountSnapshot, error)
	GetStackingParams(ctx context.Context) (*query.StackingParams, error)
}

// Request describes a proposed stake-delegation.
type Request struct {
	Delegator     types.Address
	AmountMicro   uint64
	Cycles        uint32
	RewardAddress types.Address
}

// Report is the checker's advisory verdict. It reflects chain state at
// query time; the node makes the binding decision when the transaction
// lands.
type Report struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`

	// Context for the caller regardless of the verdict.
	MinAmountMicro   uint64 `json:"min_amount"`
	CurrentCycle     uint64 `json:"current_cycle"`
	FirstActiveCycle uint64 `json:"first_active_cycle"`
	UnlockHeight     uint64 `json:"unlock_height"`
}

// Checker evaluates delegation requests against live chain parameters.
type Checker struct {
	source ChainSource
	net    types.Network
}

// NewChecker creates a checker reading chain state from source.
func NewChecker(source ChainSource, net types.Network) *Checker {
	return &Checker{source: source, net: net}
}

// Check evaluates a delegation request. A request that fails a rule
// yields an ineligible Report with the first failing rule as the reason;
// errors are reserved for chain-state fetch failures.
func (c *Checker) Check(ctx context.Context, req Request) (*Report, error) {
	params, err := c.source.GetStackingParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch stacking params: %w", err)
	}
	account, err := c.source.GetAccount(ctx, req.Delegator, c.net)
	if err != nil {
		return nil, fmt.Errorf("fetch delegator account: %w", err)
	}

	report := &Report{
		MinAmountMicro:   params.MinDelegateMicro,
		CurrentCycle:     params.CurrentCycle,
		FirstActiveCycle: params.CurrentCycle + 1,
	}

	maxCycles := params.MaxCycles
	if maxCycles == 0 {
		maxCycles = tx.MaxDelegateCycles
	}
	report.UnlockHeight = params.NextCycleStartHeight + uint64(req.Cycles)*params.CycleLengthBlocks

	switch {
	case req.Delegator == (types.Address{}):
		report.Reason = "delegator address is empty"
	case req.RewardAddress == (types.Address{}):
		report.Reason = "reward address is empty"
	case req.Cycles < tx.MinDelegateCycles || req.Cycles > maxCycles:
		report.Reason = fmt.Sprintf("cycle count %d outside [%d, %d]",
			req.Cycles, tx.MinDelegateCycles, maxCycles)
	case req.AmountMicro < params.MinDelegateMicro:
		report.Reason = fmt.Sprintf("amount %d below minimum %d",
			req.AmountMicro, params.MinDelegateMicro)
	case req.AmountMicro > account.BalanceMicro:
		report.Reason = fmt.Sprintf("amount %d exceeds spendable balance %d",
			req.AmountMicro, account.BalanceMicro)
	case account.LockedMicro > 0:
		report.Reason = "account already has locked funds"
	default:
		report.Eligible = true
	}

	log.Stacking.Debug().
		Bool("eligible", report.Eligible).
		Str("reason", report.Reason).
		Uint64("amount", req.AmountMicro).
		Uint32("cycles", req.Cycles).
		Msg("delegation pre-check")
	return report, nil
}
