package rpc

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/strata-agent/internal/broadcast"
	"github.com/Klingon-tech/strata-agent/internal/query"
	"github.com/Klingon-tech/strata-agent/internal/stacking"
	"github.com/Klingon-tech/strata-agent/pkg/cvalue"
	"github.com/Klingon-tech/strata-agent/pkg/tx"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// ── Wallet endpoints ────────────────────────────────────────────────────

func (s *Server) handleGetIdentity(_ *Request) (interface{}, *Error) {
	return &IdentityResult{
		Address:   s.identity.AddressString(),
		PublicKey: hex.EncodeToString(s.identity.PublicKey()),
		Network:   string(s.net),
	}, nil
}

// ── Query endpoints ─────────────────────────────────────────────────────

func (s *Server) handleGetBalance(ctx context.Context, req *Request) (interface{}, *Error) {
	var params AddressParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	addr, rpcErr := s.parseAddr(params.Address)
	if rpcErr != nil {
		return nil, rpcErr
	}

	snap, err := s.client.GetAccount(ctx, addr, s.net)
	if err != nil {
		return nil, nodeError(err)
	}

	return &BalanceResult{
		Address:      addr.Encode(s.net),
		BalanceMicro: snap.BalanceMicro,
		Balance:      types.FormatSTR(snap.BalanceMicro),
		LockedMicro:  snap.LockedMicro,
		Nonce:        snap.Nonce,
	}, nil
}

func (s *Server) handleGetNetworkInfo(ctx context.Context, _ *Request) (interface{}, *Error) {
	info, err := s.client.GetNetworkInfo(ctx)
	if err != nil {
		return nil, nodeError(err)
	}
	return &NetworkInfoResult{
		NetworkInfo: *info,
		Configured:  string(s.net),
	}, nil
}

func (s *Server) handleCallReadOnly(ctx context.Context, req *Request) (interface{}, *Error) {
	var params ContractCallParams
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	contract, rpcErr := s.parseContract(params.Contract)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if params.Function == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "function is required"}
	}

	args, rpcErr := decodeArgs(params.Arguments)
	if rpcErr != nil {
		return nil, rpcErr
	}

	value, err := s.client.CallReadOnly(ctx, contract, params.Function, args, s.identity.Address, s.net)
	if err != nil {
		return nil, nodeError(err)
	}

	return &ReadOnlyResult{
		Value: value.String(),
		Hex:   value.EncodeHex(),
	}, nil
}

// ── Transaction endpoints ───────────────────────────────────────────────

func (s *Server) handleTransfer(ctx context.Context, req *Request) (interface{}, *Error) {
	var params TransferParams
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	recipient, rpcErr := s.parseAddr(params.Recipient)
	if rpcErr != nil {
		return nil, rpcErr
	}
	amount, rpcErr := resolveAmount(params.AmountMicro, params.Amount)
	if rpcErr != nil {
		return nil, rpcErr
	}

	return s.submit(ctx, func(n uint64) (*tx.Intent, error) {
		return s.builder.Transfer(s.identity.Address, n, tx.TransferPayload{
			Recipient: recipient,
			Amount:    amount,
			Memo:      params.Memo,
		})
	})
}

func (s *Server) handleContractCall(ctx context.Context, req *Request) (interface{}, *Error) {
	var params ContractCallParams
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	contract, rpcErr := s.parseContract(params.Contract)
	if rpcErr != nil {
		return nil, rpcErr
	}
	args, rpcErr := decodeArgs(params.Arguments)
	if rpcErr != nil {
		return nil, rpcErr
	}

	return s.submit(ctx, func(n uint64) (*tx.Intent, error) {
		return s.builder.ContractCall(s.identity.Address, n, tx.ContractCallPayload{
			Contract: contract,
			Function: params.Function,
			Args:     args,
		})
	})
}

func (s *Server) handleTransferToken(ctx context.Context, req *Request) (interface{}, *Error) {
	var params TokenTransferParams
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	contract, rpcErr := s.parseContract(params.Contract)
	if rpcErr != nil {
		return nil, rpcErr
	}
	recipient, rpcErr := s.parseAddr(params.Recipient)
	if rpcErr != nil {
		return nil, rpcErr
	}

	return s.submit(ctx, func(n uint64) (*tx.Intent, error) {
		return s.builder.TokenTransfer(s.identity.Address, n, tx.TokenTransferPayload{
			Contract:  contract,
			Asset:     params.Asset,
			Amount:    params.AmountMicro,
			Sender:    s.identity.Address,
			Recipient: recipient,
			Memo:      params.Memo,
		})
	})
}

func (s *Server) handleTransferNFT(ctx context.Context, req *Request) (interface{}, *Error) {
	var params NFTTransferParams
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	contract, rpcErr := s.parseContract(params.Contract)
	if rpcErr != nil {
		return nil, rpcErr
	}
	recipient, rpcErr := s.parseAddr(params.Recipient)
	if rpcErr != nil {
		return nil, rpcErr
	}

	return s.submit(ctx, func(n uint64) (*tx.Intent, error) {
		return s.builder.NFTTransfer(s.identity.Address, n, tx.NFTTransferPayload{
			Contract:  contract,
			Asset:     params.Asset,
			TokenID:   params.TokenID,
			Sender:    s.identity.Address,
			Recipient: recipient,
		})
	})
}

// ── Stacking endpoints ──────────────────────────────────────────────────

func (s *Server) handleStackDelegate(ctx context.Context, req *Request) (interface{}, *Error) {
	var params DelegateParams
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	reward, rpcErr := s.parseAddr(params.RewardAddress)
	if rpcErr != nil {
		return nil, rpcErr
	}

	// Pre-flight the delegation against live chain parameters. An
	// ineligible request is answered without spending a nonce or touching
	// the node's transaction endpoint; if the check itself cannot be run,
	// the node still makes the binding decision on broadcast.
	report, err := s.checker.Check(ctx, stacking.Request{
		Delegator:     s.identity.Address,
		AmountMicro:   params.AmountMicro,
		Cycles:        params.Cycles,
		RewardAddress: reward,
	})
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("eligibility check unavailable, submitting anyway")
	case !report.Eligible:
		return &SubmitResult{
			Result: broadcast.Result{Reason: "delegation ineligible: " + report.Reason},
		}, nil
	}

	return s.submit(ctx, func(n uint64) (*tx.Intent, error) {
		return s.builder.StackDelegate(s.identity.Address, n, tx.StackDelegatePayload{
			Amount:        params.AmountMicro,
			Cycles:        params.Cycles,
			RewardAddress: reward,
			StartHeight:   params.StartHeight,
		})
	})
}

func (s *Server) handleCheckEligibility(ctx context.Context, req *Request) (interface{}, *Error) {
	var params DelegateParams
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	reward, rpcErr := s.parseAddr(params.RewardAddress)
	if rpcErr != nil {
		return nil, rpcErr
	}

	report, err := s.checker.Check(ctx, stacking.Request{
		Delegator:     s.identity.Address,
		AmountMicro:   params.AmountMicro,
		Cycles:        params.Cycles,
		RewardAddress: reward,
	})
	if err != nil {
		return nil, nodeError(err)
	}
	return report, nil
}

// ── Helpers ─────────────────────────────────────────────────────────────

// submit runs the shared build-sign-broadcast flow. A node rejection
// resets the sender's nonce lane so the dropped nonce is not stranded.
func (s *Server) submit(ctx context.Context, build func(nonce uint64) (*tx.Intent, error)) (interface{}, *Error) {
	n, err := s.sequencer.Next(ctx, s.identity.Address)
	if err != nil {
		return nil, nodeError(err)
	}

	in, err := build(n)
	if err != nil {
		s.sequencer.Reset(s.identity.Address)
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	signed, err := tx.Sign(in, s.identity.Key())
	if err != nil {
		s.sequencer.Reset(s.identity.Address)
		return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("sign: %v", err)}
	}

	res, err := s.caster.Submit(ctx, signed)
	if err != nil {
		s.sequencer.Reset(s.identity.Address)
		return nil, nodeError(err)
	}
	if !res.Accepted {
		s.sequencer.Reset(s.identity.Address)
	}

	return &SubmitResult{
		Result:   *res,
		Nonce:    in.Nonce,
		FeeMicro: in.Fee,
	}, nil
}

func (s *Server) parseAddr(raw string) (types.Address, *Error) {
	if raw == "" {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: "address is required"}
	}
	addr, err := types.ParseAddress(raw, s.net)
	if err != nil {
		return types.Address{}, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid address %q: %v", raw, err)}
	}
	return addr, nil
}

// parseContract splits "ADDRESS.name" into a contract ID.
func (s *Server) parseContract(raw string) (tx.ContractID, *Error) {
	addrPart, name, ok := strings.Cut(raw, ".")
	if !ok || name == "" {
		return tx.ContractID{}, &Error{Code: CodeInvalidParams, Message: "contract must be \"ADDRESS.name\""}
	}
	addr, rpcErr := s.parseAddr(addrPart)
	if rpcErr != nil {
		return tx.ContractID{}, rpcErr
	}
	return tx.ContractID{Address: addr, Name: name}, nil
}

// decodeArgs turns hex value envelopes into decoded values.
func decodeArgs(raw []string) ([]cvalue.Value, *Error) {
	args := make([]cvalue.Value, len(raw))
	for i, h := range raw {
		v, err := cvalue.DecodeHex(h)
		if err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("argument %d: %v", i, err)}
		}
		args[i] = v
	}
	return args, nil
}

// resolveAmount accepts microSTR directly or a decimal STR string.
func resolveAmount(micro uint64, decimal string) (uint64, *Error) {
	switch {
	case micro != 0 && decimal != "":
		return 0, &Error{Code: CodeInvalidParams, Message: "set amount_micro or amount, not both"}
	case micro != 0:
		return micro, nil
	case decimal != "":
		v, err := types.ParseSTR(decimal)
		if err != nil {
			return 0, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid amount %q: %v", decimal, err)}
		}
		return v, nil
	default:
		return 0, &Error{Code: CodeInvalidParams, Message: "amount is required"}
	}
}

// nodeError maps upstream failures onto RPC error codes, keeping the
// node's rejection cause visible to the caller.
func nodeError(err error) *Error {
	var callErr *query.CallError
	if errors.As(err, &callErr) {
		return &Error{Code: CodeRejected, Message: err.Error(), Data: callErr.Cause}
	}
	var statusErr *query.StatusError
	if errors.As(err, &statusErr) {
		return &Error{Code: CodeNodeError, Message: err.Error(), Data: statusErr.Status}
	}
	return &Error{Code: CodeNodeError, Message: err.Error()}
}
