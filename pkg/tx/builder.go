package tx

import (
	"fmt"

	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// Builder constructs transaction intents for one network. All validation
// happens here, before any signing or network traffic.
//
// Post-condition policy per kind: fungible and non-fungible asset transfers
// use strict (deny) mode because the expected asset movement is fully known
// up front. Native transfers, contract calls and stake-delegation use
// permissive mode, trading safety for flexibility on less-predictable
// contract behavior.
type Builder struct {
	network types.Network
	fees    FeeEstimator
}

// NewBuilder creates a builder for the given network and fee strategy.
func NewBuilder(network types.Network, fees FeeEstimator) *Builder {
	return &Builder{network: network, fees: fees}
}

// Network returns the network this builder targets.
func (b *Builder) Network() types.Network {
	return b.network
}

// Transfer builds a native STR transfer intent.
func (b *Builder) Transfer(sender types.Address, nonce uint64, p TransferPayload) (*Intent, error) {
	if err := validateAmount(p.Amount); err != nil {
		return nil, err
	}
	if p.Recipient.IsZero() {
		return nil, fmt.Errorf("recipient address is empty")
	}
	if err := validateMemo(p.Memo); err != nil {
		return nil, err
	}
	return b.build(sender, nonce, &p, ModeAllow), nil
}

// ContractCall builds a contract invocation intent.
func (b *Builder) ContractCall(sender types.Address, nonce uint64, p ContractCallPayload) (*Intent, error) {
	if err := validateContract(p.Contract); err != nil {
		return nil, err
	}
	if err := validateName("function", p.Function); err != nil {
		return nil, err
	}
	return b.build(sender, nonce, &p, ModeAllow), nil
}

// TokenTransfer builds a fungible asset transfer intent.
func (b *Builder) TokenTransfer(sender types.Address, nonce uint64, p TokenTransferPayload) (*Intent, error) {
	if err := validateContract(p.Contract); err != nil {
		return nil, err
	}
	if err := validateName("asset", p.Asset); err != nil {
		return nil, err
	}
	if err := validateAmount(p.Amount); err != nil {
		return nil, err
	}
	if p.Sender.IsZero() || p.Recipient.IsZero() {
		return nil, fmt.Errorf("token transfer requires sender and recipient")
	}
	if err := validateMemo(p.Memo); err != nil {
		return nil, err
	}
	return b.build(sender, nonce, &p, ModeDeny), nil
}

// NFTTransfer builds a non-fungible asset transfer intent.
func (b *Builder) NFTTransfer(sender types.Address, nonce uint64, p NFTTransferPayload) (*Intent, error) {
	if err := validateContract(p.Contract); err != nil {
		return nil, err
	}
	if err := validateName("asset", p.Asset); err != nil {
		return nil, err
	}
	if p.Sender.IsZero() || p.Recipient.IsZero() {
		return nil, fmt.Errorf("nft transfer requires sender and recipient")
	}
	return b.build(sender, nonce, &p, ModeDeny), nil
}

// StackDelegate builds a stake-delegation intent. The cycle bound is
// enforced here, not only by upstream validation helpers.
func (b *Builder) StackDelegate(sender types.Address, nonce uint64, p StackDelegatePayload) (*Intent, error) {
	if err := validateAmount(p.Amount); err != nil {
		return nil, err
	}
	if err := ValidateCycles(p.Cycles); err != nil {
		return nil, err
	}
	if p.RewardAddress.IsZero() {
		return nil, fmt.Errorf("reward address is empty")
	}
	return b.build(sender, nonce, &p, ModeAllow), nil
}

// build assembles the intent and resolves its fee. The fee field has a
// fixed width, so the signing-byte size used for fee computation does not
// change once the fee is set.
func (b *Builder) build(sender types.Address, nonce uint64, payload Payload, mode PostConditionMode) *Intent {
	in := &Intent{
		Version:           TxVersion,
		Network:           b.network,
		Sender:            sender,
		Nonce:             nonce,
		AnchorMode:        AnchorAny,
		PostConditionMode: mode,
		Payload:           payload,
	}
	in.Fee = b.fees.Fee(payload.Kind(), len(in.SigningBytes()))
	return in
}
