// Package tx defines Strata transaction construction, validation and signing.
package tx

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/Klingon-tech/strata-agent/pkg/crypto"
	"github.com/Klingon-tech/strata-agent/pkg/cvalue"
	"github.com/Klingon-tech/strata-agent/pkg/types"
)

// TxVersion is the current transaction serialization version.
const TxVersion = 1

// Kind identifies a transaction variant.
type Kind byte

const (
	KindTransfer      Kind = 0x00 // native STR transfer
	KindContractCall  Kind = 0x01 // public contract function invocation
	KindTokenTransfer Kind = 0x02 // fungible asset transfer
	KindNFTTransfer   Kind = 0x03 // non-fungible asset transfer
	KindStackDelegate Kind = 0x04 // stake-delegation
)

// String returns the kind's wire name.
func (k Kind) String() string {
	switch k {
	case KindTransfer:
		return "transfer"
	case KindContractCall:
		return "contract_call"
	case KindTokenTransfer:
		return "token_transfer"
	case KindNFTTransfer:
		return "nft_transfer"
	case KindStackDelegate:
		return "stack_delegate"
	}
	return "unknown"
}

// PostConditionMode governs whether asset movements the transaction did not
// declare cause it to abort.
type PostConditionMode byte

const (
	// ModeAllow permits undeclared asset movement (permissive).
	ModeAllow PostConditionMode = 0x01
	// ModeDeny aborts the transaction on undeclared asset movement (strict).
	ModeDeny PostConditionMode = 0x02
)

// AnchorMode controls block inclusion requirements.
type AnchorMode byte

const (
	// AnchorOnChainOnly requires inclusion in an anchored block.
	AnchorOnChainOnly AnchorMode = 0x01
	// AnchorOffChainOnly allows only fast, less-final inclusion.
	AnchorOffChainOnly AnchorMode = 0x02
	// AnchorAny accepts either inclusion path.
	AnchorAny AnchorMode = 0x03
)

// ContractID names a deployed contract: the deployer address plus the
// contract's name.
type ContractID struct {
	Address types.Address
	Name    string
}

// Encode renders the contract ID for the given network ("SP....name").
func (c ContractID) Encode(net types.Network) string {
	return c.Address.Encode(net) + "." + c.Name
}

// Payload is the kind-specific body of a transaction intent.
type Payload interface {
	Kind() Kind
	appendTo(buf []byte) []byte
}

// Intent is a fully specified, not-yet-signed transaction.
type Intent struct {
	Version           uint8
	Network           types.Network
	Sender            types.Address
	Nonce             uint64
	Fee               uint64
	AnchorMode        AnchorMode
	PostConditionMode PostConditionMode
	Payload           Payload
}

// Kind returns the intent's transaction kind.
func (in *Intent) Kind() Kind {
	return in.Payload.Kind()
}

// SigningBytes returns the canonical byte representation used for signing
// and for the transaction ID.
// Format: version(1) | networkVersion(1) | kind(1) | sender(20) | nonce(8) |
// fee(8) | anchor(1) | pcMode(1) | payload.
func (in *Intent) SigningBytes() []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, in.Version)
	buf = append(buf, in.Network.Version())
	buf = append(buf, byte(in.Payload.Kind()))
	buf = append(buf, in.Sender[:]...)
	buf = binary.BigEndian.AppendUint64(buf, in.Nonce)
	buf = binary.BigEndian.AppendUint64(buf, in.Fee)
	buf = append(buf, byte(in.AnchorMode))
	buf = append(buf, byte(in.PostConditionMode))
	return in.Payload.appendTo(buf)
}

// ID computes the transaction ID (BLAKE3 hash of the signing bytes).
// Signatures are excluded, so the ID is stable before and after signing.
func (in *Intent) ID() types.TxID {
	return types.TxID(crypto.Hash(in.SigningBytes()))
}

// SignedTransaction is a broadcast-ready transaction: the signing bytes
// followed by the signer's compressed public key and Schnorr signature.
type SignedTransaction struct {
	Raw []byte
	ID  types.TxID
}

// RawHex returns the hex encoding of the serialized transaction.
func (s *SignedTransaction) RawHex() string {
	return hex.EncodeToString(s.Raw)
}

// ── Payload variants ────────────────────────────────────────────────────

// TransferPayload moves native STR to a recipient.
type TransferPayload struct {
	Recipient types.Address
	Amount    uint64 // microSTR
	Memo      string // at most MaxMemoBytes bytes
}

func (p *TransferPayload) Kind() Kind { return KindTransfer }

func (p *TransferPayload) appendTo(buf []byte) []byte {
	buf = append(buf, p.Recipient[:]...)
	buf = binary.BigEndian.AppendUint64(buf, p.Amount)
	return appendShortString(buf, p.Memo)
}

// ContractCallPayload invokes a public contract function with typed arguments.
type ContractCallPayload struct {
	Contract ContractID
	Function string
	Args     []cvalue.Value
}

func (p *ContractCallPayload) Kind() Kind { return KindContractCall }

func (p *ContractCallPayload) appendTo(buf []byte) []byte {
	buf = appendContractID(buf, p.Contract)
	buf = appendShortString(buf, p.Function)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(p.Args)))
	for _, arg := range p.Args {
		enc := arg.Encode()
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(enc)))
		buf = append(buf, enc...)
	}
	return buf
}

// TokenTransferPayload moves a fungible asset held by a token contract.
type TokenTransferPayload struct {
	Contract  ContractID
	Asset     string
	Amount    uint64
	Sender    types.Address
	Recipient types.Address
	Memo      string
}

func (p *TokenTransferPayload) Kind() Kind { return KindTokenTransfer }

func (p *TokenTransferPayload) appendTo(buf []byte) []byte {
	buf = appendContractID(buf, p.Contract)
	buf = appendShortString(buf, p.Asset)
	buf = binary.BigEndian.AppendUint64(buf, p.Amount)
	buf = append(buf, p.Sender[:]...)
	buf = append(buf, p.Recipient[:]...)
	return appendShortString(buf, p.Memo)
}

// NFTTransferPayload moves one non-fungible token by ID.
type NFTTransferPayload struct {
	Contract  ContractID
	Asset     string
	TokenID   uint64
	Sender    types.Address
	Recipient types.Address
}

func (p *NFTTransferPayload) Kind() Kind { return KindNFTTransfer }

func (p *NFTTransferPayload) appendTo(buf []byte) []byte {
	buf = appendContractID(buf, p.Contract)
	buf = appendShortString(buf, p.Asset)
	buf = binary.BigEndian.AppendUint64(buf, p.TokenID)
	buf = append(buf, p.Sender[:]...)
	buf = append(buf, p.Recipient[:]...)
	return buf
}

// StackDelegatePayload locks STR for a number of reward cycles, paying
// rewards to RewardAddress.
type StackDelegatePayload struct {
	Amount        uint64
	Cycles        uint32
	RewardAddress types.Address
	StartHeight   uint64 // 0 = earliest possible cycle
}

func (p *StackDelegatePayload) Kind() Kind { return KindStackDelegate }

func (p *StackDelegatePayload) appendTo(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint64(buf, p.Amount)
	buf = binary.BigEndian.AppendUint32(buf, p.Cycles)
	buf = append(buf, p.RewardAddress[:]...)
	return binary.BigEndian.AppendUint64(buf, p.StartHeight)
}

// appendShortString appends a u8 length-prefixed string (validated to fit
// before construction).
func appendShortString(buf []byte, s string) []byte {
	buf = append(buf, byte(len(s)))
	return append(buf, s...)
}

// appendContractID appends a contract ID as address(20) | name.
func appendContractID(buf []byte, c ContractID) []byte {
	buf = append(buf, c.Address[:]...)
	return appendShortString(buf, c.Name)
}
