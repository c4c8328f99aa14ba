package tx

// FeeEstimator resolves the fee for a transaction kind given the size of its
// signing bytes. Implementations can be swapped without touching the builder.
type FeeEstimator interface {
	Fee(kind Kind, size int) uint64
}

// Default per-kind fees in microSTR. These are deliberate flat constants:
// predictable for agents, generous enough to confirm on every environment.
// Stake-delegation is the exception and is priced by size (see Schedule.Fee).
const (
	DefaultTransferFee      = 300
	DefaultContractCallFee  = 3000
	DefaultTokenTransferFee = 3000
	DefaultNFTTransferFee   = 3000

	// DefaultDelegateFeeRate is the fallback microSTR-per-byte rate for
	// stake-delegation when the network did not report one.
	DefaultDelegateFeeRate = 25
)

// Schedule is the default FeeEstimator: flat per-kind fees, except
// stake-delegation which is computed from the serialized size and a
// network-reported fee rate.
type Schedule struct {
	Transfer      uint64
	ContractCall  uint64
	TokenTransfer uint64
	NFTTransfer   uint64

	// DelegateFeeRate is the microSTR-per-byte rate for stake-delegation.
	DelegateFeeRate uint64
}

// DefaultSchedule returns the standard fee schedule.
func DefaultSchedule() Schedule {
	return Schedule{
		Transfer:        DefaultTransferFee,
		ContractCall:    DefaultContractCallFee,
		TokenTransfer:   DefaultTokenTransferFee,
		NFTTransfer:     DefaultNFTTransferFee,
		DelegateFeeRate: DefaultDelegateFeeRate,
	}
}

// WithDelegateFeeRate returns a copy of the schedule using the given
// microSTR-per-byte rate for stake-delegation. A zero rate keeps the default.
func (s Schedule) WithDelegateFeeRate(rate uint64) Schedule {
	if rate > 0 {
		s.DelegateFeeRate = rate
	}
	return s
}

// Fee implements FeeEstimator.
func (s Schedule) Fee(kind Kind, size int) uint64 {
	switch kind {
	case KindTransfer:
		return s.Transfer
	case KindContractCall:
		return s.ContractCall
	case KindTokenTransfer:
		return s.TokenTransfer
	case KindNFTTransfer:
		return s.NFTTransfer
	case KindStackDelegate:
		return uint64(size) * s.DelegateFeeRate
	}
	return s.ContractCall
}
