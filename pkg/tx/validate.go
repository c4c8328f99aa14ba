package tx

import (
	"fmt"
	"regexp"
)

// Validation limits.
const (
	// MaxMemoBytes is the maximum memo length in bytes.
	MaxMemoBytes = 34

	// MaxNameBytes bounds contract, function and asset names.
	MaxNameBytes = 128

	// MinDelegateCycles and MaxDelegateCycles bound the reward-cycle count
	// for stake-delegation.
	MinDelegateCycles = 1
	MaxDelegateCycles = 12
)

// namePattern matches valid contract, function and asset names.
var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9\-_?!]*$`)

// validateAmount rejects zero amounts. Amounts are unsigned, so negatives
// cannot be represented.
func validateAmount(amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("amount must be greater than zero")
	}
	return nil
}

// validateMemo enforces the memo byte bound.
func validateMemo(memo string) error {
	if len(memo) > MaxMemoBytes {
		return fmt.Errorf("memo is %d bytes, max %d", len(memo), MaxMemoBytes)
	}
	return nil
}

// validateName checks a contract, function or asset name.
func validateName(what, name string) error {
	if name == "" {
		return fmt.Errorf("%s name is empty", what)
	}
	if len(name) > MaxNameBytes {
		return fmt.Errorf("%s name is %d bytes, max %d", what, len(name), MaxNameBytes)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%s name %q contains invalid characters", what, name)
	}
	return nil
}

// validateContract checks a contract ID's coordinates.
func validateContract(c ContractID) error {
	if c.Address.IsZero() {
		return fmt.Errorf("contract address is empty")
	}
	return validateName("contract", c.Name)
}

// ValidateCycles enforces the protocol's reward-cycle bound. It is called
// by the builder itself, so an out-of-range count can never reach the
// network regardless of which entry point constructed the request.
func ValidateCycles(cycles uint32) error {
	if cycles < MinDelegateCycles || cycles > MaxDelegateCycles {
		return fmt.Errorf("cycle count %d outside allowed range %d-%d",
			cycles, MinDelegateCycles, MaxDelegateCycles)
	}
	return nil
}
