package types

import (
	"fmt"
	"strconv"
	"strings"
)

// MicroPerSTR is the number of base units (microSTR) in one STR.
const MicroPerSTR = 1_000_000

// amountDecimals is the number of fractional digits in a display amount.
const amountDecimals = 6

// ParseSTR converts a display amount string ("1.5", "0.001") into microSTR.
// Fractional digits beyond the sixth are truncated, never rounded, so the
// result can never exceed the caller's stated amount. Zero and negative
// amounts are rejected.
func ParseSTR(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative amount %q", s)
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}

	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	// Truncate (floor) anything beyond six fractional digits.
	if len(frac) > amountDecimals {
		frac = frac[:amountDecimals]
	}
	var f uint64
	if frac != "" {
		f, err = strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		for i := len(frac); i < amountDecimals; i++ {
			f *= 10
		}
	}

	if w > (1<<64-1)/MicroPerSTR || w*MicroPerSTR > (1<<64-1)-f {
		return 0, fmt.Errorf("amount %q overflows", s)
	}
	micro := w*MicroPerSTR + f
	if micro == 0 {
		return 0, fmt.Errorf("amount must be greater than zero")
	}
	return micro, nil
}

// FormatSTR renders a microSTR amount as a display string with up to six
// fractional digits and no trailing zeros.
func FormatSTR(micro uint64) string {
	whole := micro / MicroPerSTR
	frac := micro % MicroPerSTR
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fs := fmt.Sprintf("%06d", frac)
	fs = strings.TrimRight(fs, "0")
	return strconv.FormatUint(whole, 10) + "." + fs
}
