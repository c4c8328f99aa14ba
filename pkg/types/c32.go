package types

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Crockford base32 alphabet used for address encoding. Excludes I, L, O and U
// to avoid ambiguous characters.
const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// c32Rev maps characters to their 5-bit values. -1 = invalid.
// Lowercase and the Crockford aliases (O->0, I/L->1) are accepted on decode.
var c32Rev [128]int8

func init() {
	for i := range c32Rev {
		c32Rev[i] = -1
	}
	for i, c := range c32Alphabet {
		c32Rev[c] = int8(i)
		if c >= 'A' && c <= 'Z' {
			c32Rev[c+'a'-'A'] = int8(i)
		}
	}
	c32Rev['O'], c32Rev['o'] = 0, 0
	c32Rev['I'], c32Rev['i'] = 1, 1
	c32Rev['L'], c32Rev['l'] = 1, 1
}

// c32Checksum returns the 4-byte checksum over version || payload:
// the first four bytes of SHA256(SHA256(version || payload)).
func c32Checksum(version byte, payload []byte) [4]byte {
	buf := make([]byte, 0, 1+len(payload))
	buf = append(buf, version)
	buf = append(buf, payload...)
	first := sha256.Sum256(buf)
	second := sha256.Sum256(first[:])
	var chk [4]byte
	copy(chk[:], second[:4])
	return chk
}

// C32CheckEncode encodes a version byte and payload into a checked c32 string:
// 'S' sentinel, one character for the version, then the c32-encoded
// payload||checksum.
func C32CheckEncode(version byte, payload []byte) (string, error) {
	if version >= 32 {
		return "", fmt.Errorf("c32: version %d out of range", version)
	}
	chk := c32Checksum(version, payload)
	data := make([]byte, 0, len(payload)+4)
	data = append(data, payload...)
	data = append(data, chk[:]...)

	groups, err := c32ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("c32: convert bits: %w", err)
	}

	var sb strings.Builder
	sb.Grow(2 + len(groups))
	sb.WriteByte('S')
	sb.WriteByte(c32Alphabet[version])
	for _, g := range groups {
		sb.WriteByte(c32Alphabet[g])
	}
	return sb.String(), nil
}

// C32CheckDecode decodes a checked c32 string into its version byte and payload.
func C32CheckDecode(s string) (byte, []byte, error) {
	if len(s) < 7 {
		return 0, nil, fmt.Errorf("c32: string too short")
	}
	if s[0] != 'S' && s[0] != 's' {
		return 0, nil, fmt.Errorf("c32: missing sentinel")
	}

	version, err := c32Value(s[1])
	if err != nil {
		return 0, nil, fmt.Errorf("c32: bad version character: %w", err)
	}

	body := s[2:]
	groups := make([]byte, len(body))
	for i := 0; i < len(body); i++ {
		v, err := c32Value(body[i])
		if err != nil {
			return 0, nil, err
		}
		groups[i] = v
	}

	data, err := c32ConvertBits(groups, 5, 8, false)
	if err != nil {
		return 0, nil, fmt.Errorf("c32: convert bits: %w", err)
	}
	if len(data) < 4 {
		return 0, nil, fmt.Errorf("c32: payload too short")
	}

	payload := data[:len(data)-4]
	var got [4]byte
	copy(got[:], data[len(data)-4:])
	if got != c32Checksum(version, payload) {
		return 0, nil, fmt.Errorf("c32: invalid checksum")
	}
	return version, payload, nil
}

// c32Value maps a single character to its 5-bit value.
func c32Value(c byte) (byte, error) {
	if c > 127 || c32Rev[c] < 0 {
		return 0, fmt.Errorf("c32: invalid character %q", c)
	}
	return byte(c32Rev[c]), nil
}

// c32ConvertBits regroups data between bit widths (e.g. 8-bit bytes to 5-bit
// groups). pad controls whether a trailing partial group is zero-padded.
func c32ConvertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	acc := uint32(0)
	bits := uint(0)
	maxv := uint32((1 << toBits) - 1)
	var ret []byte

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("invalid data value: %d", b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			ret = append(ret, byte((acc>>bits)&maxv))
		}
	}

	if pad {
		if bits > 0 {
			ret = append(ret, byte((acc<<(toBits-bits))&maxv))
		}
	} else if bits >= fromBits || (acc<<(toBits-bits))&maxv != 0 {
		return nil, fmt.Errorf("non-zero padding")
	}

	return ret, nil
}
