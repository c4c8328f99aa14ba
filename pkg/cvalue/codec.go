package cvalue

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// maxNesting bounds optional/list/tuple depth so a malicious envelope cannot
// exhaust the stack.
const maxNesting = 64

// Encode serializes the value into its canonical wire form:
// tag byte followed by a type-specific payload. Integers are 8 bytes
// big-endian; buffers and strings are u32 length + bytes; lists and tuples
// are u32 count + elements; tuple field names are u8 length + bytes.
func (v Value) Encode() []byte {
	var buf []byte
	return v.appendTo(buf)
}

func (v Value) appendTo(buf []byte) []byte {
	buf = append(buf, byte(v.Type))
	switch v.Type {
	case TypeInt:
		buf = binary.BigEndian.AppendUint64(buf, uint64(v.intVal))
	case TypeUint:
		buf = binary.BigEndian.AppendUint64(buf, v.uintVal)
	case TypeTrue, TypeFalse, TypeNone:
		// Tag only.
	case TypeBuffer:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v.bytesVal)))
		buf = append(buf, v.bytesVal...)
	case TypeString:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v.strVal)))
		buf = append(buf, v.strVal...)
	case TypeSome:
		buf = v.inner.appendTo(buf)
	case TypeList:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v.items)))
		for _, it := range v.items {
			buf = it.appendTo(buf)
		}
	case TypeTuple:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v.tuple)))
		for _, e := range v.tuple {
			buf = append(buf, byte(len(e.Name)))
			buf = append(buf, e.Name...)
			buf = e.Value.appendTo(buf)
		}
	}
	return buf
}

// EncodeHex returns the 0x-prefixed hex envelope form used on the wire.
func (v Value) EncodeHex() string {
	return "0x" + hex.EncodeToString(v.Encode())
}

// Decode parses a single value from data. Trailing bytes are an error.
func Decode(data []byte) (Value, error) {
	v, rest, err := decode(data, 0)
	if err != nil {
		return Value{}, err
	}
	if len(rest) != 0 {
		return Value{}, fmt.Errorf("cvalue: %d trailing bytes", len(rest))
	}
	return v, nil
}

// DecodeHex parses a value from its hex envelope form (with or without the
// 0x prefix).
func DecodeHex(s string) (Value, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return Value{}, fmt.Errorf("cvalue: decode hex: %w", err)
	}
	return Decode(data)
}

func decode(data []byte, depth int) (Value, []byte, error) {
	if depth > maxNesting {
		return Value{}, nil, fmt.Errorf("cvalue: nesting deeper than %d", maxNesting)
	}
	if len(data) == 0 {
		return Value{}, nil, fmt.Errorf("cvalue: empty input")
	}

	tag := Type(data[0])
	rest := data[1:]

	switch tag {
	case TypeInt:
		if len(rest) < 8 {
			return Value{}, nil, fmt.Errorf("cvalue: truncated int")
		}
		return Int(int64(binary.BigEndian.Uint64(rest[:8]))), rest[8:], nil

	case TypeUint:
		if len(rest) < 8 {
			return Value{}, nil, fmt.Errorf("cvalue: truncated uint")
		}
		return Uint(binary.BigEndian.Uint64(rest[:8])), rest[8:], nil

	case TypeTrue:
		return Bool(true), rest, nil

	case TypeFalse:
		return Bool(false), rest, nil

	case TypeNone:
		return None(), rest, nil

	case TypeSome:
		inner, rest, err := decode(rest, depth+1)
		if err != nil {
			return Value{}, nil, err
		}
		return Some(inner), rest, nil

	case TypeBuffer, TypeString:
		if len(rest) < 4 {
			return Value{}, nil, fmt.Errorf("cvalue: truncated length")
		}
		n := binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
		if uint32(len(rest)) < n {
			return Value{}, nil, fmt.Errorf("cvalue: truncated payload: want %d bytes, have %d", n, len(rest))
		}
		if tag == TypeBuffer {
			return Buffer(append([]byte(nil), rest[:n]...)), rest[n:], nil
		}
		return String(string(rest[:n])), rest[n:], nil

	case TypeList:
		if len(rest) < 4 {
			return Value{}, nil, fmt.Errorf("cvalue: truncated list count")
		}
		n := binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
		items := make([]Value, 0, min(int(n), 64))
		for i := uint32(0); i < n; i++ {
			var it Value
			var err error
			it, rest, err = decode(rest, depth+1)
			if err != nil {
				return Value{}, nil, fmt.Errorf("cvalue: list item %d: %w", i, err)
			}
			items = append(items, it)
		}
		return List(items...), rest, nil

	case TypeTuple:
		if len(rest) < 4 {
			return Value{}, nil, fmt.Errorf("cvalue: truncated tuple count")
		}
		n := binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
		entries := make([]TupleEntry, 0, min(int(n), 64))
		for i := uint32(0); i < n; i++ {
			if len(rest) < 1 {
				return Value{}, nil, fmt.Errorf("cvalue: truncated tuple name length")
			}
			nameLen := int(rest[0])
			rest = rest[1:]
			if len(rest) < nameLen {
				return Value{}, nil, fmt.Errorf("cvalue: truncated tuple name")
			}
			name := string(rest[:nameLen])
			rest = rest[nameLen:]
			var val Value
			var err error
			val, rest, err = decode(rest, depth+1)
			if err != nil {
				return Value{}, nil, fmt.Errorf("cvalue: tuple field %q: %w", name, err)
			}
			entries = append(entries, TupleEntry{Name: name, Value: val})
		}
		return Tuple(entries...), rest, nil
	}

	return Value{}, nil, fmt.Errorf("cvalue: unknown type tag 0x%02x", data[0])
}
