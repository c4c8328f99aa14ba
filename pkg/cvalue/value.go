// Package cvalue implements the typed value representation used by Strata
// contracts. Read-only call results arrive as a hex envelope of this encoding,
// and contract-call arguments are serialized with it.
package cvalue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Type tags the wire representation of a value.
type Type byte

const (
	TypeInt    Type = 0x00 // signed 64-bit integer
	TypeUint   Type = 0x01 // unsigned 64-bit integer
	TypeBuffer Type = 0x02 // raw bytes
	TypeTrue   Type = 0x03
	TypeFalse  Type = 0x04
	TypeNone   Type = 0x09 // absent optional
	TypeSome   Type = 0x0a // present optional
	TypeList   Type = 0x0b
	TypeTuple  Type = 0x0c
	TypeString Type = 0x0d // UTF-8 string
)

// Value is a typed contract value. Exactly one representation is meaningful
// per Type; the zero Value is "none".
type Value struct {
	Type Type

	intVal   int64
	uintVal  uint64
	boolVal  bool
	bytesVal []byte
	strVal   string
	inner    *Value  // for some
	items    []Value // for list
	tuple    []TupleEntry
}

// TupleEntry is one named field of a tuple value.
type TupleEntry struct {
	Name  string
	Value Value
}

// Int returns a signed integer value.
func Int(i int64) Value { return Value{Type: TypeInt, intVal: i} }

// Uint returns an unsigned integer value.
func Uint(u uint64) Value { return Value{Type: TypeUint, uintVal: u} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{Type: TypeTrue, boolVal: true}
	}
	return Value{Type: TypeFalse}
}

// Buffer returns a raw byte buffer value.
func Buffer(b []byte) Value { return Value{Type: TypeBuffer, bytesVal: b} }

// String returns a UTF-8 string value.
func String(s string) Value { return Value{Type: TypeString, strVal: s} }

// None returns the absent optional value.
func None() Value { return Value{Type: TypeNone} }

// Some wraps a value in a present optional.
func Some(v Value) Value { return Value{Type: TypeSome, inner: &v} }

// List returns a list value.
func List(items ...Value) Value { return Value{Type: TypeList, items: items} }

// Tuple returns a tuple value. Entries are sorted by name so that encoding
// is canonical regardless of construction order.
func Tuple(entries ...TupleEntry) Value {
	sorted := make([]TupleEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return Value{Type: TypeTuple, tuple: sorted}
}

// Native converts the value into a plain Go representation:
// int64, uint64, bool, []byte, string, nil (none), the unwrapped inner
// value (some), []any (list), or map[string]any (tuple).
func (v Value) Native() any {
	switch v.Type {
	case TypeInt:
		return v.intVal
	case TypeUint:
		return v.uintVal
	case TypeTrue:
		return true
	case TypeFalse:
		return false
	case TypeBuffer:
		return v.bytesVal
	case TypeString:
		return v.strVal
	case TypeNone:
		return nil
	case TypeSome:
		return v.inner.Native()
	case TypeList:
		out := make([]any, len(v.items))
		for i, it := range v.items {
			out[i] = it.Native()
		}
		return out
	case TypeTuple:
		out := make(map[string]any, len(v.tuple))
		for _, e := range v.tuple {
			out[e.Name] = e.Value.Native()
		}
		return out
	}
	return nil
}

// String renders the value in a compact human-readable form
// (u42, -7, true, none, (some u1), 0xdead, "hi", [u1 u2], {a: u1}).
func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.intVal, 10)
	case TypeUint:
		return "u" + strconv.FormatUint(v.uintVal, 10)
	case TypeTrue:
		return "true"
	case TypeFalse:
		return "false"
	case TypeBuffer:
		return "0x" + fmt.Sprintf("%x", v.bytesVal)
	case TypeString:
		return strconv.Quote(v.strVal)
	case TypeNone:
		return "none"
	case TypeSome:
		return "(some " + v.inner.String() + ")"
	case TypeList:
		parts := make([]string, len(v.items))
		for i, it := range v.items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case TypeTuple:
		parts := make([]string, len(v.tuple))
		for i, e := range v.tuple {
			parts[i] = e.Name + ": " + e.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("<invalid type 0x%02x>", byte(v.Type))
}
