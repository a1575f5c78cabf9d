package codec

import (
	"fmt"
	"strconv"
)

// --------------------------------------------------------------------------
// Kind
// --------------------------------------------------------------------------

// Kind identifies which primitive a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota // zero value of Value, never stored
	KindFloat               // 32-bit float
	KindInt                 // 32-bit signed integer
	KindLong                // 64-bit signed integer
	KindString              // string
	KindBool                // boolean
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "Float"
	case KindInt:
		return "Int"
	case KindLong:
		return "Long"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindInvalid:
		return "Invalid"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// --------------------------------------------------------------------------
// Value
// --------------------------------------------------------------------------

// Value is a closed tagged union over the five storable primitives.
//
// Value is comparable: two Values are equal iff both kind and payload match.
// The zero Value is invalid (Kind() == KindInvalid) and is rejected by the
// store's write path.
type Value struct {
	kind Kind
	f    float32
	i    int64
	s    string
	b    bool
}

// Float wraps a 32-bit float.
func Float(v float32) Value { return Value{kind: KindFloat, f: v} }

// Int wraps a 32-bit signed integer.
func Int(v int32) Value { return Value{kind: KindInt, i: int64(v)} }

// Long wraps a 64-bit signed integer.
func Long(v int64) Value { return Value{kind: KindLong, i: v} }

// String wraps a string.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind returns the type tag of the value.
func (v Value) Kind() Kind { return v.kind }

// Valid reports whether the value holds one of the five primitives.
func (v Value) Valid() bool { return v.kind >= KindFloat && v.kind <= KindBool }

// Equal reports whether two values hold the same primitive of the same kind.
// The kind is part of equality: Int(5) is not equal to Long(5).
func (v Value) Equal(o Value) bool { return v == o }

// --------------------------------------------------------------------------
// Type-checked extraction
// --------------------------------------------------------------------------

// Float returns the wrapped float. The boolean reports whether the value is
// tagged as a float; on a tag mismatch the caller falls back.
func (v Value) Float() (float32, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// Int returns the wrapped 32-bit integer and whether the tag matched.
func (v Value) Int() (int32, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return int32(v.i), true
}

// Long returns the wrapped 64-bit integer and whether the tag matched.
func (v Value) Long() (int64, bool) {
	if v.kind != KindLong {
		return 0, false
	}
	return v.i, true
}

// Text returns the wrapped string and whether the tag matched.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Bool returns the wrapped boolean and whether the tag matched.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// PayloadSize returns the approximate in-memory payload size in bytes.
// Used for store statistics, not for wire framing.
func (v Value) PayloadSize() int {
	switch v.kind {
	case KindFloat, KindInt:
		return 4
	case KindLong:
		return 8
	case KindString:
		return len(v.s)
	case KindBool:
		return 1
	default:
		return 0
	}
}

// String implements fmt.Stringer for logging and CLI output.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(float64(v.f), 'g', -1, 32)
	case KindInt, KindLong:
		return strconv.FormatInt(v.i, 10)
	case KindString:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}
