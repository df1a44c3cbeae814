// File: value.go
// Title: Lox Runtime Values
// Description: The closed set of runtime values (nil, booleans, numbers and
//              strings) together with truthiness, equality and the display
//              rules used when a host prints a result.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial value model

package value

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies a value variant
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
)

// String returns the lower-case variant name
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a runtime value. The set of implementations is closed: Nil,
// Bool, Number and String.
type Value interface {
	Kind() Kind
	// String renders the value with the display rules
	String() string
	value()
}

// Nil is the absent value
type Nil struct{}

// Bool is a boolean value
type Bool bool

// Number is an IEEE-754 double
type Number float64

// String is an immutable text value
type String string

func (Nil) Kind() Kind    { return KindNil }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }

func (Nil) value()    {}
func (Bool) value()   {}
func (Number) value() {}
func (String) value() {}

func (Nil) String() string { return "nil" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (n Number) String() string { return FormatNumber(float64(n)) }

// String returns the raw, unquoted content
func (s String) String() string { return string(s) }

// FormatNumber returns the shortest decimal text that parses back to f.
// Integral values carry no fractional part ("3", not "3.0"); infinities
// print as "inf" and "-inf", not-a-number as "NaN".
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Truthy maps any value to a boolean: nil and false are falsy, every other
// value is truthy, including 0 and the empty string.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(x)
	case Number, String:
		return true
	default:
		panic(fmt.Sprintf("value: unknown variant %T", v))
	}
}

// Equal compares two values. Values of different variants are never equal;
// numbers compare with IEEE-754 equality, so NaN is not equal to itself.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	default:
		panic(fmt.Sprintf("value: unknown variant %T", a))
	}
}

// Quote renders v the way it appears in source: strings are quoted, every
// other variant uses its display form.
func Quote(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// FromLiteral converts a token literal payload into a value. float64 maps to
// Number, string to String, bool to Bool and nil to Nil.
func FromLiteral(literal interface{}) (Value, error) {
	switch x := literal.(type) {
	case nil:
		return Nil{}, nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case string:
		return String(x), nil
	default:
		return nil, fmt.Errorf("value: unsupported literal %T", literal)
	}
}
