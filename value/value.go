package value

import (
	"fmt"
)

type ValueKind int8

const (
	KindBlank ValueKind = 1 << iota
	KindLogical
	KindNumber
	KindText
	KindError
	KindArray
	KindReference
)

const KindScalar = KindBlank | KindLogical | KindNumber | KindText | KindError

func (k ValueKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindLogical:
		return "logical"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindError:
		return "error"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Value is implemented only by the types of this package: Blank, Boolean,
// Float, Text, Error, Array and Reference.
type Value interface {
	Kind() ValueKind
	fmt.Stringer

	sealed()
}

type ScalarValue interface {
	Value
	Scalar() any
}

func IsScalar(v Value) bool {
	return v != nil && v.Kind()&KindScalar != 0
}

func IsError(v Value) (Error, bool) {
	e, ok := v.(Error)
	return e, ok
}

func IsBlank(v Value) bool {
	_, ok := v.(Blank)
	return ok
}

func IsNumber(v Value) bool {
	_, ok := v.(Float)
	return ok
}

func IsText(v Value) bool {
	_, ok := v.(Text)
	return ok
}
