package value

import "strings"

var (
	ErrNull     = createError("#NULL!")
	ErrDiv0     = createError("#DIV/0!")
	ErrValue    = createError("#VALUE!")
	ErrRef      = createError("#REF!")
	ErrName     = createError("#NAME?")
	ErrNum      = createError("#NUM!")
	ErrNA       = createError("#N/A")
	ErrCircular = createError("#CIRC!")
)

var errorCodes = []Error{
	ErrNull,
	ErrDiv0,
	ErrValue,
	ErrRef,
	ErrName,
	ErrNum,
	ErrNA,
	ErrCircular,
}

type Error struct {
	code string
}

func createError(code string) Error {
	return Error{
		code: code,
	}
}

// ParseError returns the error identified by the given token. The lookup
// is case insensitive.
func ParseError(code string) (Error, bool) {
	for _, e := range errorCodes {
		if strings.EqualFold(e.code, code) {
			return e, true
		}
	}
	return Error{}, false
}

// Number returns the code used by spreadsheet applications to identify
// the error (see ERROR.TYPE).
func (e Error) Number() int {
	for i, x := range errorCodes {
		if x == e {
			return i + 1
		}
	}
	return 0
}

func (Error) Kind() ValueKind {
	return KindError
}

func (e Error) Error() string {
	return e.code
}

func (e Error) String() string {
	return e.code
}

func (e Error) Scalar() any {
	return e.code
}

func (Error) sealed() {}
