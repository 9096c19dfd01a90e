package value

import (
	"strings"
)

// ToNumber coerces a value to a number. The result is either a Float or the
// Error explaining why the conversion failed.
func ToNumber(v Value, loc Locale) ScalarValue {
	switch v := v.(type) {
	case Float:
		return v
	case Blank:
		return Float(0)
	case Boolean:
		if v {
			return Float(1)
		}
		return Float(0)
	case Text:
		n, ok := loc.ParseNumber(string(v))
		if !ok {
			return ErrValue
		}
		return Float(n)
	case Error:
		return v
	case Array:
		return ToNumber(v.TopLeft(), loc)
	default:
		return ErrValue
	}
}

// ToText coerces a value to a text. The result is either a Text or an Error.
func ToText(v Value, loc Locale) ScalarValue {
	switch v := v.(type) {
	case Text:
		return v
	case Blank:
		return Text("")
	case Boolean:
		return Text(v.String())
	case Float:
		return Text(loc.FormatNumber(float64(v)))
	case Error:
		return v
	case Array:
		return ToText(v.TopLeft(), loc)
	default:
		return ErrValue
	}
}

// ToBool coerces a value to a logical. The result is either a Boolean or an
// Error.
func ToBool(v Value, loc Locale) ScalarValue {
	switch v := v.(type) {
	case Boolean:
		return v
	case Blank:
		return Boolean(false)
	case Float:
		return Boolean(v != 0)
	case Text:
		switch strings.ToUpper(strings.TrimSpace(string(v))) {
		case "TRUE":
			return Boolean(true)
		case "FALSE":
			return Boolean(false)
		default:
			return ErrValue
		}
	case Error:
		return v
	case Array:
		return ToBool(v.TopLeft(), loc)
	default:
		return ErrValue
	}
}

func True(v Value) bool {
	b, ok := v.(Boolean)
	return ok && bool(b)
}
