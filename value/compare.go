package value

func Equal(left, right Value, loc Locale) Value {
	return compare(left, right, loc, func(c int) bool {
		return c == 0
	})
}

func NotEqual(left, right Value, loc Locale) Value {
	return compare(left, right, loc, func(c int) bool {
		return c != 0
	})
}

func Less(left, right Value, loc Locale) Value {
	return compare(left, right, loc, func(c int) bool {
		return c < 0
	})
}

func LessEqual(left, right Value, loc Locale) Value {
	return compare(left, right, loc, func(c int) bool {
		return c <= 0
	})
}

func Greater(left, right Value, loc Locale) Value {
	return compare(left, right, loc, func(c int) bool {
		return c > 0
	})
}

func GreaterEqual(left, right Value, loc Locale) Value {
	return compare(left, right, loc, func(c int) bool {
		return c >= 0
	})
}

func compare(left, right Value, loc Locale, accept func(int) bool) Value {
	apply := func(left, right ScalarValue) ScalarValue {
		c, err := Compare(left, right, loc)
		if err != nil {
			return ErrValue
		}
		return Boolean(accept(c))
	}
	return binary(left, right, apply)
}

// Compare orders two scalar values. Values of different types are ordered
// number < text < logical. A blank compares as the zero value of the type of
// the other operand. Errors are never comparable.
func Compare(left, right ScalarValue, loc Locale) (int, error) {
	if _, ok := left.(Error); ok {
		return 0, ErrValue
	}
	if _, ok := right.(Error); ok {
		return 0, ErrValue
	}
	left, right = zeroOf(left, right), zeroOf(right, left)
	if x, y := rank(left), rank(right); x != y {
		return cmpInt(x, y), nil
	}
	switch x := left.(type) {
	case Float:
		y := right.(Float)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	case Text:
		return loc.CompareText(string(x), string(right.(Text))), nil
	case Boolean:
		y := right.(Boolean)
		return cmpInt(boolRank(bool(x)), boolRank(bool(y))), nil
	default:
		return 0, nil
	}
}

func zeroOf(v, other ScalarValue) ScalarValue {
	if _, ok := v.(Blank); !ok {
		return v
	}
	switch other.(type) {
	case Boolean:
		return Boolean(false)
	case Text:
		return Text("")
	case Float:
		return Float(0)
	default:
		return v
	}
}

func rank(v ScalarValue) int {
	switch v.(type) {
	case Float:
		return 1
	case Text:
		return 2
	case Boolean:
		return 3
	default:
		return 0
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cmpInt(x, y int) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
