package value

import (
	"math"
)

type (
	UnaryFunc  func(Value, Locale) Value
	BinaryFunc func(Value, Value, Locale) Value
)

func Negate(v Value, loc Locale) Value {
	return unary(v, loc, func(f float64) ScalarValue {
		if f == 0 {
			return Float(0)
		}
		return Float(-f)
	})
}

func Identity(v Value, loc Locale) Value {
	return unary(v, loc, func(f float64) ScalarValue {
		return Float(f)
	})
}

func Percent(v Value, loc Locale) Value {
	return unary(v, loc, func(f float64) ScalarValue {
		return Float(f / 100)
	})
}

func unary(v Value, loc Locale, do func(float64) ScalarValue) Value {
	apply := func(v ScalarValue) ScalarValue {
		n := ToNumber(v, loc)
		f, ok := n.(Float)
		if !ok {
			return n
		}
		return do(float64(f))
	}
	switch v := v.(type) {
	case Array:
		return v.Map(apply)
	case ScalarValue:
		return apply(v)
	default:
		return ErrValue
	}
}

func Add(left, right Value, loc Locale) Value {
	return arithmetic(left, right, loc, func(x, y float64) ScalarValue {
		return checkNumber(x + y)
	})
}

func Sub(left, right Value, loc Locale) Value {
	return arithmetic(left, right, loc, func(x, y float64) ScalarValue {
		return checkNumber(x - y)
	})
}

func Mul(left, right Value, loc Locale) Value {
	return arithmetic(left, right, loc, func(x, y float64) ScalarValue {
		return checkNumber(x * y)
	})
}

func Div(left, right Value, loc Locale) Value {
	return arithmetic(left, right, loc, func(x, y float64) ScalarValue {
		if y == 0 {
			return ErrDiv0
		}
		return checkNumber(x / y)
	})
}

func Pow(left, right Value, loc Locale) Value {
	return arithmetic(left, right, loc, func(x, y float64) ScalarValue {
		if x == 0 && y < 0 {
			return ErrDiv0
		}
		if x == 0 && y == 0 {
			return ErrNum
		}
		return checkNumber(math.Pow(x, y))
	})
}

func checkNumber(f float64) ScalarValue {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrNum
	}
	return Float(f)
}

func arithmetic(left, right Value, loc Locale, do func(float64, float64) ScalarValue) Value {
	apply := func(left, right ScalarValue) ScalarValue {
		x := ToNumber(left, loc)
		if _, ok := x.(Error); ok {
			return x
		}
		y := ToNumber(right, loc)
		if _, ok := y.(Error); ok {
			return y
		}
		return do(float64(x.(Float)), float64(y.(Float)))
	}
	return binary(left, right, apply)
}

// Concat joins the text form of both operands. Only the top left element of
// an array takes part in the operation.
func Concat(left, right Value, loc Locale) Value {
	x := ToText(left, loc)
	if _, ok := x.(Error); ok {
		return x
	}
	y := ToText(right, loc)
	if _, ok := y.(Error); ok {
		return y
	}
	return Text(x.(Text) + y.(Text))
}

func binary(left, right Value, apply func(ScalarValue, ScalarValue) ScalarValue) Value {
	_, la := left.(Array)
	_, ra := right.(Array)
	if la || ra {
		return Broadcast(left, right, apply)
	}
	x, ok := left.(ScalarValue)
	if !ok {
		return ErrValue
	}
	y, ok := right.(ScalarValue)
	if !ok {
		return ErrValue
	}
	return apply(x, y)
}
