package builtins

import (
	"github.com/midbel/sheetcalc/value"
)

// each calls fn for every scalar found in the arguments. direct is false
// for the elements of an array.
func each(args []value.Value, fn func(v value.ScalarValue, direct bool) bool) {
	for _, a := range args {
		switch a := a.(type) {
		case value.Array:
			for _, v := range a.Values() {
				if !fn(v, false) {
					return
				}
			}
		case value.ScalarValue:
			if !fn(a, true) {
				return
			}
		default:
			if !fn(value.ErrValue, true) {
				return
			}
		}
	}
}

// numbers collects the numbers of the arguments. Values given directly are
// coerced. Only the numbers of arrays are kept. The first error found is
// returned instead.
func numbers(args []value.Value, loc value.Locale) ([]float64, value.Value) {
	var (
		list []float64
		fail value.Value
	)
	each(args, func(v value.ScalarValue, direct bool) bool {
		if err, ok := value.IsError(v); ok {
			fail = err
			return false
		}
		if !direct {
			if f, ok := v.(value.Float); ok {
				list = append(list, float64(f))
			}
			return true
		}
		if value.IsBlank(v) {
			return true
		}
		n := value.ToNumber(v, loc)
		if err, ok := value.IsError(n); ok {
			fail = err
			return false
		}
		list = append(list, float64(n.(value.Float)))
		return true
	})
	return list, fail
}

func scalar(v value.Value) value.ScalarValue {
	switch v := v.(type) {
	case value.Array:
		return v.TopLeft()
	case value.ScalarValue:
		return v
	default:
		return value.ErrValue
	}
}

func toFloat(v value.Value, loc value.Locale) (float64, value.Value) {
	n := value.ToNumber(scalar(v), loc)
	if f, ok := n.(value.Float); ok {
		return float64(f), nil
	}
	return 0, n
}

func toString(v value.Value, loc value.Locale) (string, value.Value) {
	s := value.ToText(scalar(v), loc)
	if t, ok := s.(value.Text); ok {
		return string(t), nil
	}
	return "", s
}

func toBool(v value.Value, loc value.Locale) (bool, value.Value) {
	b := value.ToBool(scalar(v), loc)
	if x, ok := b.(value.Boolean); ok {
		return bool(x), nil
	}
	return false, b
}

func optFloat(args []value.Value, ix int, def float64, loc value.Locale) (float64, value.Value) {
	if ix >= len(args) {
		return def, nil
	}
	return toFloat(args[ix], loc)
}
