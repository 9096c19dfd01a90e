package builtins

import (
	"math"
	"math/rand/v2"

	"github.com/midbel/sheetcalc/value"
)

func registerMath(r *Registry) {
	r.Register("SUM", 1, Variadic, execSum, Reducing)
	r.Register("AVERAGE", 1, Variadic, execAverage, Reducing)
	r.Register("MIN", 1, Variadic, execMin, Reducing)
	r.Register("MAX", 1, Variadic, execMax, Reducing)
	r.Register("PRODUCT", 1, Variadic, execProduct, Reducing)
	r.Register("COUNT", 1, Variadic, execCount, Reducing, Traps)
	r.Register("COUNTA", 1, Variadic, execCountA, Reducing, Traps)
	r.Register("SUMIF", 2, 3, execSumIf, Reducing)
	r.Register("COUNTIF", 2, 2, execCountIf, Reducing)
	r.Register("AVERAGEIF", 2, 3, execAverageIf, Reducing)

	r.Register("SIGN", 1, 1, execSign)
	r.Register("ABS", 1, 1, execAbs)
	r.Register("INT", 1, 1, execInt)
	r.Register("SQRT", 1, 1, execSqrt)
	r.Register("ROUND", 2, 2, execRound)
	r.Register("MOD", 2, 2, execMod)
	r.Register("POWER", 2, 2, execPower)
	r.Register("PI", 0, 0, execPi)
	r.Register("RAND", 0, 0, execRand, Volatile)
}

func execSum(env Env, args []value.Value) value.Value {
	list, err := numbers(args, env.Locale())
	if err != nil {
		return err
	}
	var total float64
	for _, f := range list {
		total += f
	}
	return checked(total)
}

func execAverage(env Env, args []value.Value) value.Value {
	list, err := numbers(args, env.Locale())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return value.ErrDiv0
	}
	var total float64
	for _, f := range list {
		total += f
	}
	return checked(total / float64(len(list)))
}

func execMin(env Env, args []value.Value) value.Value {
	list, err := numbers(args, env.Locale())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return value.Float(0)
	}
	res := list[0]
	for _, f := range list[1:] {
		res = min(res, f)
	}
	return value.Float(res)
}

func execMax(env Env, args []value.Value) value.Value {
	list, err := numbers(args, env.Locale())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return value.Float(0)
	}
	res := list[0]
	for _, f := range list[1:] {
		res = max(res, f)
	}
	return value.Float(res)
}

func execProduct(env Env, args []value.Value) value.Value {
	list, err := numbers(args, env.Locale())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return value.Float(0)
	}
	res := 1.0
	for _, f := range list {
		res *= f
	}
	return checked(res)
}

func execCount(env Env, args []value.Value) value.Value {
	var count int
	each(args, func(v value.ScalarValue, direct bool) bool {
		switch v := v.(type) {
		case value.Float:
			count++
		case value.Boolean:
			if direct {
				count++
			}
		case value.Text:
			if _, ok := env.Locale().ParseNumber(string(v)); ok && direct {
				count++
			}
		}
		return true
	})
	return value.Float(count)
}

func execCountA(env Env, args []value.Value) value.Value {
	var count int
	each(args, func(v value.ScalarValue, _ bool) bool {
		if !value.IsBlank(v) {
			count++
		}
		return true
	})
	return value.Float(count)
}

func execSumIf(env Env, args []value.Value) value.Value {
	var total float64
	err := matchIf(env, args, func(v value.ScalarValue) {
		if f, ok := v.(value.Float); ok {
			total += float64(f)
		}
	})
	if err != nil {
		return err
	}
	return checked(total)
}

func execCountIf(env Env, args []value.Value) value.Value {
	var count int
	err := matchIf(env, args, func(_ value.ScalarValue) {
		count++
	})
	if err != nil {
		return err
	}
	return value.Float(count)
}

func execAverageIf(env Env, args []value.Value) value.Value {
	var (
		total float64
		count int
	)
	err := matchIf(env, args, func(v value.ScalarValue) {
		if f, ok := v.(value.Float); ok {
			total += float64(f)
			count++
		}
	})
	if err != nil {
		return err
	}
	if count == 0 {
		return value.ErrDiv0
	}
	return checked(total / float64(count))
}

// matchIf calls fn with the value of the third argument (or the first one
// when missing) at every position of the first argument matching the
// criteria given as second argument.
func matchIf(env Env, args []value.Value, fn func(value.ScalarValue)) value.Value {
	var (
		src    = asArray(args[0])
		values = src
	)
	if len(args) > 2 {
		values = asArray(args[2])
	}
	crit := scalar(args[1])
	if err, ok := value.IsError(crit); ok {
		return err
	}
	accept := parseCriteria(crit, env.Locale())
	dim := src.Dimension()
	for i := 0; i < int(dim.Lines); i++ {
		for j := 0; j < int(dim.Columns); j++ {
			if !accept(src.At(i, j)) {
				continue
			}
			v := values.At(i, j)
			if v == nil {
				continue
			}
			if err, ok := value.IsError(v); ok {
				return err
			}
			fn(v)
		}
	}
	return nil
}

func asArray(v value.Value) value.Array {
	if a, ok := v.(value.Array); ok {
		return a
	}
	return value.ArrayOf(scalar(v))
}

func execSign(env Env, args []value.Value) value.Value {
	f, err := toFloat(args[0], env.Locale())
	if err != nil {
		return err
	}
	switch {
	case f > 0:
		return value.Float(1)
	case f < 0:
		return value.Float(-1)
	default:
		return value.Float(0)
	}
}

func execAbs(env Env, args []value.Value) value.Value {
	f, err := toFloat(args[0], env.Locale())
	if err != nil {
		return err
	}
	return value.Float(math.Abs(f))
}

func execInt(env Env, args []value.Value) value.Value {
	f, err := toFloat(args[0], env.Locale())
	if err != nil {
		return err
	}
	return value.Float(math.Floor(f))
}

func execSqrt(env Env, args []value.Value) value.Value {
	f, err := toFloat(args[0], env.Locale())
	if err != nil {
		return err
	}
	if f < 0 {
		return value.ErrNum
	}
	return value.Float(math.Sqrt(f))
}

func execRound(env Env, args []value.Value) value.Value {
	f, err := toFloat(args[0], env.Locale())
	if err != nil {
		return err
	}
	d, err := toFloat(args[1], env.Locale())
	if err != nil {
		return err
	}
	pow := math.Pow(10, math.Trunc(d))
	return checked(math.Round(f*pow) / pow)
}

func execMod(env Env, args []value.Value) value.Value {
	n, err := toFloat(args[0], env.Locale())
	if err != nil {
		return err
	}
	d, err := toFloat(args[1], env.Locale())
	if err != nil {
		return err
	}
	if d == 0 {
		return value.ErrDiv0
	}
	return checked(n - d*math.Floor(n/d))
}

func execPower(env Env, args []value.Value) value.Value {
	return value.Pow(scalar(args[0]), scalar(args[1]), env.Locale())
}

func execPi(_ Env, _ []value.Value) value.Value {
	return value.Float(math.Pi)
}

func execRand(_ Env, _ []value.Value) value.Value {
	return value.Float(rand.Float64())
}

func checked(f float64) value.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value.ErrNum
	}
	return value.Float(f)
}
