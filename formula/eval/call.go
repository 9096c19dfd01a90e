package eval

import (
	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/formula/parse"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

func (e evaluator) evalCall(x parse.Call) value.Value {
	fn, err := e.ctx.Func(x.Name())
	if err != nil {
		return value.ErrName
	}
	if err := fn.Check(len(x.Args())); err != nil {
		return value.ErrValue
	}
	var args []value.Value
	for _, a := range x.Args() {
		v := e.eval(a)
		switch {
		case fn.Is(builtins.Reference):
			if _, ok := v.(value.Reference); !ok {
				v = e.operand(v)
			}
			args = append(args, v)
		case fn.Is(builtins.Reducing):
			args = append(args, e.expand(v)...)
		default:
			args = append(args, e.operand(v))
		}
	}
	if !fn.Is(builtins.Traps) {
		for _, a := range args {
			if err, ok := value.IsError(a); ok {
				return err
			}
		}
	}
	if fn.Scalar() && hasArray(args) {
		return e.broadcast(fn, args)
	}
	return fn.Fn(e.ctx, args)
}

// expand gives the values of every area of a reference, as expected by
// reducing functions.
func (e evaluator) expand(v value.Value) []value.Value {
	ref, ok := v.(value.Reference)
	if !ok {
		return []value.Value{v}
	}
	var list []value.Value
	for _, a := range ref.Areas {
		list = append(list, e.values(a))
	}
	return list
}

// broadcast calls a scalar function once for every position of its array
// arguments. Errors found in the arrays are only given back at their own
// position.
func (e evaluator) broadcast(fn builtins.Builtin, args []value.Value) value.Value {
	var dim layout.Dimension
	for _, a := range args {
		if arr, ok := a.(value.Array); ok {
			dim = dim.Max(arr.Dimension())
		}
	}
	return value.MakeArray(dim, func(row, col int) value.ScalarValue {
		list := make([]value.Value, len(args))
		for i, a := range args {
			s := pick(a, row, col)
			if err, ok := value.IsError(s); ok && !fn.Is(builtins.Traps) {
				return err
			}
			list[i] = s
		}
		switch res := fn.Fn(e.ctx, list).(type) {
		case value.Array:
			return res.TopLeft()
		case value.ScalarValue:
			return res
		default:
			return value.ErrValue
		}
	})
}

func pick(v value.Value, row, col int) value.ScalarValue {
	switch v := v.(type) {
	case value.Array:
		dim := v.Dimension()
		if dim.Lines == 1 {
			row = 0
		}
		if dim.Columns == 1 {
			col = 0
		}
		if x := v.At(row, col); x != nil {
			return x
		}
		return value.ErrNA
	case value.ScalarValue:
		return v
	default:
		return value.ErrValue
	}
}

func hasArray(args []value.Value) bool {
	for _, a := range args {
		if a.Kind() == value.KindArray {
			return true
		}
	}
	return false
}
