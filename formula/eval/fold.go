package eval

import (
	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/formula/op"
	"github.com/midbel/sheetcalc/formula/parse"
	"github.com/midbel/sheetcalc/value"
)

// Fold replaces the parts of a formula that only depend on constants by
// their value. Text constants, volatile functions and functions reading
// their context are never folded.
func Fold(expr parse.Expr, registry *builtins.Registry) parse.Expr {
	f := folder{
		registry: registry,
		ctx:      Constant(registry, value.DefaultLocale()),
	}
	return f.fold(expr)
}

type folder struct {
	registry *builtins.Registry
	ctx      Context
}

func (f folder) fold(expr parse.Expr) parse.Expr {
	switch x := expr.(type) {
	case parse.Group:
		inner := f.fold(x.Expr())
		if isConstant(inner) {
			return inner
		}
		return parse.NewGroup(inner)
	case parse.Unary:
		inner := f.fold(x.Expr())
		return f.reduce(parse.NewUnary(inner, x.Op()), inner)
	case parse.Postfix:
		inner := f.fold(x.Expr())
		return f.reduce(parse.NewPostfix(inner, x.Op()), inner)
	case parse.Binary:
		var (
			left  = f.fold(x.Left())
			right = f.fold(x.Right())
		)
		expr = parse.NewBinary(left, right, x.Op())
		if x.Op() == op.Concat {
			return expr
		}
		return f.reduce(expr, left, right)
	case parse.Call:
		args := make([]parse.Expr, len(x.Args()))
		for i, a := range x.Args() {
			args[i] = f.fold(a)
		}
		expr = parse.NewCall(x.Name(), args)
		fn, err := f.registry.Resolve(x.Name())
		if err != nil || fn.Check(len(args)) != nil {
			return expr
		}
		if fn.Is(builtins.Volatile) || fn.Is(builtins.Contextual) || fn.Is(builtins.Reference) {
			return expr
		}
		return f.reduce(expr, args...)
	default:
		return expr
	}
}

func (f folder) reduce(expr parse.Expr, operands ...parse.Expr) parse.Expr {
	for _, o := range operands {
		if !isConstant(o) {
			return expr
		}
	}
	e := evaluator{
		ctx: f.ctx,
	}
	res, ok := parse.FromValue(e.eval(expr))
	if !ok {
		return expr
	}
	return res
}

func isConstant(expr parse.Expr) bool {
	switch expr.(type) {
	case parse.Number, parse.Boolean, parse.ErrorLit, parse.ArrayLit:
		return true
	default:
		return false
	}
}

// IsVolatile reports whether the formula calls a function giving a new
// result on each evaluation.
func IsVolatile(expr parse.Expr, registry *builtins.Registry) bool {
	var found bool
	parse.Walk(expr, func(e parse.Expr) bool {
		if c, ok := e.(parse.Call); ok {
			if fn, err := registry.Resolve(c.Name()); err == nil && fn.Is(builtins.Volatile) {
				found = true
			}
		}
		return !found
	})
	return found
}
