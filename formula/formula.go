package formula

import (
	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/formula/eval"
	"github.com/midbel/sheetcalc/formula/parse"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

// Formula is a parsed formula. It keeps the tree as written, used to give
// back its text and to move its references, and the folded tree used for
// evaluation. A Formula is never modified.
type Formula struct {
	source   parse.Expr
	expr     parse.Expr
	volatile bool
	registry *builtins.Registry
}

func Parse(str string, registry *builtins.Registry) (Formula, error) {
	expr, err := parse.ParseFormula(str)
	if err != nil {
		return Formula{}, err
	}
	return New(expr, registry), nil
}

func New(expr parse.Expr, registry *builtins.Registry) Formula {
	return Formula{
		source:   expr,
		expr:     eval.Fold(expr, registry),
		volatile: eval.IsVolatile(expr, registry),
		registry: registry,
	}
}

func (f Formula) Valid() bool {
	return f.source != nil
}

func (f Formula) String() string {
	if f.source == nil {
		return ""
	}
	return "=" + f.source.String()
}

func (f Formula) Source() parse.Expr {
	return f.source
}

func (f Formula) Expr() parse.Expr {
	return f.expr
}

func (f Formula) Volatile() bool {
	return f.volatile
}

func (f Formula) Precedents() []parse.Precedent {
	return parse.Precedents(f.source)
}

func (f Formula) Evaluate(ctx eval.Context) value.ScalarValue {
	return eval.Eval(f.expr, ctx)
}

func (f Formula) EvaluateArray(ctx eval.Context, dim layout.Dimension) value.Array {
	return eval.EvaluateArray(f.expr, ctx, dim)
}

// Shift gives the formula with its references moved by a structural edit.
// Sheet is the sheet of the cell owning the formula.
func (f Formula) Shift(sheet string, edit layout.Edit) (Formula, bool) {
	expr, changed := parse.ShiftReferences(f.source, sheet, edit)
	if !changed {
		return f, false
	}
	return New(expr, f.registry), true
}

func (f Formula) Rename(old, name string) (Formula, bool) {
	expr, changed := parse.RenameSheet(f.source, old, name)
	if !changed {
		return f, false
	}
	return New(expr, f.registry), true
}

// Offset gives the formula with its relative references moved.
func (f Formula) Offset(lines, columns int64) Formula {
	return New(parse.Offset(f.source, lines, columns), f.registry)
}
