package eval

import (
	"github.com/midbel/sheetcalc/formula/op"
	"github.com/midbel/sheetcalc/formula/parse"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

// Eval computes the value of a formula owned by a single cell. References
// are reduced with implicit intersection and arrays give their top left
// value. A blank result is given as zero.
func Eval(expr parse.Expr, ctx Context) value.ScalarValue {
	e := evaluator{
		ctx: ctx,
	}
	v := e.eval(expr)
	switch x := e.operand(v).(type) {
	case value.Array:
		return cellValue(x.TopLeft())
	case value.ScalarValue:
		return cellValue(x)
	default:
		return value.ErrValue
	}
}

// EvaluateArray computes the values of a formula owned by a group of cells
// of the given dimension.
func EvaluateArray(expr parse.Expr, ctx Context, dim layout.Dimension) value.Array {
	e := evaluator{
		ctx:   ctx,
		array: true,
	}
	v := e.operand(e.eval(expr))
	return Spill(v, dim).Map(cellValue)
}

// Spill fits a result into a group of cells. A scalar is copied in every
// cell. A single row (or column) is repeated on every row (or column) of the
// group. Cells of the group outside of the result get #N/A.
func Spill(v value.Value, dim layout.Dimension) value.Array {
	arr, ok := v.(value.Array)
	if !ok {
		s, ok := v.(value.ScalarValue)
		if !ok {
			s = value.ErrValue
		}
		arr = value.ArrayOf(s)
	}
	size := arr.Dimension()
	return value.MakeArray(dim, func(row, col int) value.ScalarValue {
		if size.Lines == 1 {
			row = 0
		}
		if size.Columns == 1 {
			col = 0
		}
		if x := arr.At(row, col); x != nil {
			return x
		}
		return value.ErrNA
	})
}

func cellValue(v value.ScalarValue) value.ScalarValue {
	if value.IsBlank(v) {
		return value.Float(0)
	}
	return v
}

type evaluator struct {
	ctx   Context
	array bool
}

func (e evaluator) eval(expr parse.Expr) value.Value {
	switch x := expr.(type) {
	case parse.Number:
		return value.Float(x.Float())
	case parse.Literal:
		return value.Text(x.Text())
	case parse.Boolean:
		return value.Boolean(x.Bool())
	case parse.ErrorLit:
		return x.Err()
	case parse.ArrayLit:
		return x.Array()
	case parse.Group:
		return e.eval(x.Expr())
	case parse.CellAddr:
		return e.reference(x.Range(e.sheet()))
	case parse.RangeAddr:
		return e.reference(x.Range(e.sheet()))
	case parse.Name:
		return e.name(x)
	case parse.Unary:
		return e.evalUnary(x)
	case parse.Postfix:
		return e.evalPostfix(x)
	case parse.Binary:
		return e.evalBinary(x)
	case parse.Call:
		return e.evalCall(x)
	default:
		return value.ErrValue
	}
}

func (e evaluator) evalUnary(x parse.Unary) value.Value {
	v := e.operand(e.eval(x.Expr()))
	switch x.Op() {
	case op.Sub:
		return value.Negate(v, e.ctx.Locale())
	case op.Add:
		return v
	default:
		return value.ErrValue
	}
}

func (e evaluator) evalPostfix(x parse.Postfix) value.Value {
	v := e.operand(e.eval(x.Expr()))
	if x.Op() != op.Percent {
		return value.ErrValue
	}
	return value.Percent(v, e.ctx.Locale())
}

func (e evaluator) evalBinary(x parse.Binary) value.Value {
	var (
		left  = e.operand(e.eval(x.Left()))
		right = e.operand(e.eval(x.Right()))
	)
	fn, ok := binaries[x.Op()]
	if !ok {
		return value.ErrValue
	}
	return fn(left, right, e.ctx.Locale())
}

var binaries = map[op.Op]value.BinaryFunc{
	op.Add:    value.Add,
	op.Sub:    value.Sub,
	op.Mul:    value.Mul,
	op.Div:    value.Div,
	op.Pow:    value.Pow,
	op.Concat: value.Concat,
	op.Eq:     value.Equal,
	op.Ne:     value.NotEqual,
	op.Lt:     value.Less,
	op.Le:     value.LessEqual,
	op.Gt:     value.Greater,
	op.Ge:     value.GreaterEqual,
}

func (e evaluator) sheet() string {
	return e.ctx.Anchor().Sheet
}

func (e evaluator) reference(area layout.Range) value.Value {
	if !e.ctx.Exists(area.Sheet()) {
		return value.ErrRef
	}
	if !area.Starts.Valid() || !area.Ends.Valid() {
		return value.ErrRef
	}
	return value.NewReference(area)
}

func (e evaluator) name(x parse.Name) value.Value {
	areas, ok := e.ctx.Name(x.Sheet, x.Ident)
	if !ok || len(areas) == 0 {
		return value.ErrName
	}
	for _, a := range areas {
		if ref := e.reference(a); ref.Kind() != value.KindReference {
			return ref
		}
	}
	return value.NewReference(areas...)
}

// operand turns a reference into the value used by operators: the cell at
// the implicit intersection with the anchor or, when evaluating an array
// formula, the array of values of the area.
func (e evaluator) operand(v value.Value) value.Value {
	ref, ok := v.(value.Reference)
	if !ok {
		return v
	}
	if !ref.Single() {
		return value.ErrValue
	}
	if e.array {
		return e.values(ref.Area())
	}
	return e.intersect(ref.Area())
}

func (e evaluator) intersect(area layout.Range) value.Value {
	if area.Single() {
		return e.ctx.Cell(area.Starts)
	}
	var (
		anchor = e.ctx.Anchor()
		pos    = area.Starts
		inRow  = anchor.Line >= area.Starts.Line && anchor.Line <= area.Ends.Line
		inCol  = anchor.Column >= area.Starts.Column && anchor.Column <= area.Ends.Column
	)
	switch {
	case area.Height() == 1:
		if !inCol {
			return value.ErrValue
		}
		pos.Column = anchor.Column
	case area.Width() == 1:
		if !inRow {
			return value.ErrValue
		}
		pos.Line = anchor.Line
	default:
		if !inRow || !inCol {
			return value.ErrValue
		}
		pos.Line = anchor.Line
		pos.Column = anchor.Column
	}
	return e.ctx.Cell(pos)
}

func (e evaluator) values(area layout.Range) value.Array {
	return value.MakeArray(area.Dimension(), func(row, col int) value.ScalarValue {
		return e.ctx.Cell(area.At(int64(row), int64(col)))
	})
}
