package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/midbel/sheetcalc/formula/op"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

// Expr is a node of a parsed formula. String gives back the text of the
// formula without the leading equal sign.
type Expr interface {
	fmt.Stringer
}

type Clonable interface {
	CloneWithOffset(layout.Position) Expr
}

type Binary struct {
	left  Expr
	right Expr
	op    op.Op
}

func NewBinary(left, right Expr, oper op.Op) Expr {
	return Binary{
		left:  left,
		right: right,
		op:    oper,
	}
}

func (b Binary) Left() Expr {
	return b.left
}

func (b Binary) Right() Expr {
	return b.right
}

func (b Binary) Op() op.Op {
	return b.op
}

func (b Binary) String() string {
	return b.left.String() + op.Symbol(b.op) + b.right.String()
}

func (b Binary) CloneWithOffset(pos layout.Position) Expr {
	return NewBinary(cloneExpr(b.left, pos), cloneExpr(b.right, pos), b.op)
}

type Postfix struct {
	expr Expr
	op   op.Op
}

func NewPostfix(expr Expr, oper op.Op) Expr {
	return Postfix{
		expr: expr,
		op:   oper,
	}
}

func (p Postfix) Expr() Expr {
	return p.expr
}

func (p Postfix) Op() op.Op {
	return p.op
}

func (p Postfix) String() string {
	return p.expr.String() + op.Symbol(p.op)
}

func (p Postfix) CloneWithOffset(pos layout.Position) Expr {
	return NewPostfix(cloneExpr(p.expr, pos), p.op)
}

type Unary struct {
	expr Expr
	op   op.Op
}

func NewUnary(expr Expr, oper op.Op) Expr {
	return Unary{
		expr: expr,
		op:   oper,
	}
}

func (u Unary) Expr() Expr {
	return u.expr
}

func (u Unary) Op() op.Op {
	return u.op
}

func (u Unary) String() string {
	return op.Symbol(u.op) + u.expr.String()
}

func (u Unary) CloneWithOffset(pos layout.Position) Expr {
	return NewUnary(cloneExpr(u.expr, pos), u.op)
}

// Group keeps the parenthesis written by the user so the formula text can
// be given back as typed.
type Group struct {
	expr Expr
}

func NewGroup(expr Expr) Expr {
	return Group{
		expr: expr,
	}
}

func (g Group) Expr() Expr {
	return g.expr
}

func (g Group) String() string {
	return "(" + g.expr.String() + ")"
}

func (g Group) CloneWithOffset(pos layout.Position) Expr {
	return NewGroup(cloneExpr(g.expr, pos))
}

type Literal struct {
	value string
}

func NewLiteral(value string) Expr {
	return Literal{
		value: value,
	}
}

func (i Literal) Text() string {
	return i.value
}

func (i Literal) String() string {
	return `"` + strings.ReplaceAll(i.value, `"`, `""`) + `"`
}

type Number struct {
	value float64
}

func NewNumber(value float64) Expr {
	return Number{
		value: value,
	}
}

func (n Number) Float() float64 {
	return n.value
}

func (n Number) String() string {
	return value.Float(n.value).String()
}

type Boolean struct {
	value bool
}

func NewBoolean(value bool) Expr {
	return Boolean{
		value: value,
	}
}

func (b Boolean) Bool() bool {
	return b.value
}

func (b Boolean) String() string {
	return value.Boolean(b.value).String()
}

type ErrorLit struct {
	value value.Error
}

func NewErrorLit(err value.Error) Expr {
	return ErrorLit{
		value: err,
	}
}

func (e ErrorLit) Err() value.Error {
	return e.value
}

func (e ErrorLit) String() string {
	return e.value.String()
}

type ArrayLit struct {
	value value.Array
}

func NewArrayLit(arr value.Array) Expr {
	return ArrayLit{
		value: arr,
	}
}

func (a ArrayLit) Array() value.Array {
	return a.value
}

func (a ArrayLit) String() string {
	return a.value.String()
}

// FromValue gives the literal node that evaluates to the given value.
// References have no literal form and are not accepted.
func FromValue(v value.Value) (Expr, bool) {
	switch v := v.(type) {
	case value.Float:
		return NewNumber(float64(v)), true
	case value.Text:
		return NewLiteral(string(v)), true
	case value.Boolean:
		return NewBoolean(bool(v)), true
	case value.Error:
		return NewErrorLit(v), true
	case value.Array:
		return NewArrayLit(v), true
	default:
		return nil, false
	}
}

type Call struct {
	name string
	args []Expr
}

func NewCall(name string, args []Expr) Expr {
	return Call{
		name: strings.ToUpper(name),
		args: args,
	}
}

func (c Call) Name() string {
	return c.name
}

func (c Call) Args() []Expr {
	return c.args
}

func (c Call) String() string {
	var args []string
	for i := range c.args {
		args = append(args, c.args[i].String())
	}
	return fmt.Sprintf("%s(%s)", c.name, strings.Join(args, ","))
}

func (c Call) CloneWithOffset(pos layout.Position) Expr {
	var args []Expr
	for i := range c.args {
		args = append(args, cloneExpr(c.args[i], pos))
	}
	return NewCall(c.name, args)
}

// Name refers to a named range. Sheet is set when the name is qualified
// and restricts the lookup to the names defined for that sheet.
type Name struct {
	Sheet string
	Ident string
}

func NewName(sheet, ident string) Expr {
	return Name{
		Sheet: sheet,
		Ident: ident,
	}
}

func (n Name) String() string {
	if n.Sheet == "" {
		return n.Ident
	}
	return layout.QuoteSheet(n.Sheet) + "!" + n.Ident
}

// CellAddr is a reference to a single cell. An empty sheet refers to the
// sheet of the cell owning the formula.
type CellAddr struct {
	layout.Position
	AbsCol bool
	AbsRow bool
}

func NewCellAddr(pos layout.Position, col, row bool) Expr {
	return CellAddr{
		Position: pos,
		AbsCol:   col,
		AbsRow:   row,
	}
}

func (a CellAddr) String() string {
	var prefix string
	if a.Sheet != "" {
		prefix = layout.QuoteSheet(a.Sheet) + "!"
	}
	return prefix + formatCellAddr(a)
}

func (a CellAddr) Range(sheet string) layout.Range {
	pos := a.Position
	if pos.Sheet == "" {
		pos.Sheet = sheet
	}
	return layout.SingleRange(pos)
}

func (a CellAddr) CloneWithOffset(pos layout.Position) Expr {
	x := a
	if !x.AbsRow {
		x.Line += pos.Line
	}
	if !x.AbsCol {
		x.Column += pos.Column
	}
	return x
}

type RangeAddr struct {
	startAddr CellAddr
	endAddr   CellAddr
}

// NewRangeAddr builds a range from its two corners. The corners are
// reordered so the start is always the top left cell of the range.
func NewRangeAddr(start, end CellAddr) Expr {
	end.Sheet = start.Sheet
	if start.Line > end.Line {
		start.Line, end.Line = end.Line, start.Line
		start.AbsRow, end.AbsRow = end.AbsRow, start.AbsRow
	}
	if start.Column > end.Column {
		start.Column, end.Column = end.Column, start.Column
		start.AbsCol, end.AbsCol = end.AbsCol, start.AbsCol
	}
	return RangeAddr{
		startAddr: start,
		endAddr:   end,
	}
}

func (a RangeAddr) StartAt() CellAddr {
	return a.startAddr
}

func (a RangeAddr) EndAt() CellAddr {
	return a.endAddr
}

func (a RangeAddr) Sheet() string {
	return a.startAddr.Sheet
}

func (a RangeAddr) String() string {
	return a.startAddr.String() + ":" + formatCellAddr(a.endAddr)
}

func (a RangeAddr) Range(sheet string) layout.Range {
	starts := a.startAddr.Position
	if starts.Sheet == "" {
		starts.Sheet = sheet
	}
	return layout.NewRange(starts, a.endAddr.Position)
}

func (a RangeAddr) CloneWithOffset(pos layout.Position) Expr {
	return RangeAddr{
		startAddr: a.startAddr.CloneWithOffset(pos).(CellAddr),
		endAddr:   a.endAddr.CloneWithOffset(pos).(CellAddr),
	}
}

func cloneExpr(expr Expr, pos layout.Position) Expr {
	c, ok := expr.(Clonable)
	if !ok {
		return expr
	}
	return c.CloneWithOffset(pos)
}

func formatCellAddr(addr CellAddr) string {
	var buf strings.Builder
	if addr.AbsCol {
		buf.WriteByte('$')
	}
	buf.WriteString(layout.ColumnName(addr.Column))
	if addr.AbsRow {
		buf.WriteByte('$')
	}
	buf.WriteString(strconv.FormatInt(addr.Line, 10))
	return buf.String()
}

func parseCellAddr(addr string) (CellAddr, error) {
	var (
		cell   CellAddr
		offset int
	)
	if offset < len(addr) && addr[offset] == '$' {
		cell.AbsCol = true
		offset++
	}
	col, n := layout.ParseIndex(strings.ToUpper(addr[offset:]))
	if n == 0 {
		return cell, fmt.Errorf("%s: invalid column", addr)
	}
	offset += n
	if offset < len(addr) && addr[offset] == '$' {
		cell.AbsRow = true
		offset++
	}
	row, err := strconv.ParseInt(addr[offset:], 10, 64)
	if err != nil {
		return cell, fmt.Errorf("%s: invalid row", addr)
	}
	cell.Line = row
	cell.Column = col
	if !cell.Valid() {
		return cell, fmt.Errorf("%s: address out of bounds", addr)
	}
	return cell, nil
}
