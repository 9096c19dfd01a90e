package parse

import (
	"fmt"

	"github.com/midbel/sheetcalc/formula/op"
)

type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Literal string
	Type    op.Op
	Position
}

func (t Token) String() string {
	var str string
	switch t.Type {
	case op.Invalid:
		return "<invalid>"
	case op.EOF:
		return "<eof>"
	case op.Ident:
		str = "identifier"
	case op.Sheet:
		str = "sheet"
	case op.Cell:
		str = "cell"
	case op.Number:
		str = "number"
	case op.Literal:
		str = "literal"
	case op.Error:
		str = "error"
	case op.Add:
		return "<add>"
	case op.Sub:
		return "<subtract>"
	case op.Mul:
		return "<multiply>"
	case op.Div:
		return "<divide>"
	case op.Percent:
		return "<percent>"
	case op.Pow:
		return "<power>"
	case op.Concat:
		return "<concat>"
	case op.Eq:
		return "<equal>"
	case op.Ne:
		return "<notequal>"
	case op.Lt:
		return "<lesser>"
	case op.Le:
		return "<lesseq>"
	case op.Gt:
		return "<greater>"
	case op.Ge:
		return "<greateq>"
	case op.Comma:
		return "<comma>"
	case op.Semi:
		return "<semicolon>"
	case op.BegGrp:
		return "<beg-group>"
	case op.EndGrp:
		return "<end-group>"
	case op.BegArr:
		return "<beg-array>"
	case op.EndArr:
		return "<end-array>"
	case op.RangeRef:
		return "<range>"
	case op.SheetRef:
		return "<sheet>"
	}
	return fmt.Sprintf("%s(%s)", str, t.Literal)
}
