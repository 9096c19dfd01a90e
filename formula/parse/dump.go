package parse

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/midbel/sheetcalc/formula/op"
)

// DumpExpr gives a textual form of the tree, used to compare trees in tests.
func DumpExpr(expr Expr) string {
	var str strings.Builder
	dumpExpr(&str, expr)
	return str.String()
}

func dumpExpr(w io.Writer, expr Expr) {
	switch e := expr.(type) {
	case Literal:
		fmt.Fprintf(w, "literal(%s)", e.value)
	case Number:
		fmt.Fprintf(w, "number(%s)", strconv.FormatFloat(e.value, 'f', -1, 64))
	case Boolean:
		fmt.Fprintf(w, "boolean(%t)", e.value)
	case ErrorLit:
		fmt.Fprintf(w, "error(%s)", e.value)
	case ArrayLit:
		fmt.Fprintf(w, "array(%s)", e.value)
	case Binary:
		dumpNode(w, "binary", op.Symbol(e.op), e.left, e.right)
	case Unary:
		dumpNode(w, "unary", op.Symbol(e.op), e.expr)
	case Postfix:
		dumpNode(w, "postfix", op.Symbol(e.op), e.expr)
	case Group:
		dumpNode(w, "group", "", e.expr)
	case Call:
		fmt.Fprintf(w, "call(%s, args: ", e.name)
		dumpList(w, e.args)
		io.WriteString(w, ")")
	case Name:
		fmt.Fprintf(w, "name(%s)", e)
	case CellAddr:
		fmt.Fprintf(w, "cell(%s, %t, %t)", e.Position, e.AbsCol, e.AbsRow)
	case RangeAddr:
		dumpNode(w, "range", "", e.startAddr, e.endAddr)
	default:
		io.WriteString(w, "unknown")
	}
}

// dumpNode writes kind(children..., suffix); the suffix is omitted when empty.
func dumpNode(w io.Writer, kind, suffix string, children ...Expr) {
	io.WriteString(w, kind)
	io.WriteString(w, "(")
	dumpList(w, children)
	if suffix != "" {
		io.WriteString(w, ", ")
		io.WriteString(w, suffix)
	}
	io.WriteString(w, ")")
}

func dumpList(w io.Writer, list []Expr) {
	for i := range list {
		if i > 0 {
			io.WriteString(w, ", ")
		}
		dumpExpr(w, list[i])
	}
}
