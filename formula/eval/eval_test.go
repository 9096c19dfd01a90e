package eval

import (
	"testing"

	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/formula/parse"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

type testContext struct {
	anchor   layout.Position
	cells    map[string]value.ScalarValue
	names    map[string][]layout.Range
	registry *builtins.Registry
}

func createContext(anchor string) testContext {
	cells := map[string]value.ScalarValue{
		"Sheet1!A1": value.Float(-2),
		"Sheet1!A2": value.ErrName,
		"Sheet1!A3": value.Float(2),
		"Sheet1!B1": value.Float(1),
		"Sheet1!B2": value.Float(2),
		"Sheet1!B3": value.Float(3),
		"Sheet1!D1": value.Float(4),
		"Sheet1!E1": value.Float(5),
		"Sheet1!F1": value.Float(6),
		"Sheet1!G1": value.Text("foo"),
		"Sheet2!A1": value.Float(10),
	}
	names := map[string][]layout.Range{
		"RATE":   {layout.RangeFromString("Sheet2!A1")},
		"VALUES": {layout.RangeFromString("Sheet1!B1:B3")},
	}
	pos := layout.ParsePosition(anchor)
	pos.Sheet = "Sheet1"
	return testContext{
		anchor:   pos,
		cells:    cells,
		names:    names,
		registry: builtins.Default(),
	}
}

func (c testContext) Anchor() layout.Position {
	return c.anchor
}

func (c testContext) Locale() value.Locale {
	return value.DefaultLocale()
}

func (c testContext) Cell(pos layout.Position) value.ScalarValue {
	v, ok := c.cells[pos.String()]
	if !ok {
		return value.Empty()
	}
	return v
}

func (c testContext) Exists(sheet string) bool {
	return sheet == "Sheet1" || sheet == "Sheet2"
}

func (c testContext) Name(_, ident string) ([]layout.Range, bool) {
	areas, ok := c.names[ident]
	return areas, ok
}

func (c testContext) Func(name string) (builtins.Builtin, error) {
	return c.registry.Resolve(name)
}

func TestEval(t *testing.T) {
	tests := []struct {
		Expr   string
		Anchor string
		Want   value.ScalarValue
	}{
		{Expr: "=1+2*3", Want: value.Float(7)},
		{Expr: "=-2^2", Want: value.Float(4)},
		{Expr: "=50%", Want: value.Float(0.5)},
		{Expr: "=B1+B2", Want: value.Float(3)},
		{Expr: "=Sheet2!A1*2", Want: value.Float(20)},
		{Expr: "=Sheet3!A1", Want: value.ErrRef},
		{Expr: "=RATE+1", Want: value.Float(11)},
		{Expr: "=UNKNOWN", Want: value.ErrName},
		{Expr: "=H9", Want: value.Float(0)},
		{Expr: "=H9=FALSE", Want: value.Boolean(true)},
		{Expr: "=H9=0", Want: value.Boolean(true)},
		{Expr: `=H9=""`, Want: value.Boolean(true)},
		{Expr: `=TRUE>"zzz"`, Want: value.Boolean(true)},
		{Expr: `="a">99`, Want: value.Boolean(true)},
		{Expr: "=A2=A2", Want: value.ErrValue},
		{Expr: `="a"&1&TRUE`, Want: value.Text("a1TRUE")},
		{Expr: "=G1&A2", Want: value.ErrName},
		{Expr: "=1+#N/A", Want: value.ErrNA},
		{Expr: "=1/0", Want: value.ErrDiv0},
		{Expr: "=IFERROR(1/0, 5)", Want: value.Float(5)},
		{Expr: "=ISERROR(A2)", Want: value.Boolean(true)},
		{Expr: "=SUM(A1:B3)", Want: value.ErrName},
		{Expr: "=SUM(B1:B3, VALUES)", Want: value.Float(12)},
		{Expr: "=SUM()", Want: value.ErrValue},
		{Expr: "=ABS(1, 2)", Want: value.ErrValue},
		{Expr: "=FOO(1)", Want: value.ErrName},
		{Expr: "=ROW()", Anchor: "C7", Want: value.Float(7)},
		{Expr: "=ROWS(B1:F3)", Want: value.Float(3)},
		{Expr: "={1,2;3,4}*10", Want: value.Float(10)},
		{Expr: "=B1:B3*10", Anchor: "C2", Want: value.Float(20)},
		{Expr: "=B1:B3*10", Anchor: "C5", Want: value.ErrValue},
		{Expr: "=D1:F1", Anchor: "E7", Want: value.Float(5)},
		{Expr: "=B1:E3", Anchor: "D2", Want: value.Empty()},
		{Expr: "=B1:E3", Anchor: "B3", Want: value.Float(3)},
		{Expr: "=B1:E3", Anchor: "A2", Want: value.ErrValue},
	}
	for _, c := range tests {
		expr, err := parse.ParseFormula(c.Expr)
		if err != nil {
			t.Errorf("%s: fail to parse formula: %s", c.Expr, err)
			continue
		}
		anchor := c.Anchor
		if anchor == "" {
			anchor = "C1"
		}
		got := Eval(expr, createContext(anchor))
		want := cellValue(c.Want)
		if got != want {
			t.Errorf("%s (%s): result mismatched! want %s, got %s", c.Expr, anchor, want, got)
		}
	}
}

func TestEvaluateArray(t *testing.T) {
	tests := []struct {
		Expr string
		Dim  layout.Dimension
		Want string
	}{
		{
			Expr: "=42",
			Dim:  layout.Dimension{Lines: 2, Columns: 2},
			Want: "{42,42;42,42}",
		},
		{
			Expr: "={1,2}",
			Dim:  layout.Dimension{Lines: 3, Columns: 3},
			Want: "{1,2,#N/A;1,2,#N/A;1,2,#N/A}",
		},
		{
			Expr: "={1;2}",
			Dim:  layout.Dimension{Lines: 3, Columns: 2},
			Want: "{1,1;2,2;#N/A,#N/A}",
		},
		{
			Expr: "={1,2;3,4}",
			Dim:  layout.Dimension{Lines: 3, Columns: 3},
			Want: "{1,2,#N/A;3,4,#N/A;#N/A,#N/A,#N/A}",
		},
		{
			Expr: "={1,2,3;4,5,6;7,8,9}",
			Dim:  layout.Dimension{Lines: 2, Columns: 2},
			Want: "{1,2;4,5}",
		},
		{
			Expr: "=B1:B3*10",
			Dim:  layout.Dimension{Lines: 3, Columns: 1},
			Want: "{10;20;30}",
		},
		{
			Expr: "=SIGN(A1:A3)",
			Dim:  layout.Dimension{Lines: 3, Columns: 1},
			Want: "{-1;#NAME?;1}",
		},
		{
			Expr: "=AVERAGE(A1:A3)",
			Dim:  layout.Dimension{Lines: 3, Columns: 1},
			Want: "{#NAME?;#NAME?;#NAME?}",
		},
		{
			Expr: "=AVERAGE(B1:B3)",
			Dim:  layout.Dimension{Lines: 3, Columns: 1},
			Want: "{2;2;2}",
		},
		{
			Expr: "=B1:B3+D1:F1",
			Dim:  layout.Dimension{Lines: 3, Columns: 3},
			Want: "{5,6,7;6,7,8;7,8,9}",
		},
		{
			Expr: "=H1:H2",
			Dim:  layout.Dimension{Lines: 2, Columns: 1},
			Want: "{0;0}",
		},
	}
	for _, c := range tests {
		expr, err := parse.ParseFormula(c.Expr)
		if err != nil {
			t.Errorf("%s: fail to parse formula: %s", c.Expr, err)
			continue
		}
		got := EvaluateArray(expr, createContext("C1"), c.Dim)
		if got.String() != c.Want {
			t.Errorf("%s: result mismatched! want %s, got %s", c.Expr, c.Want, got)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		Expr string
		Want string
	}{
		{
			Expr: "=1+2*3",
			Want: "number(7)",
		},
		{
			Expr: "=A1+(1+2)",
			Want: "binary(cell(A1, false, false), number(3), +)",
		},
		{
			Expr: "=SUM(1, 2, -3^2)",
			Want: "number(12)",
		},
		{
			Expr: "=1/0",
			Want: "error(#DIV/0!)",
		},
		{
			Expr: "={1,2}*2",
			Want: "array({2,4})",
		},
		{
			Expr: "=RAND()+1",
			Want: "binary(call(RAND, args: ), number(1), +)",
		},
		{
			Expr: "=ROW()",
			Want: "call(ROW, args: )",
		},
		{
			Expr: `="a"&1`,
			Want: "binary(literal(a), number(1), &)",
		},
		{
			Expr: "=FOO(1+1)",
			Want: "call(FOO, args: number(2))",
		},
		{
			Expr: "=SUM(A1, 2*2)",
			Want: "call(SUM, args: cell(A1, false, false), number(4))",
		},
	}
	reg := builtins.Default()
	for _, c := range tests {
		expr, err := parse.ParseFormula(c.Expr)
		if err != nil {
			t.Errorf("%s: fail to parse formula: %s", c.Expr, err)
			continue
		}
		got := parse.DumpExpr(Fold(expr, reg))
		if got != c.Want {
			t.Errorf("%s: folded ast mismatched! want %s, got %s", c.Expr, c.Want, got)
		}
	}
}

func TestIsVolatile(t *testing.T) {
	reg := builtins.Default()
	for str, want := range map[string]bool{
		"=RAND()*10":          true,
		"=SUM(1,RAND())":      true,
		"=SUM(RAND(),ABS(1))": true,
		"=SUM(A1:A3)":         false,
	} {
		expr, err := parse.ParseFormula(str)
		if err != nil {
			t.Errorf("%s: fail to parse formula: %s", str, err)
			continue
		}
		if got := IsVolatile(expr, reg); got != want {
			t.Errorf("%s: volatile mismatched! want %t, got %t", str, want, got)
		}
	}
}
