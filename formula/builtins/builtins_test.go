package builtins

import (
	"errors"
	"testing"

	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

type testEnv struct{}

func (testEnv) Anchor() layout.Position {
	return layout.Position{Sheet: "Sheet1", Line: 3, Column: 2}
}

func (testEnv) Locale() value.Locale {
	return value.DefaultLocale()
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("double", 1, 1, func(_ Env, args []value.Value) value.Value {
		return value.Mul(args[0], value.Float(2), value.DefaultLocale())
	})
	b, err := r.Resolve("DOUBLE")
	if err != nil {
		t.Fatalf("function should be resolved: %s", err)
	}
	if got := b.Call(testEnv{}, []value.Value{value.Float(2)}); got != value.Float(4) {
		t.Errorf("unexpected result: want 4, got %s", got)
	}
	if got := b.Call(testEnv{}, nil); got != value.ErrValue {
		t.Errorf("arity check failed: want #VALUE!, got %s", got)
	}
	r.Register("Double", 0, 1, func(_ Env, _ []value.Value) value.Value {
		return value.Float(0)
	}, Volatile)
	b, _ = r.Resolve("double")
	if b.Min != 0 || !b.Is(Volatile) {
		t.Errorf("function has not been overwritten")
	}
	if _, err := r.Resolve("triple"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ErrNotFound expected, got %v", err)
	}
}

func TestBuiltins(t *testing.T) {
	var (
		column = value.NewArray([][]value.ScalarValue{
			{value.Float(1)},
			{value.Text("x")},
			{value.Float(3)},
			{value.Empty()},
			{value.Boolean(true)},
		})
		faulty = value.NewArray([][]value.ScalarValue{
			{value.Float(-2), value.ErrName, value.Float(2)},
		})
		names = value.NewArray([][]value.ScalarValue{
			{value.Text("apple")},
			{value.Text("avocado")},
			{value.Text("banana")},
		})
		prices = value.NewArray([][]value.ScalarValue{
			{value.Float(10)},
			{value.Float(20)},
			{value.Float(30)},
		})
	)
	tests := []struct {
		Name string
		Args []value.Value
		Want value.Value
	}{
		{Name: "SUM", Args: []value.Value{column, value.Text("2")}, Want: value.Float(6)},
		{Name: "SUM", Args: []value.Value{faulty}, Want: value.ErrName},
		{Name: "AVERAGE", Args: []value.Value{column}, Want: value.Float(2)},
		{Name: "AVERAGE", Args: []value.Value{faulty}, Want: value.ErrName},
		{Name: "AVERAGE", Args: []value.Value{names}, Want: value.ErrDiv0},
		{Name: "MIN", Args: []value.Value{column, value.Float(-1)}, Want: value.Float(-1)},
		{Name: "MAX", Args: []value.Value{column}, Want: value.Float(3)},
		{Name: "PRODUCT", Args: []value.Value{column, value.Float(2)}, Want: value.Float(6)},
		{Name: "COUNT", Args: []value.Value{column, value.ErrNA}, Want: value.Float(2)},
		{Name: "COUNTA", Args: []value.Value{column}, Want: value.Float(4)},
		{Name: "SUMIF", Args: []value.Value{names, value.Text("a*"), prices}, Want: value.Float(30)},
		{Name: "SUMIF", Args: []value.Value{prices, value.Text(">15")}, Want: value.Float(50)},
		{Name: "COUNTIF", Args: []value.Value{names, value.Text("<>banana")}, Want: value.Float(2)},
		{Name: "COUNTIF", Args: []value.Value{prices, value.Float(20)}, Want: value.Float(1)},
		{Name: "AVERAGEIF", Args: []value.Value{names, value.Text("?pple"), prices}, Want: value.Float(10)},
		{Name: "SIGN", Args: []value.Value{value.Float(-3)}, Want: value.Float(-1)},
		{Name: "ABS", Args: []value.Value{value.Text("-3")}, Want: value.Float(3)},
		{Name: "ROUND", Args: []value.Value{value.Float(3.14159), value.Float(2)}, Want: value.Float(3.14)},
		{Name: "INT", Args: []value.Value{value.Float(-1.5)}, Want: value.Float(-2)},
		{Name: "MOD", Args: []value.Value{value.Float(-3), value.Float(2)}, Want: value.Float(1)},
		{Name: "MOD", Args: []value.Value{value.Float(3), value.Float(0)}, Want: value.ErrDiv0},
		{Name: "SQRT", Args: []value.Value{value.Float(-1)}, Want: value.ErrNum},
		{Name: "POWER", Args: []value.Value{value.Float(2), value.Float(10)}, Want: value.Float(1024)},
		{Name: "LEN", Args: []value.Value{value.Text("héllo")}, Want: value.Float(5)},
		{Name: "UPPER", Args: []value.Value{value.Text("abc")}, Want: value.Text("ABC")},
		{Name: "TRIM", Args: []value.Value{value.Text("  a   b ")}, Want: value.Text("a b")},
		{Name: "CONCATENATE", Args: []value.Value{value.Text("a"), value.Float(1), value.Boolean(true)}, Want: value.Text("a1TRUE")},
		{Name: "LEFT", Args: []value.Value{value.Text("hello")}, Want: value.Text("h")},
		{Name: "RIGHT", Args: []value.Value{value.Text("hello"), value.Float(3)}, Want: value.Text("llo")},
		{Name: "MID", Args: []value.Value{value.Text("hello"), value.Float(2), value.Float(10)}, Want: value.Text("ello")},
		{Name: "EXACT", Args: []value.Value{value.Text("a"), value.Text("A")}, Want: value.Boolean(false)},
		{Name: "SEARCH", Args: []value.Value{value.Text("W?rld"), value.Text("hello world")}, Want: value.Float(7)},
		{Name: "SEARCH", Args: []value.Value{value.Text("z"), value.Text("hello")}, Want: value.ErrValue},
		{Name: "REPT", Args: []value.Value{value.Text("ab"), value.Float(3)}, Want: value.Text("ababab")},
		{Name: "IF", Args: []value.Value{value.Boolean(true), value.Float(1), value.Float(2)}, Want: value.Float(1)},
		{Name: "IF", Args: []value.Value{value.Float(0), value.Float(1)}, Want: value.Boolean(false)},
		{Name: "IF", Args: []value.Value{value.ErrNA, value.Float(1)}, Want: value.ErrNA},
		{Name: "NOT", Args: []value.Value{value.Boolean(true)}, Want: value.Boolean(false)},
		{Name: "AND", Args: []value.Value{value.Boolean(true), column}, Want: value.Boolean(true)},
		{Name: "OR", Args: []value.Value{value.Boolean(false), value.Float(0)}, Want: value.Boolean(false)},
		{Name: "OR", Args: []value.Value{names}, Want: value.ErrValue},
		{Name: "IFERROR", Args: []value.Value{value.ErrDiv0, value.Float(0)}, Want: value.Float(0)},
		{Name: "IFNA", Args: []value.Value{value.ErrDiv0, value.Float(0)}, Want: value.ErrDiv0},
		{Name: "ISERROR", Args: []value.Value{value.ErrRef}, Want: value.Boolean(true)},
		{Name: "ISNA", Args: []value.Value{value.ErrNA}, Want: value.Boolean(true)},
		{Name: "ISBLANK", Args: []value.Value{value.Empty()}, Want: value.Boolean(true)},
		{Name: "ISNUMBER", Args: []value.Value{value.Text("1")}, Want: value.Boolean(false)},
		{Name: "ISTEXT", Args: []value.Value{value.Text("1")}, Want: value.Boolean(true)},
		{Name: "NA", Want: value.ErrNA},
		{Name: "ROW", Want: value.Float(3)},
		{Name: "COLUMN", Want: value.Float(2)},
		{Name: "ROW", Args: []value.Value{value.NewReference(layout.RangeFromString("C5:D9"))}, Want: value.Float(5)},
		{Name: "ROWS", Args: []value.Value{value.NewReference(layout.RangeFromString("C5:D9"))}, Want: value.Float(5)},
		{Name: "COLUMNS", Args: []value.Value{faulty}, Want: value.Float(3)},
	}
	reg := Default()
	for _, c := range tests {
		b, err := reg.Resolve(c.Name)
		if err != nil {
			t.Errorf("%s: function not found", c.Name)
			continue
		}
		got := b.Call(testEnv{}, c.Args)
		if got != c.Want {
			t.Errorf("%s(%v): result mismatched! want %s, got %s", c.Name, c.Args, c.Want, got)
		}
	}
}

func TestRand(t *testing.T) {
	b, err := Default().Resolve("rand")
	if err != nil {
		t.Fatalf("RAND not found")
	}
	if !b.Is(Volatile) {
		t.Errorf("RAND should be volatile")
	}
	f, ok := b.Call(testEnv{}, nil).(value.Float)
	if !ok || f < 0 || f >= 1 {
		t.Errorf("RAND result out of range: %v", f)
	}
}
