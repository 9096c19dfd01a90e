package value

import (
	"testing"

	"github.com/midbel/sheetcalc/layout"
)

func TestNegate(t *testing.T) {
	loc := DefaultLocale()
	tests := []struct {
		Value Value
		Want  Value
	}{
		{Value: Float(2), Want: Float(-2)},
		{Value: Boolean(true), Want: Float(-1)},
		{Value: Boolean(false), Want: Float(0)},
		{Value: Text("1.5"), Want: Float(-1.5)},
		{Value: Text("abc"), Want: ErrValue},
		{Value: ErrDiv0, Want: ErrDiv0},
		{Value: Empty(), Want: Float(0)},
	}
	for _, c := range tests {
		got := Negate(c.Value, loc)
		if got != c.Want {
			t.Errorf("-%s: result mismatched! want %s, got %s", c.Value, c.Want, got)
		}
	}
}

func TestNegateArray(t *testing.T) {
	arr := NewArray([][]ScalarValue{
		{Float(1), Text("x")},
		{ErrNA, Boolean(true)},
	})
	got := Negate(arr, DefaultLocale())
	want := "{-1,#VALUE!;#N/A,-1}"
	if got.String() != want {
		t.Errorf("result mismatched! want %s, got %s", want, got)
	}
}

func TestArithmetic(t *testing.T) {
	loc := DefaultLocale()
	tests := []struct {
		Name  string
		Op    BinaryFunc
		Left  Value
		Right Value
		Want  Value
	}{
		{"add", Add, Float(1), Float(2), Float(3)},
		{"add-text", Add, Text("1"), Float(2), Float(3)},
		{"add-bool", Add, Boolean(true), Boolean(true), Float(2)},
		{"add-blank", Add, Empty(), Float(2), Float(2)},
		{"sub-text", Sub, Float(1), Text("a"), ErrValue},
		{"mul", Mul, Float(3), Float(4), Float(12)},
		{"div", Div, Float(1), Float(4), Float(0.25)},
		{"div-zero", Div, Float(1), Float(0), ErrDiv0},
		{"div-blank", Div, Float(1), Empty(), ErrDiv0},
		{"error-left", Add, ErrNA, ErrDiv0, ErrNA},
		{"error-right", Add, Text("a"), ErrDiv0, ErrValue},
		{"pow", Pow, Float(2), Float(10), Float(1024)},
		{"pow-zero", Pow, Float(0), Float(-1), ErrDiv0},
	}
	for _, c := range tests {
		got := c.Op(c.Left, c.Right, loc)
		if got != c.Want {
			t.Errorf("%s: result mismatched! want %s, got %s", c.Name, c.Want, got)
		}
	}
}

func TestBroadcast(t *testing.T) {
	var (
		loc = DefaultLocale()
		row = NewArray([][]ScalarValue{{Float(1), Float(2), Float(3)}})
		col = NewArray([][]ScalarValue{{Float(10)}, {Float(20)}})
		sq  = NewArray([][]ScalarValue{{Float(1), Float(2)}, {Float(3), Float(4)}})
	)
	tests := []struct {
		Name  string
		Left  Value
		Right Value
		Want  string
	}{
		{"scalar", row, Float(1), "{2,3,4}"},
		{"scalar-left", Float(1), col, "{11;21}"},
		{"row-col", row, col, "{11,12,13;21,22,23}"},
		{"same", sq, sq, "{2,4;6,8}"},
		{"mismatch", sq, row, "{2,4,#N/A;4,6,#N/A}"},
	}
	for _, c := range tests {
		got := Add(c.Left, c.Right, loc)
		if got.String() != c.Want {
			t.Errorf("%s: result mismatched! want %s, got %s", c.Name, c.Want, got)
		}
	}
}

func TestConcat(t *testing.T) {
	var (
		loc   = DefaultLocale()
		comma = Locale{Decimal: ','}
	)
	tests := []struct {
		Left   Value
		Right  Value
		Locale Locale
		Want   Value
	}{
		{Text("a"), Text("b"), loc, Text("ab")},
		{Text("n="), Float(1.5), loc, Text("n=1.5")},
		{Text("n="), Float(1.5), comma, Text("n=1,5")},
		{Boolean(true), Text("!"), loc, Text("TRUE!")},
		{Empty(), Text("x"), loc, Text("x")},
		{ErrNA, Text("x"), loc, ErrNA},
		{Text("x"), ErrRef, loc, ErrRef},
		{NewArray([][]ScalarValue{{Text("a"), Text("b")}}), Text("c"), loc, Text("ac")},
	}
	for _, c := range tests {
		got := Concat(c.Left, c.Right, c.Locale)
		if got != c.Want {
			t.Errorf("%s&%s: result mismatched! want %s, got %s", c.Left, c.Right, c.Want, got)
		}
	}
}

func TestCompare(t *testing.T) {
	loc := DefaultLocale()
	tests := []struct {
		Name  string
		Op    BinaryFunc
		Left  Value
		Right Value
		Want  Value
	}{
		{"blank-false", Equal, Empty(), Boolean(false), Boolean(true)},
		{"blank-zero", Equal, Empty(), Float(0), Boolean(true)},
		{"blank-text", Equal, Empty(), Text(""), Boolean(true)},
		{"false-blank", Equal, Boolean(false), Empty(), Boolean(true)},
		{"blank-blank", Equal, Empty(), Empty(), Boolean(true)},
		{"case", Equal, Text("ABC"), Text("abc"), Boolean(true)},
		{"text-order", Less, Text("abc"), Text("ABD"), Boolean(true)},
		{"logical-text", Greater, Boolean(false), Text("zzz"), Boolean(true)},
		{"text-number", Greater, Text("1"), Float(1000), Boolean(true)},
		{"number-text", Less, Float(1000), Text("a"), Boolean(true)},
		{"numbers", GreaterEqual, Float(2), Float(2), Boolean(true)},
		{"not-equal", NotEqual, Float(2), Text("2"), Boolean(true)},
		{"error", Equal, ErrNA, ErrNA, ErrValue},
		{"error-right", LessEqual, Float(1), ErrDiv0, ErrValue},
	}
	for _, c := range tests {
		got := c.Op(c.Left, c.Right, loc)
		if got != c.Want {
			t.Errorf("%s: result mismatched! want %s, got %s", c.Name, c.Want, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		Input  string
		Locale Locale
		Want   float64
		Ok     bool
	}{
		{"42", DefaultLocale(), 42, true},
		{" -1.5 ", DefaultLocale(), -1.5, true},
		{"1,234.5", DefaultLocale(), 1234.5, true},
		{"1e3", DefaultLocale(), 1000, true},
		{"50%", DefaultLocale(), 0.5, true},
		{"1,5", Locale{Decimal: ',', Group: '.'}, 1.5, true},
		{"", DefaultLocale(), 0, false},
		{"abc", DefaultLocale(), 0, false},
		{"Inf", DefaultLocale(), 0, false},
		{"0x10", DefaultLocale(), 0, false},
	}
	for _, c := range tests {
		got, ok := c.Locale.ParseNumber(c.Input)
		if ok != c.Ok {
			t.Errorf("%q: parse status mismatched! want %t, got %t", c.Input, c.Ok, ok)
			continue
		}
		if got != c.Want {
			t.Errorf("%q: number mismatched! want %f, got %f", c.Input, c.Want, got)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		Value float64
		Want  string
	}{
		{0, "0"},
		{1, "1"},
		{-2.5, "-2.5"},
		{0.1 + 0.2, "0.3"},
		{1e20, "1E+20"},
	}
	for _, c := range tests {
		got := Float(c.Value).String()
		if got != c.Want {
			t.Errorf("%v: text mismatched! want %s, got %s", c.Value, c.Want, got)
		}
	}
}

func TestParseError(t *testing.T) {
	for _, code := range []string{"#N/A", "#div/0!", "#REF!", "#CIRC!"} {
		if _, ok := ParseError(code); !ok {
			t.Errorf("%s: error not recognized", code)
		}
	}
	if _, ok := ParseError("#FOO!"); ok {
		t.Errorf("#FOO!: unexpected error recognized")
	}
}

func TestArrayShape(t *testing.T) {
	arr := MakeArray(layout.Dimension{Lines: 2, Columns: 3}, func(row, col int) ScalarValue {
		return Float(row*3 + col)
	})
	if dim := arr.Dimension(); dim.Lines != 2 || dim.Columns != 3 {
		t.Errorf("dimension mismatched! want 2x3, got %dx%d", dim.Lines, dim.Columns)
	}
	if v := arr.At(1, 2); v != Float(5) {
		t.Errorf("value mismatched! want 5, got %s", v)
	}
	if v := arr.At(2, 0); v != nil {
		t.Errorf("out of bounds access should return nil, got %s", v)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("ragged array should panic")
		}
	}()
	NewArray([][]ScalarValue{{Float(1)}, {Float(1), Float(2)}})
}

func TestEqualText(t *testing.T) {
	turkish, err := NewLocale("tr-TR", ',', '.')
	if err != nil {
		t.Fatalf("fail to create locale: %s", err)
	}
	tests := []struct {
		Locale Locale
		Left   string
		Right  string
		Want   bool
	}{
		{Locale: DefaultLocale(), Left: "Straße", Right: "STRASSE", Want: true},
		{Locale: DefaultLocale(), Left: "I", Right: "i", Want: true},
		{Locale: DefaultLocale(), Left: "I", Right: "ı", Want: false},
		{Locale: turkish, Left: "I", Right: "ı", Want: true},
		{Locale: turkish, Left: "İ", Right: "i", Want: true},
		{Locale: turkish, Left: "I", Right: "i", Want: false},
	}
	for _, c := range tests {
		got := c.Locale.EqualText(c.Left, c.Right)
		if got != c.Want {
			t.Errorf("%s: %q = %q: want %t, got %t", c.Locale.Tag, c.Left, c.Right, c.Want, got)
		}
	}
}
