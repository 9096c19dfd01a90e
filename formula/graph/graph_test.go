package graph

import (
	"errors"
	"testing"

	"github.com/midbel/sheetcalc/formula"
	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/formula/eval"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

type testBook struct {
	graph    *Graph
	cells    map[layout.Position]value.ScalarValue
	sheets   map[string]bool
	names    map[string][]layout.Range
	registry *builtins.Registry
	dirtied  map[string]int
}

func createBook(sheets ...string) *testBook {
	b := testBook{
		cells:    make(map[layout.Position]value.ScalarValue),
		sheets:   make(map[string]bool),
		names:    make(map[string][]layout.Range),
		registry: builtins.Default(),
		dirtied:  make(map[string]int),
	}
	for _, s := range sheets {
		b.sheets[s] = true
	}
	b.graph = New(&b, OnDirty(func(n *Node) {
		b.dirtied[n.Area.String()]++
	}))
	return &b
}

func (b *testBook) Context(anchor layout.Position) eval.Context {
	return bookContext{
		testBook: b,
		anchor:   anchor,
	}
}

func (b *testBook) set(t *testing.T, addr string, v value.ScalarValue) {
	t.Helper()
	pos := layout.ParsePosition(addr)
	b.cells[pos] = v
	b.graph.Changed(layout.SingleRange(pos))
}

func (b *testBook) formula(t *testing.T, addr, str string) {
	t.Helper()
	f, err := formula.Parse(str, b.registry)
	if err != nil {
		t.Fatalf("%s: fail to parse formula: %s", str, err)
	}
	if _, err := b.graph.Set(layout.RangeFromString(addr), f, false); err != nil {
		t.Fatalf("%s: fail to set formula: %s", addr, err)
	}
}

func (b *testBook) array(t *testing.T, addr, str string) {
	t.Helper()
	f, err := formula.Parse(str, b.registry)
	if err != nil {
		t.Fatalf("%s: fail to parse formula: %s", str, err)
	}
	if _, err := b.graph.Set(layout.RangeFromString(addr), f, true); err != nil {
		t.Fatalf("%s: fail to set array formula: %s", addr, err)
	}
}

func (b *testBook) value(addr string) value.ScalarValue {
	v, ok := b.graph.Value(layout.ParsePosition(addr))
	if !ok {
		return b.cells[layout.ParsePosition(addr)]
	}
	return v
}

type bookContext struct {
	*testBook
	anchor layout.Position
}

func (c bookContext) Anchor() layout.Position {
	return c.anchor
}

func (c bookContext) Locale() value.Locale {
	return value.DefaultLocale()
}

func (c bookContext) Cell(pos layout.Position) value.ScalarValue {
	if v, ok := c.graph.Value(pos); ok {
		return v
	}
	if v, ok := c.cells[pos]; ok {
		return v
	}
	return value.Empty()
}

func (c bookContext) Exists(sheet string) bool {
	return c.sheets[sheet]
}

func (c bookContext) Name(_, ident string) ([]layout.Range, bool) {
	list, ok := c.names[ident]
	return list, ok
}

func (c bookContext) Func(name string) (builtins.Builtin, error) {
	return c.registry.Resolve(name)
}

func TestLazyRecalc(t *testing.T) {
	b := createBook("Sheet1")
	b.set(t, "Sheet1!A1", value.Float(1))
	b.set(t, "Sheet1!A2", value.Float(2))
	b.formula(t, "Sheet1!B1", "=SUM(A1:A2)")
	b.formula(t, "Sheet1!C1", "=B1*10")

	if got := b.value("Sheet1!C1"); got != value.Float(30) {
		t.Fatalf("C1: want 30, got %s", got)
	}
	if b.graph.IsDirty(layout.ParsePosition("Sheet1!B1")) {
		t.Errorf("B1 should be clean after C1 has been computed")
	}
	b.set(t, "Sheet1!A5", value.Float(100))
	if b.graph.IsDirty(layout.ParsePosition("Sheet1!C1")) {
		t.Errorf("C1 should stay clean after an unrelated change")
	}
	b.set(t, "Sheet1!A2", value.Float(5))
	for _, addr := range []string{"Sheet1!B1", "Sheet1!C1"} {
		if !b.graph.IsDirty(layout.ParsePosition(addr)) {
			t.Errorf("%s should be dirty after a precedent changed", addr)
		}
	}
	if got, _ := b.graph.Cached(layout.ParsePosition("Sheet1!C1")); got != value.Float(30) {
		t.Errorf("C1: cached value should not be recomputed, got %s", got)
	}
	if got := b.value("Sheet1!C1"); got != value.Float(60) {
		t.Errorf("C1: want 60, got %s", got)
	}
}

func TestInsertRows(t *testing.T) {
	b := createBook("Sheet1", "Sheet2")
	b.set(t, "Sheet1!A3", value.Float(7))
	b.formula(t, "Sheet1!C1", "=A3*2")
	b.formula(t, "Sheet2!A1", "=Sheet1!A3+Sheet1!C1")
	b.formula(t, "Sheet1!D1", "=1+1")

	b.value("Sheet2!A1")
	b.value("Sheet1!D1")
	clear(b.dirtied)

	edit := layout.Edit{
		Kind:  layout.InsertRows,
		Sheet: "Sheet1",
		At:    2,
		Count: 2,
	}
	delete(b.cells, layout.ParsePosition("Sheet1!A3"))
	b.cells[layout.ParsePosition("Sheet1!A5")] = value.Float(7)
	if err := b.graph.NotifyStructuralEdit(edit); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	tests := []struct {
		Addr    string
		Formula string
	}{
		{Addr: "Sheet1!C1", Formula: "=A5*2"},
		{Addr: "Sheet2!A1", Formula: "=Sheet1!A5+Sheet1!C1"},
	}
	for _, c := range tests {
		n, ok := b.graph.Node(layout.ParsePosition(c.Addr))
		if !ok {
			t.Errorf("%s: formula not found", c.Addr)
			continue
		}
		if got := n.Formula.String(); got != c.Formula {
			t.Errorf("%s: formula mismatched! want %s, got %s", c.Addr, c.Formula, got)
		}
		if n := b.dirtied[c.Addr]; n != 1 {
			t.Errorf("%s: expected to be marked dirty once, got %d", c.Addr, n)
		}
	}
	if b.graph.IsDirty(layout.ParsePosition("Sheet1!D1")) {
		t.Errorf("D1 should stay clean")
	}
	if got := b.value("Sheet2!A1"); got != value.Float(21) {
		t.Errorf("Sheet2!A1: want 21, got %s", got)
	}
}

func TestDeleteRows(t *testing.T) {
	b := createBook("Sheet1")
	b.set(t, "Sheet1!A1", value.Float(1))
	b.set(t, "Sheet1!A2", value.Float(2))
	b.set(t, "Sheet1!A3", value.Float(3))
	b.formula(t, "Sheet1!B5", "=SUM(A1:A3)")
	b.formula(t, "Sheet1!C5", "=A2")
	b.formula(t, "Sheet1!B2", "=A1")

	edit := layout.Edit{
		Kind:  layout.DeleteRows,
		Sheet: "Sheet1",
		At:    2,
		Count: 1,
	}
	if err := b.graph.NotifyStructuralEdit(edit); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, ok := b.graph.Node(layout.ParsePosition("Sheet1!B2")); ok {
		t.Errorf("formula of a deleted row should be removed")
	}
	tests := []struct {
		Addr    string
		Formula string
	}{
		{Addr: "Sheet1!B4", Formula: "=SUM(A1:A2)"},
		{Addr: "Sheet1!C4", Formula: "=#REF!"},
	}
	for _, c := range tests {
		n, ok := b.graph.Node(layout.ParsePosition(c.Addr))
		if !ok {
			t.Errorf("%s: formula not found", c.Addr)
			continue
		}
		if got := n.Formula.String(); got != c.Formula {
			t.Errorf("%s: formula mismatched! want %s, got %s", c.Addr, c.Formula, got)
		}
	}
	if got := b.value("Sheet1!C4"); got != value.ErrRef {
		t.Errorf("C4: want #REF!, got %s", got)
	}
}

func TestArrayFormula(t *testing.T) {
	b := createBook("Sheet1")
	b.set(t, "Sheet1!A1", value.Float(1))
	b.set(t, "Sheet1!A2", value.Float(2))
	b.array(t, "Sheet1!B1:B3", "=A1:A2*2")

	want := []value.ScalarValue{value.Float(2), value.Float(4), value.ErrNA}
	for i, addr := range []string{"Sheet1!B1", "Sheet1!B2", "Sheet1!B3"} {
		if got := b.value(addr); got != want[i] {
			t.Errorf("%s: want %s, got %s", addr, want[i], got)
		}
	}
	f, _ := formula.Parse("=1", b.registry)
	if _, err := b.graph.Set(layout.RangeFromString("Sheet1!B2"), f, false); !errors.Is(err, ErrPartialArray) {
		t.Errorf("expected partial array error, got %v", err)
	}
	edit := layout.Edit{
		Kind:  layout.InsertRows,
		Sheet: "Sheet1",
		At:    2,
		Count: 1,
	}
	if err := b.graph.NotifyStructuralEdit(edit); !errors.Is(err, ErrPartialArray) {
		t.Errorf("expected partial array error, got %v", err)
	}
	edit.At = 1
	if err := b.graph.NotifyStructuralEdit(edit); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	if _, ok := b.graph.Node(layout.ParsePosition("Sheet1!B4")); !ok {
		t.Errorf("array formula should have been moved")
	}
}

func TestCycle(t *testing.T) {
	b := createBook("Sheet1")
	b.formula(t, "Sheet1!A1", "=B1+1")
	b.formula(t, "Sheet1!B1", "=IFERROR(A1, 0)")
	b.formula(t, "Sheet1!C1", "=ISERROR(A1)")
	b.formula(t, "Sheet1!D1", "=D1")

	for _, addr := range []string{"Sheet1!A1", "Sheet1!B1", "Sheet1!D1"} {
		if got := b.value(addr); got != value.ErrCircular {
			t.Errorf("%s: want %s, got %s", addr, value.ErrCircular, got)
		}
	}
	if got := b.value("Sheet1!C1"); got != value.Boolean(true) {
		t.Errorf("C1: want TRUE, got %s", got)
	}
	b.formula(t, "Sheet1!B1", "=5")
	if got := b.value("Sheet1!A1"); got != value.Float(6) {
		t.Errorf("A1: want 6 once the cycle is broken, got %s", got)
	}
}

func TestSheetEvents(t *testing.T) {
	b := createBook("Sheet1", "Data")
	b.set(t, "Data!A1", value.Float(3))
	b.formula(t, "Sheet1!A1", "=Data!A1*2")

	if got := b.value("Sheet1!A1"); got != value.Float(6) {
		t.Fatalf("A1: want 6, got %s", got)
	}
	delete(b.sheets, "Data")
	delete(b.cells, layout.ParsePosition("Data!A1"))
	b.graph.SheetRemoved("Data")
	if got := b.value("Sheet1!A1"); got != value.ErrRef {
		t.Errorf("A1: want #REF! after sheet removed, got %s", got)
	}

	b.sheets["Data"] = true
	b.cells[layout.ParsePosition("Data!A1")] = value.Float(4)
	b.graph.SheetAdded("Data")
	if got := b.value("Sheet1!A1"); got != value.Float(8) {
		t.Errorf("A1: want 8 after sheet added, got %s", got)
	}

	delete(b.sheets, "Data")
	b.sheets["Input"] = true
	b.cells[layout.ParsePosition("Input!A1")] = value.Float(4)
	b.graph.SheetRenamed("Data", "Input")
	n, _ := b.graph.Node(layout.ParsePosition("Sheet1!A1"))
	if got := n.Formula.String(); got != "=Input!A1*2" {
		t.Errorf("formula not renamed: %s", got)
	}
	if got := b.value("Sheet1!A1"); got != value.Float(8) {
		t.Errorf("A1: want 8 after sheet renamed, got %s", got)
	}
}

func TestNames(t *testing.T) {
	b := createBook("Sheet1")
	b.set(t, "Sheet1!A1", value.Float(1))
	b.set(t, "Sheet1!A2", value.Float(2))
	b.names["TOTAL"] = []layout.Range{layout.RangeFromString("Sheet1!A1:A2")}
	b.formula(t, "Sheet1!B1", "=SUM(TOTAL)")

	if got := b.value("Sheet1!B1"); got != value.Float(3) {
		t.Fatalf("B1: want 3, got %s", got)
	}
	b.set(t, "Sheet1!A2", value.Float(5))
	if got := b.value("Sheet1!B1"); got != value.Float(6) {
		t.Errorf("B1: want 6, got %s", got)
	}
	b.set(t, "Sheet1!A3", value.Float(10))
	b.names["TOTAL"] = []layout.Range{layout.RangeFromString("Sheet1!A1:A3")}
	b.graph.NameChanged("total")
	if got := b.value("Sheet1!B1"); got != value.Float(16) {
		t.Errorf("B1: want 16, got %s", got)
	}
}

func TestVolatile(t *testing.T) {
	b := createBook("Sheet1")
	b.formula(t, "Sheet1!A1", "=RAND()")
	b.formula(t, "Sheet1!B1", "=A1")
	b.formula(t, "Sheet1!C1", "=B1*2")

	n, _ := b.graph.Node(layout.ParsePosition("Sheet1!A1"))
	if !n.Formula.Volatile() {
		t.Fatalf("RAND formula should be volatile")
	}
	check := func(step string) {
		t.Helper()
		var (
			dep  = b.value("Sheet1!B1")
			rand = b.value("Sheet1!A1")
			last = b.value("Sheet1!C1")
		)
		if dep != rand {
			t.Errorf("%s: B1 mismatched! want %s, got %s", step, rand, dep)
		}
		if f, ok := rand.(value.Float); !ok || last != value.Float(f*2) {
			t.Errorf("%s: C1 mismatched! want twice %s, got %s", step, rand, last)
		}
		if again := b.value("Sheet1!A1"); again != rand {
			t.Errorf("%s: A1 changed between reads: %s then %s", step, rand, again)
		}
		if n.Dirty() {
			t.Errorf("%s: volatile node is clean once computed", step)
		}
	}
	check("first read")

	tests := []struct {
		Step string
		Do   func()
	}{
		{
			Step: "cell changed",
			Do: func() {
				b.set(t, "Sheet1!D1", value.Float(1))
			},
		},
		{
			Step: "recalculate",
			Do:   b.graph.Recalculate,
		},
	}
	for _, c := range tests {
		c.Do()
		for _, addr := range []string{"Sheet1!A1", "Sheet1!B1", "Sheet1!C1"} {
			if !b.graph.IsDirty(layout.ParsePosition(addr)) {
				t.Errorf("%s: %s should be dirty", c.Step, addr)
			}
		}
		check(c.Step)
	}
}

func TestRenameOntoRemovedSheet(t *testing.T) {
	b := createBook("Sheet1", "Data", "Other")
	b.set(t, "Data!A1", value.Float(1))
	b.set(t, "Other!A1", value.Float(41))
	b.formula(t, "Sheet1!A1", "=Data!A1+1")
	if got := b.value("Sheet1!A1"); got != value.Float(2) {
		t.Fatalf("A1: want 2, got %s", got)
	}

	delete(b.sheets, "Data")
	delete(b.cells, layout.ParsePosition("Data!A1"))
	b.graph.SheetRemoved("Data")
	if got := b.value("Sheet1!A1"); got != value.ErrRef {
		t.Fatalf("A1: want #REF!, got %s", got)
	}

	delete(b.sheets, "Other")
	b.sheets["Data"] = true
	b.cells[layout.ParsePosition("Data!A1")] = value.Float(41)
	b.graph.SheetRenamed("Other", "Data")
	if !b.graph.IsDirty(layout.ParsePosition("Sheet1!A1")) {
		t.Errorf("A1 should be dirty once a sheet takes the removed name")
	}
	if got := b.value("Sheet1!A1"); got != value.Float(42) {
		t.Errorf("A1: want 42, got %s", got)
	}
}
