package grid

import (
	"iter"
	"maps"
	"slices"

	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

type Encoder interface {
	EncodeSheet(View) error
}

type View interface {
	Name() string
	Bounds() layout.Range
	Rows() iter.Seq[[]value.ScalarValue]
	Cells() iter.Seq[Cell]
	Encode(Encoder) error
}

type Cell struct {
	layout.Position

	Value   value.ScalarValue
	Formula string
	Array   bool
	Dirty   bool
	// Group identifies the array formula the cell belongs to. It is the same
	// for every cell of the group and empty for other cells.
	Group string
}

func (c Cell) IsFormula() bool {
	return c.Formula != ""
}

type SheetState int8

const (
	StateVisible SheetState = 1 << iota
	StateHidden
	StateVeryHidden
)

func SheetStateFromString(str string) SheetState {
	switch str {
	case "hidden":
		return StateHidden
	case "veryHidden":
		return StateVeryHidden
	default:
		return StateVisible
	}
}

func (s SheetState) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateVeryHidden:
		return "veryHidden"
	default:
		return "visible"
	}
}

type Sheet struct {
	Index int
	State SheetState

	name   string
	locked bool
	cells  map[layout.Position]value.ScalarValue
	book   *Workbook
}

func createSheet(name string, book *Workbook) *Sheet {
	return &Sheet{
		State: StateVisible,
		name:  name,
		cells: make(map[layout.Position]value.ScalarValue),
		book:  book,
	}
}

func (s *Sheet) Name() string {
	return s.name
}

func (s *Sheet) Lock() {
	s.locked = true
}

func (s *Sheet) Unlock() {
	s.locked = false
}

func (s *Sheet) IsLock() bool {
	return s.locked
}

// Bounds gives the smallest range starting at A1 covering every literal and
// formula cell of the sheet.
func (s *Sheet) Bounds() layout.Range {
	var ends layout.Position
	for pos := range s.cells {
		ends.Line = max(ends.Line, pos.Line)
		ends.Column = max(ends.Column, pos.Column)
	}
	for _, n := range s.book.graph.Nodes(s.name) {
		ends.Line = max(ends.Line, n.Area.Ends.Line)
		ends.Column = max(ends.Column, n.Area.Ends.Column)
	}
	starts := layout.Position{
		Sheet:  s.name,
		Line:   1,
		Column: 1,
	}
	ends.Sheet = s.name
	if ends.Line == 0 {
		ends = starts
	}
	return layout.NewRange(starts, ends)
}

// Rows gives the values of the sheet, formulas computed, row by row.
func (s *Sheet) Rows() iter.Seq[[]value.ScalarValue] {
	bounds := s.Bounds()
	it := func(yield func([]value.ScalarValue) bool) {
		for i := bounds.Starts.Line; i <= bounds.Ends.Line; i++ {
			row := make([]value.ScalarValue, 0, bounds.Width())
			for j := bounds.Starts.Column; j <= bounds.Ends.Column; j++ {
				pos := layout.Position{
					Sheet:  s.name,
					Line:   i,
					Column: j,
				}
				row = append(row, s.book.Value(pos))
			}
			if !yield(row) {
				break
			}
		}
	}
	return it
}

// Cells gives the non blank cells of the sheet ordered by row then column.
func (s *Sheet) Cells() iter.Seq[Cell] {
	list := slices.Collect(maps.Keys(s.cells))
	for _, n := range s.book.graph.Nodes(s.name) {
		for pos := range n.Area.Positions() {
			pos.Sheet = ""
			list = append(list, pos)
		}
	}
	slices.SortFunc(list, func(a, b layout.Position) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	it := func(yield func(Cell) bool) {
		for _, pos := range list {
			pos.Sheet = s.name
			c := Cell{
				Position: pos,
				Value:    s.book.Value(pos),
			}
			if n, ok := s.book.graph.Node(pos); ok {
				c.Formula = n.Formula.String()
				c.Array = n.Array()
				c.Dirty = n.Dirty()
				if c.Array {
					c.Group = n.ID.String()
				}
			}
			if !yield(c) {
				break
			}
		}
	}
	return it
}

func (s *Sheet) Encode(e Encoder) error {
	return e.EncodeSheet(s)
}

func (s *Sheet) literal(pos layout.Position) (value.ScalarValue, bool) {
	pos.Sheet = ""
	v, ok := s.cells[pos]
	return v, ok
}

func (s *Sheet) set(pos layout.Position, v value.ScalarValue) {
	pos.Sheet = ""
	if v == nil || v.Kind() == value.KindBlank {
		delete(s.cells, pos)
		return
	}
	s.cells[pos] = v
}

func (s *Sheet) shift(edit layout.Edit) {
	cells := make(map[layout.Position]value.ScalarValue)
	for pos, v := range s.cells {
		pos.Sheet = s.name
		pos, ok := edit.ShiftPosition(pos)
		if !ok {
			continue
		}
		pos.Sheet = ""
		cells[pos] = v
	}
	s.cells = cells
}
