package layout

import "fmt"

type EditKind int8

const (
	InsertRows EditKind = 1 << iota
	DeleteRows
	InsertColumns
	DeleteColumns
)

func (k EditKind) String() string {
	switch k {
	case InsertRows:
		return "insert-rows"
	case DeleteRows:
		return "delete-rows"
	case InsertColumns:
		return "insert-columns"
	case DeleteColumns:
		return "delete-columns"
	default:
		return "unknown"
	}
}

// Edit describes a structural change of a sheet: Count rows (or columns)
// inserted before, or deleted starting at, the one based index At.
type Edit struct {
	Kind  EditKind
	Sheet string
	At    int64
	Count int64
}

func (e Edit) String() string {
	return fmt.Sprintf("%s(%s, at: %d, count: %d)", e.Kind, e.Sheet, e.At, e.Count)
}

func (e Edit) Rows() bool {
	return e.Kind == InsertRows || e.Kind == DeleteRows
}

func (e Edit) Insert() bool {
	return e.Kind == InsertRows || e.Kind == InsertColumns
}

// Affected returns the part of the sheet whose coordinates can change
// because of the edit.
func (e Edit) Affected() Range {
	r := Range{
		Starts: Position{Sheet: e.Sheet, Line: 1, Column: 1},
		Ends:   Position{Sheet: e.Sheet, Line: MaxLines, Column: MaxColumns},
	}
	if e.Rows() {
		r.Starts.Line = e.At
	} else {
		r.Starts.Column = e.At
	}
	return r
}

// Cuts reports whether the edit splits the range: rows or columns are
// inserted strictly inside it or only a part of it is deleted.
func (e Edit) Cuts(r Range) bool {
	if r.Sheet() != e.Sheet {
		return false
	}
	lo, hi := r.Starts.Column, r.Ends.Column
	if e.Rows() {
		lo, hi = r.Starts.Line, r.Ends.Line
	}
	if e.Insert() {
		return e.At > lo && e.At <= hi
	}
	last := e.At + e.Count - 1
	if last < lo || e.At > hi {
		return false
	}
	return e.At > lo || last < hi
}

func (e Edit) ShiftPosition(pos Position) (Position, bool) {
	if pos.Sheet != e.Sheet {
		return pos, true
	}
	ptr := &pos.Column
	if e.Rows() {
		ptr = &pos.Line
	}
	if e.Insert() {
		if *ptr >= e.At {
			*ptr += e.Count
		}
		return pos, true
	}
	switch {
	case *ptr < e.At:
	case *ptr >= e.At+e.Count:
		*ptr -= e.Count
	default:
		return pos, false
	}
	return pos, true
}

// ShiftRange moves, grows or shrinks the range according to the edit. It
// returns false when every row (or column) of the range is deleted.
func (e Edit) ShiftRange(r Range) (Range, bool) {
	if r.Sheet() != e.Sheet {
		return r, true
	}
	lo, hi := &r.Starts.Column, &r.Ends.Column
	if e.Rows() {
		lo, hi = &r.Starts.Line, &r.Ends.Line
	}
	if e.Insert() {
		if *lo >= e.At {
			*lo += e.Count
		}
		if *hi >= e.At {
			*hi += e.Count
		}
		return r, true
	}
	last := e.At + e.Count
	switch {
	case *lo >= last:
		*lo -= e.Count
	case *lo >= e.At:
		*lo = e.At
	}
	switch {
	case *hi >= last:
		*hi -= e.Count
	case *hi >= e.At:
		*hi = e.At - 1
	}
	return r, *hi >= *lo
}

// Changes reports whether applying the edit modifies the given range.
func (e Edit) Changes(r Range) bool {
	x, ok := e.ShiftRange(r)
	return !ok || x != r
}
