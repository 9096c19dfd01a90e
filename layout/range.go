package layout

import (
	"fmt"
	"iter"
	"strings"
)

type Range struct {
	Starts Position
	Ends   Position
}

func NewRange(starts, ends Position) Range {
	ends.Sheet = starts.Sheet
	r := Range{
		Starts: starts,
		Ends:   ends,
	}
	return r.Normalize()
}

func SingleRange(pos Position) Range {
	return Range{
		Starts: pos,
		Ends:   pos,
	}
}

func RangeFromString(str string) Range {
	var sheet string
	if s, rest, ok := strings.Cut(str, "!"); ok {
		sheet = strings.Trim(s, "'")
		str = rest
	}
	fst, lst, ok := strings.Cut(str, ":")
	var (
		starts = ParsePosition(fst)
		ends   = starts
	)
	if ok {
		ends = ParsePosition(lst)
	}
	starts.Sheet = sheet
	return NewRange(starts, ends)
}

func (r Range) Sheet() string {
	return r.Starts.Sheet
}

func (r Range) WithSheet(sheet string) Range {
	r.Starts.Sheet = sheet
	r.Ends.Sheet = sheet
	return r
}

func (r Range) Single() bool {
	return r.Starts.Equal(r.Ends)
}

func (r Range) Contains(pos Position) bool {
	ok := pos.Line >= r.Starts.Line && pos.Line <= r.Ends.Line
	if !ok {
		return false
	}
	return pos.Column >= r.Starts.Column && pos.Column <= r.Ends.Column
}

func (r Range) Intersects(other Range) bool {
	if r.Sheet() != other.Sheet() {
		return false
	}
	if r.Ends.Line < other.Starts.Line || other.Ends.Line < r.Starts.Line {
		return false
	}
	return r.Starts.Column <= other.Ends.Column && other.Starts.Column <= r.Ends.Column
}

func (r Range) Width() int64 {
	return r.Ends.Column - r.Starts.Column + 1
}

func (r Range) Height() int64 {
	return r.Ends.Line - r.Starts.Line + 1
}

func (r Range) Dimension() Dimension {
	return Dimension{
		Lines:   r.Height(),
		Columns: r.Width(),
	}
}

// At returns the position at the given zero based offset from the top left
// corner of the range.
func (r Range) At(line, column int64) Position {
	return r.Starts.Offset(line, column)
}

func (r Range) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for i := r.Starts.Line; i <= r.Ends.Line; i++ {
			for j := r.Starts.Column; j <= r.Ends.Column; j++ {
				pos := Position{
					Sheet:  r.Sheet(),
					Line:   i,
					Column: j,
				}
				if !yield(pos) {
					return
				}
			}
		}
	}
}

func (r Range) String() string {
	var prefix string
	if r.Sheet() != "" {
		prefix = QuoteSheet(r.Sheet()) + "!"
	}
	var (
		starts = r.Starts
		ends   = r.Ends
	)
	starts.Sheet = ""
	ends.Sheet = ""
	if r.Single() {
		return prefix + starts.Addr()
	}
	return fmt.Sprintf("%s%s:%s", prefix, starts.Addr(), ends.Addr())
}

func (r Range) Normalize() Range {
	x := r
	x.Starts.Line = min(r.Starts.Line, r.Ends.Line)
	x.Starts.Column = min(r.Starts.Column, r.Ends.Column)
	x.Ends.Line = max(r.Starts.Line, r.Ends.Line)
	x.Ends.Column = max(r.Starts.Column, r.Ends.Column)
	x.Ends.Sheet = x.Starts.Sheet
	return x
}
