package value

import (
	"fmt"
	"strings"

	"github.com/midbel/sheetcalc/layout"
)

// Array is a rectangular grid of scalar values stored row by row. It is
// never modified once created.
type Array struct {
	data [][]ScalarValue
}

func NewArray(data [][]ScalarValue) Array {
	if len(data) == 0 || len(data[0]) == 0 {
		panic("array: empty data")
	}
	width := len(data[0])
	for i := range data {
		if len(data[i]) != width {
			panic(fmt.Sprintf("array: row %d has %d columns, %d expected", i, len(data[i]), width))
		}
		for j := range data[i] {
			if data[i][j] == nil {
				panic(fmt.Sprintf("array: nil value at %d,%d", i, j))
			}
		}
	}
	return Array{
		data: data,
	}
}

func ArrayOf(v ScalarValue) Array {
	return NewArray([][]ScalarValue{{v}})
}

// MakeArray builds an array of the given dimension by calling fn for each
// of its cells.
func MakeArray(dim layout.Dimension, fn func(row, col int) ScalarValue) Array {
	data := make([][]ScalarValue, dim.Lines)
	for i := range data {
		data[i] = make([]ScalarValue, dim.Columns)
		for j := range data[i] {
			data[i][j] = fn(i, j)
		}
	}
	return NewArray(data)
}

func (Array) Kind() ValueKind {
	return KindArray
}

func (a Array) String() string {
	var rows []string
	for i := range a.data {
		var cols []string
		for j := range a.data[i] {
			str := a.data[i][j].String()
			if t, ok := a.data[i][j].(Text); ok {
				str = `"` + strings.ReplaceAll(string(t), `"`, `""`) + `"`
			}
			cols = append(cols, str)
		}
		rows = append(rows, strings.Join(cols, ","))
	}
	return "{" + strings.Join(rows, ";") + "}"
}

func (Array) sealed() {}

func (a Array) Dimension() layout.Dimension {
	var d layout.Dimension
	if n := len(a.data); n > 0 {
		d.Lines = int64(n)
		d.Columns = int64(len(a.data[0]))
	}
	return d
}

func (a Array) At(row, col int) ScalarValue {
	if row < 0 || row >= len(a.data) {
		return nil
	}
	v := a.data[row]
	if col < 0 || col >= len(v) {
		return nil
	}
	return v[col]
}

func (a Array) TopLeft() ScalarValue {
	return a.data[0][0]
}

func (a Array) Values() []ScalarValue {
	var list []ScalarValue
	for i := range a.data {
		list = append(list, a.data[i]...)
	}
	return list
}

func (a Array) Rows() [][]ScalarValue {
	rows := make([][]ScalarValue, len(a.data))
	for i := range a.data {
		rows[i] = append([]ScalarValue(nil), a.data[i]...)
	}
	return rows
}

func (a Array) Map(do func(ScalarValue) ScalarValue) Array {
	return MakeArray(a.Dimension(), func(row, col int) ScalarValue {
		return do(a.data[row][col])
	})
}

// Broadcast combines two operands cell by cell. The result has the largest
// dimension of both operands. Along an axis where an operand has a single
// element, this element is repeated; elsewhere positions outside an operand
// yield #N/A.
func Broadcast(left, right Value, do func(ScalarValue, ScalarValue) ScalarValue) Value {
	var (
		la   = asArray(left)
		ra   = asArray(right)
		dim  = la.Dimension().Max(ra.Dimension())
		pick = func(a Array, row, col int) ScalarValue {
			d := a.Dimension()
			if d.Lines == 1 {
				row = 0
			}
			if d.Columns == 1 {
				col = 0
			}
			return a.At(row, col)
		}
	)
	return MakeArray(dim, func(row, col int) ScalarValue {
		var (
			x = pick(la, row, col)
			y = pick(ra, row, col)
		)
		if x == nil || y == nil {
			return ErrNA
		}
		return do(x, y)
	})
}

func asArray(v Value) Array {
	switch v := v.(type) {
	case Array:
		return v
	case ScalarValue:
		return ArrayOf(v)
	default:
		return ArrayOf(ErrValue)
	}
}
