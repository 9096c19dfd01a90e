package graph

import (
	"github.com/google/uuid"
	"github.com/midbel/sheetcalc/formula"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

// Node is a formula owned by a single cell or, for an array formula, by a
// rectangle of cells sharing the same expression.
type Node struct {
	ID      uuid.UUID
	Area    layout.Range
	Formula formula.Formula

	array  bool
	dirty  bool
	cycle  bool
	values value.Array

	areas []layout.Range
	names []string
}

func createNode(area layout.Range, f formula.Formula, array bool) *Node {
	return &Node{
		ID:      uuid.New(),
		Area:    area,
		Formula: f,
		array:   array,
		dirty:   true,
	}
}

func (n *Node) Array() bool {
	return n.array
}

func (n *Node) Dirty() bool {
	return n.dirty
}

// Precedents gives the areas the node reads, named ranges resolved.
func (n *Node) Precedents() []layout.Range {
	return n.areas
}

// Values gives the cached result of the node. It is empty until the node
// has been computed once.
func (n *Node) Values() value.Array {
	return n.values
}

func (n *Node) at(pos layout.Position) value.ScalarValue {
	if n.values.Dimension().Count() == 0 {
		return value.Empty()
	}
	v := n.values.At(int(pos.Line-n.Area.Starts.Line), int(pos.Column-n.Area.Starts.Column))
	if v == nil {
		return value.ErrNA
	}
	return v
}
