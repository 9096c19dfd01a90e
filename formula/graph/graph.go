package graph

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/midbel/sheetcalc/formula"
	"github.com/midbel/sheetcalc/formula/eval"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

var ErrPartialArray = errors.New("array formula can not be partially changed")

// Resolver gives the context used to evaluate the formula anchored at a
// given position.
type Resolver interface {
	Context(anchor layout.Position) eval.Context
}

type ResolverFunc func(layout.Position) eval.Context

func (f ResolverFunc) Context(anchor layout.Position) eval.Context {
	return f(anchor)
}

type Option func(*Graph)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// OnDirty registers a function called each time a clean node becomes dirty.
func OnDirty(fn func(*Node)) Option {
	return func(g *Graph) {
		g.notify = fn
	}
}

// Graph tracks the formulas of a workbook, the areas they read and their
// cached values. Values are computed on demand: changing a cell only marks
// the formulas reading it, directly or not, as dirty.
type Graph struct {
	resolver Resolver
	logger   *slog.Logger
	notify   func(*Node)

	owners     *areaIndex
	precedents *areaIndex
	names      map[string]map[*Node]struct{}
	volatile   map[*Node]struct{}
	stack      *Stack
}

func New(resolver Resolver, options ...Option) *Graph {
	g := Graph{
		resolver:   resolver,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		owners:     createIndex(),
		precedents: createIndex(),
		names:      make(map[string]map[*Node]struct{}),
		volatile:   make(map[*Node]struct{}),
		stack:      NewStack(),
	}
	for _, o := range options {
		o(&g)
	}
	return &g
}

// Set attaches the formula to the given area. A single cell formula is set
// with a one cell area and array set to false. Formulas previously set in
// the area are replaced.
func (g *Graph) Set(area layout.Range, f formula.Formula, array bool) (*Node, error) {
	if err := g.Clear(area); err != nil {
		return nil, err
	}
	n := createNode(area, f, array)
	g.attach(n)
	g.logger.Debug("formula set", "node", n.ID.String(), "area", area.String(), "formula", f.String(), "array", array)
	return n, nil
}

// Clear removes the formulas owned by the cells of the given area. It fails
// if only a part of an array formula is in the area.
func (g *Graph) Clear(area layout.Range) error {
	list := g.owners.Query(area)
	for _, n := range list {
		if n.array && !contains(area, n.Area) {
			return fmt.Errorf("%s: %w", n.Area, ErrPartialArray)
		}
	}
	for _, n := range list {
		g.detach(n)
	}
	g.Changed(area)
	return nil
}

// Node gives the node owning the cell at the given position.
func (g *Graph) Node(pos layout.Position) (*Node, bool) {
	list := g.owners.Query(layout.SingleRange(pos))
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// Nodes gives the nodes of a sheet ordered by position.
func (g *Graph) Nodes(sheet string) []*Node {
	list := g.owners.Sheet(sheet)
	slices.SortFunc(list, func(a, b *Node) int {
		switch {
		case a.Area.Starts.Less(b.Area.Starts):
			return -1
		case b.Area.Starts.Less(a.Area.Starts):
			return 1
		default:
			return 0
		}
	})
	return list
}

// Value gives the value of the formula cell at the given position,
// computing it first if the node is dirty. It returns false when the cell
// does not hold a formula.
func (g *Graph) Value(pos layout.Position) (value.ScalarValue, bool) {
	n, ok := g.Node(pos)
	if !ok {
		return nil, false
	}
	if g.stack.Has(n) {
		for _, c := range g.stack.From(n) {
			c.cycle = true
		}
		g.logger.Debug("circular reference detected", "cells", cycleCells(g.stack.From(n)))
		return value.ErrCircular, true
	}
	if n.dirty {
		g.compute(n)
	}
	return n.at(pos), true
}

// Cached gives the last computed value of the formula cell at the given
// position without computing it.
func (g *Graph) Cached(pos layout.Position) (value.ScalarValue, bool) {
	n, ok := g.Node(pos)
	if !ok {
		return nil, false
	}
	return n.at(pos), true
}

func (g *Graph) IsDirty(pos layout.Position) bool {
	n, ok := g.Node(pos)
	return ok && n.dirty
}

// Changed marks dirty every node reading a cell of the given area.
func (g *Graph) Changed(area layout.Range) {
	g.propagate(g.precedents.Query(area))
}

// Recalculate marks dirty the volatile nodes and the nodes reading them.
// Volatile nodes are also dirtied by every change notified to the graph.
func (g *Graph) Recalculate() {
	g.propagate(nil)
}

// NameChanged resolves again the edges of the nodes using the given name
// and marks them dirty.
func (g *Graph) NameChanged(ident string) {
	var list []*Node
	for n := range g.names[nameKey(ident)] {
		list = append(list, n)
	}
	for _, n := range list {
		g.unindex(n)
		g.index(n)
	}
	g.propagate(list)
}

// NotifyStructuralEdit updates the graph after rows or columns have been
// inserted in or deleted from a sheet. Formulas of deleted cells are
// removed, formulas of moved cells are moved and the references pointing to
// the edited part of the sheet are rewritten.
func (g *Graph) NotifyStructuralEdit(edit layout.Edit) error {
	var (
		affected = edit.Affected()
		owners   = g.owners.Query(affected)
		deps     = g.precedents.Query(affected)
	)
	for _, n := range owners {
		if n.array && edit.Cuts(n.Area) {
			return fmt.Errorf("%s: %w", n.Area, ErrPartialArray)
		}
	}
	var (
		touched = make(map[*Node]struct{})
		deleted = make(map[*Node]struct{})
		dirty   []*Node
	)
	for _, n := range owners {
		area, ok := edit.ShiftRange(n.Area)
		g.detach(n)
		if !ok {
			deleted[n] = struct{}{}
			g.logger.Debug("formula deleted", "area", n.Area.String(), "edit", edit.String())
			continue
		}
		n.Area = area
		g.owners.Add(n, n.Area)
		g.track(n)
		touched[n] = struct{}{}
	}
	for _, n := range deps {
		if _, ok := touched[n]; ok {
			continue
		}
		if _, ok := deleted[n]; ok {
			continue
		}
		g.unindex(n)
		touched[n] = struct{}{}
	}
	for n := range touched {
		f, changed := n.Formula.Shift(n.Area.Sheet(), edit)
		if changed {
			n.Formula = f
			dirty = append(dirty, n)
		}
		g.index(n)
	}
	g.propagate(dirty)
	g.logger.Debug("structural edit applied", "edit", edit.String(), "moved", len(touched), "dirty", len(dirty))
	return nil
}

// SheetAdded marks dirty the nodes referencing a sheet named as the new one.
func (g *Graph) SheetAdded(name string) {
	g.propagate(g.precedents.Sheet(name))
}

// SheetRemoved removes the formulas of the sheet. Edges of the formulas
// referencing it are kept so they can be computed again once a sheet with
// the same name is added.
func (g *Graph) SheetRemoved(name string) {
	deps := g.precedents.Sheet(name)
	for _, n := range g.owners.Sheet(name) {
		g.detach(n)
	}
	deps = slices.DeleteFunc(deps, func(n *Node) bool {
		return n.Area.Sheet() == name
	})
	g.propagate(deps)
}

// SheetRenamed moves the formulas of the sheet and rewrites the references
// using its former name.
func (g *Graph) SheetRenamed(old, name string) {
	dirty := g.precedents.Sheet(name)
	touched := make(map[*Node]struct{})
	for _, n := range g.owners.Sheet(old) {
		g.detach(n)
		n.Area = n.Area.WithSheet(name)
		g.owners.Add(n, n.Area)
		g.track(n)
		touched[n] = struct{}{}
	}
	for _, n := range g.precedents.Sheet(old) {
		if _, ok := touched[n]; ok {
			continue
		}
		g.unindex(n)
		touched[n] = struct{}{}
	}
	for n := range touched {
		if f, ok := n.Formula.Rename(old, name); ok {
			n.Formula = f
		}
		g.index(n)
		dirty = append(dirty, n)
	}
	g.propagate(dirty)
}

func (g *Graph) compute(n *Node) {
	g.stack.Push(n)
	defer g.stack.Pop()

	var (
		ctx    = g.resolver.Context(n.Area.Starts)
		now    = time.Now()
		values value.Array
	)
	if n.array {
		values = n.Formula.EvaluateArray(ctx, n.Area.Dimension())
	} else {
		values = value.ArrayOf(n.Formula.Evaluate(ctx))
	}
	if n.cycle {
		values = value.MakeArray(n.Area.Dimension(), func(_, _ int) value.ScalarValue {
			return value.ErrCircular
		})
		n.cycle = false
	}
	n.values = values
	n.dirty = false
	g.logger.Debug("formula computed", "node", n.ID.String(), "area", n.Area.String(), "elapsed", time.Since(now))

	g.unindex(n)
	g.index(n)
}

// propagate marks dirty the given nodes, the volatile nodes and every node
// reading them.
func (g *Graph) propagate(list []*Node) {
	for n := range g.volatile {
		list = append(list, n)
	}
	seen := make(map[*Node]struct{})
	for len(list) > 0 {
		n := list[0]
		list = list[1:]
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		if !n.dirty {
			n.dirty = true
			g.logger.Debug("formula dirty", "node", n.ID.String(), "area", n.Area.String())
			if g.notify != nil {
				g.notify(n)
			}
		}
		list = append(list, g.precedents.Query(n.Area)...)
	}
}

func (g *Graph) attach(n *Node) {
	g.track(n)
	g.owners.Add(n, n.Area)
	g.index(n)
	g.Changed(n.Area)
}

func (g *Graph) track(n *Node) {
	if n.Formula.Volatile() {
		g.volatile[n] = struct{}{}
	}
}

func (g *Graph) detach(n *Node) {
	delete(g.volatile, n)
	g.owners.Remove(n, n.Area)
	g.unindex(n)
}

func (g *Graph) index(n *Node) {
	ctx := g.resolver.Context(n.Area.Starts)
	for _, p := range n.Formula.Precedents() {
		if !p.IsName() {
			n.areas = append(n.areas, p.Range(n.Area.Sheet()))
			continue
		}
		key := nameKey(p.Name.Ident)
		if g.names[key] == nil {
			g.names[key] = make(map[*Node]struct{})
		}
		g.names[key][n] = struct{}{}
		n.names = append(n.names, key)

		areas, ok := ctx.Name(p.Name.Sheet, p.Name.Ident)
		if ok {
			n.areas = append(n.areas, areas...)
		}
	}
	for _, a := range n.areas {
		g.precedents.Add(n, a)
	}
}

func (g *Graph) unindex(n *Node) {
	for _, a := range n.areas {
		g.precedents.Remove(n, a)
	}
	for _, k := range n.names {
		delete(g.names[k], n)
		if len(g.names[k]) == 0 {
			delete(g.names, k)
		}
	}
	n.areas = nil
	n.names = nil
}

func cycleCells(list []*Node) []string {
	var cells []string
	for _, n := range list {
		cells = append(cells, n.Area.String())
	}
	return cells
}

func nameKey(ident string) string {
	return strings.ToUpper(ident)
}

func contains(outer, inner layout.Range) bool {
	if outer.Sheet() != inner.Sheet() {
		return false
	}
	return outer.Contains(inner.Starts) && outer.Contains(inner.Ends)
}
