package parse

import (
	"strings"

	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

type PrecedentKind int8

const (
	PrecedentArea PrecedentKind = 1 << iota
	PrecedentName
)

// Precedent is a reference read by a formula: an area as written in the
// formula (single cells have both corners equal) or a named range.
type Precedent struct {
	Kind PrecedentKind
	Addr RangeAddr
	Name Name
}

func (p Precedent) IsName() bool {
	return p.Kind == PrecedentName
}

// Range gives the area of the precedent. Sheet is used when the reference
// is not qualified.
func (p Precedent) Range(sheet string) layout.Range {
	return p.Addr.Range(sheet)
}

func (p Precedent) String() string {
	if p.IsName() {
		return p.Name.String()
	}
	if p.Addr.startAddr == p.Addr.endAddr {
		return p.Addr.startAddr.String()
	}
	return p.Addr.String()
}

// Precedents lists the references of the formula. References denoting the
// same area or the same name are only reported once.
func Precedents(expr Expr) []Precedent {
	var (
		list []Precedent
		seen = make(map[string]struct{})
	)
	add := func(p Precedent, key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		list = append(list, p)
	}
	Walk(expr, func(e Expr) bool {
		switch e := e.(type) {
		case CellAddr:
			p := Precedent{
				Kind: PrecedentArea,
				Addr: NewRangeAddr(e, e).(RangeAddr),
			}
			add(p, "area:"+p.Range("").String())
		case RangeAddr:
			p := Precedent{
				Kind: PrecedentArea,
				Addr: e,
			}
			add(p, "area:"+p.Range("").String())
		case Name:
			p := Precedent{
				Kind: PrecedentName,
				Name: e,
			}
			add(p, "name:"+e.Sheet+"!"+strings.ToUpper(e.Ident))
		}
		return true
	})
	return list
}

// Walk visits the nodes of the formula depth first. The children of a
// node are skipped when fn returns false.
func Walk(expr Expr, fn func(Expr) bool) {
	if !fn(expr) {
		return
	}
	switch e := expr.(type) {
	case Binary:
		Walk(e.left, fn)
		Walk(e.right, fn)
	case Unary:
		Walk(e.expr, fn)
	case Postfix:
		Walk(e.expr, fn)
	case Group:
		Walk(e.expr, fn)
	case Call:
		for i := range e.args {
			Walk(e.args[i], fn)
		}
	}
}

// Rewrite builds a new formula where every node for which fn returns true
// is replaced by the node returned by fn. Replaced nodes are not visited
// any further. The given formula is left untouched.
func Rewrite(expr Expr, fn func(Expr) (Expr, bool)) Expr {
	if x, ok := fn(expr); ok {
		return x
	}
	switch e := expr.(type) {
	case Binary:
		return NewBinary(Rewrite(e.left, fn), Rewrite(e.right, fn), e.op)
	case Unary:
		return NewUnary(Rewrite(e.expr, fn), e.op)
	case Postfix:
		return NewPostfix(Rewrite(e.expr, fn), e.op)
	case Group:
		return NewGroup(Rewrite(e.expr, fn))
	case Call:
		args := make([]Expr, len(e.args))
		for i := range e.args {
			args[i] = Rewrite(e.args[i], fn)
		}
		return NewCall(e.name, args)
	default:
		return expr
	}
}

// ShiftReferences moves the references of the formula owned by a cell of
// the given sheet according to a structural edit. References to deleted
// cells become #REF!. It reports whether a reference was modified.
func ShiftReferences(expr Expr, sheet string, edit layout.Edit) (Expr, bool) {
	var changed bool
	expr = Rewrite(expr, func(e Expr) (Expr, bool) {
		switch e := e.(type) {
		case CellAddr:
			pos := e.Position
			if pos.Sheet == "" {
				pos.Sheet = sheet
			}
			x, ok := edit.ShiftPosition(pos)
			if !ok {
				changed = true
				return NewErrorLit(value.ErrRef), true
			}
			if x.Line != e.Line || x.Column != e.Column {
				changed = true
				e.Line, e.Column = x.Line, x.Column
			}
			return e, true
		case RangeAddr:
			r := e.Range(sheet)
			x, ok := edit.ShiftRange(r)
			if !ok {
				changed = true
				return NewErrorLit(value.ErrRef), true
			}
			if x == r {
				return e, true
			}
			changed = true
			start, end := e.startAddr, e.endAddr
			start.Line, start.Column = x.Starts.Line, x.Starts.Column
			end.Line, end.Column = x.Ends.Line, x.Ends.Column
			return NewRangeAddr(start, end), true
		default:
			return nil, false
		}
	})
	return expr, changed
}

// RenameSheet makes the references qualified with the old sheet name
// point to the new one. It reports whether a reference was modified.
func RenameSheet(expr Expr, old, name string) (Expr, bool) {
	var changed bool
	expr = Rewrite(expr, func(e Expr) (Expr, bool) {
		switch e := e.(type) {
		case CellAddr:
			if e.Sheet == old {
				e.Sheet = name
				changed = true
			}
			return e, true
		case RangeAddr:
			if e.startAddr.Sheet == old {
				e.startAddr.Sheet = name
				e.endAddr.Sheet = name
				changed = true
			}
			return e, true
		case Name:
			if e.Sheet == old {
				e.Sheet = name
				changed = true
			}
			return e, true
		default:
			return nil, false
		}
	})
	return expr, changed
}

// Offset moves the relative references of the formula. It is used to
// derive the formula of a cell from a formula shared by several cells.
func Offset(expr Expr, lines, columns int64) Expr {
	return cloneExpr(expr, layout.Position{Line: lines, Column: columns})
}

// HasReference reports whether the formula reads any cell or name.
func HasReference(expr Expr) bool {
	var found bool
	Walk(expr, func(e Expr) bool {
		switch e.(type) {
		case CellAddr, RangeAddr, Name:
			found = true
		}
		return !found
	})
	return found
}
