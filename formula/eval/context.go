package eval

import (
	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

// Context gives to the evaluator access to the workbook. Anchor is the
// cell owning the evaluated formula and its sheet is used for references
// without sheet.
type Context interface {
	builtins.Env

	// Cell gives the value of a cell, computing it first when needed.
	Cell(pos layout.Position) value.ScalarValue
	Exists(sheet string) bool
	// Name resolves a named range. Sheet is empty when the name is not
	// qualified.
	Name(sheet, ident string) ([]layout.Range, bool)
	Func(name string) (builtins.Builtin, error)
}

type constContext struct {
	anchor   layout.Position
	locale   value.Locale
	registry *builtins.Registry
}

// Constant gives a context without any cell. References evaluated with it
// give #REF! and names give #NAME?.
func Constant(registry *builtins.Registry, locale value.Locale) Context {
	return constContext{
		anchor:   layout.Position{Line: 1, Column: 1},
		locale:   locale,
		registry: registry,
	}
}

func (c constContext) Anchor() layout.Position {
	return c.anchor
}

func (c constContext) Locale() value.Locale {
	return c.locale
}

func (c constContext) Cell(_ layout.Position) value.ScalarValue {
	return value.ErrRef
}

func (c constContext) Exists(_ string) bool {
	return false
}

func (c constContext) Name(_, _ string) ([]layout.Range, bool) {
	return nil, false
}

func (c constContext) Func(name string) (builtins.Builtin, error) {
	return c.registry.Resolve(name)
}
