package grid

import (
	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

type cellContext struct {
	book   *Workbook
	anchor layout.Position
}

func (c cellContext) Anchor() layout.Position {
	return c.anchor
}

func (c cellContext) Locale() value.Locale {
	return c.book.locale
}

func (c cellContext) Cell(pos layout.Position) value.ScalarValue {
	return c.book.Value(pos)
}

func (c cellContext) Exists(sheet string) bool {
	return c.book.sheet(sheet) != nil
}

// Name resolves a named range. A qualified name is looked up in the scope
// of the given sheet, otherwise in the scope of the anchor sheet. Both fall
// back to the workbook scope.
func (c cellContext) Name(sheet, ident string) ([]layout.Range, bool) {
	if sheet == "" {
		sheet = c.anchor.Sheet
	}
	return c.book.lookupName(sheet, ident)
}

func (c cellContext) Func(name string) (builtins.Builtin, error) {
	return c.book.registry.Resolve(name)
}
