package value

import (
	"strings"

	"github.com/midbel/sheetcalc/layout"
)

// Reference denotes one or more areas of a workbook. Its content is only
// read when the reference is resolved by the evaluator.
type Reference struct {
	Areas []layout.Range
}

func NewReference(areas ...layout.Range) Reference {
	if len(areas) == 0 {
		panic("reference: no area")
	}
	return Reference{
		Areas: areas,
	}
}

func (Reference) Kind() ValueKind {
	return KindReference
}

func (r Reference) String() string {
	var list []string
	for _, a := range r.Areas {
		list = append(list, a.String())
	}
	return strings.Join(list, ",")
}

func (Reference) sealed() {}

func (r Reference) Single() bool {
	return len(r.Areas) == 1
}

func (r Reference) Area() layout.Range {
	return r.Areas[0]
}
