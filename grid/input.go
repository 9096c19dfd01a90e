package grid

import (
	"strings"

	"github.com/midbel/sheetcalc/value"
)

// ParseInput converts the text typed in a cell to a literal value. A
// leading apostrophe forces the text to be kept as is.
func ParseInput(str string, locale value.Locale) value.ScalarValue {
	if str == "" {
		return value.Empty()
	}
	if rest, ok := strings.CutPrefix(str, "'"); ok {
		return value.Text(rest)
	}
	switch {
	case strings.EqualFold(str, "true"):
		return value.Boolean(true)
	case strings.EqualFold(str, "false"):
		return value.Boolean(false)
	}
	if e, ok := value.ParseError(str); ok {
		return e
	}
	if f, ok := locale.ParseNumber(str); ok {
		return value.Float(f)
	}
	return value.Text(str)
}
