package format

import (
	"github.com/midbel/sheetcalc/value"
)

const DefaultNumberPattern = "#,##0.##"

type Formatter interface {
	Format(value.ScalarValue) (string, error)
}

// ValueFormatter formats values with the formatter registered for their
// kind, and falls back to their default text representation.
type ValueFormatter struct {
	formatters map[value.ValueKind]Formatter
	locale     value.Locale
}

func FormatValue(locale value.Locale) *ValueFormatter {
	vf := ValueFormatter{
		formatters: make(map[value.ValueKind]Formatter),
		locale:     locale,
	}
	vf.Set(value.KindLogical, FormatBool())
	vf.Set(value.KindBlank, FormatBlank())
	return &vf
}

func (vf *ValueFormatter) Set(kind value.ValueKind, formatter Formatter) {
	vf.formatters[kind] = formatter
}

func (vf *ValueFormatter) Number(pattern string) error {
	f, err := ParseNumberFormatter(pattern, vf.locale)
	if err == nil {
		vf.Set(value.KindNumber, f)
	}
	return err
}

func (vf *ValueFormatter) Format(v value.ScalarValue) (string, error) {
	if v == nil {
		v = value.Empty()
	}
	f, ok := vf.formatters[v.Kind()]
	if ok {
		return f.Format(v)
	}
	if n, ok := v.(value.Float); ok {
		return vf.locale.FormatNumber(float64(n)), nil
	}
	return v.String(), nil
}

type boolFormatter struct{}

func FormatBool() Formatter {
	return boolFormatter{}
}

func (boolFormatter) Format(v value.ScalarValue) (string, error) {
	if value.True(v) {
		return "TRUE", nil
	}
	return "FALSE", nil
}

type blankFormatter struct{}

func FormatBlank() Formatter {
	return blankFormatter{}
}

func (blankFormatter) Format(_ value.ScalarValue) (string, error) {
	return "", nil
}
