package main

import (
	"os"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-isatty"
	"github.com/midbel/sheetcalc/format"
	"github.com/midbel/sheetcalc/internal/config"
	"github.com/midbel/sheetcalc/value"
)

func colorEnabled() bool {
	switch settings.Output.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		fd := os.Stdout.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
}

func errorStyle() lipgloss.Style {
	style := lipgloss.NewStyle()
	if colorEnabled() {
		style = style.Foreground(lipgloss.Color("9")).Bold(true)
	}
	return style
}

func headerStyle() lipgloss.Style {
	style := lipgloss.NewStyle()
	if colorEnabled() {
		style = style.Foreground(lipgloss.Color("12")).Bold(true)
	}
	return style
}

func faintStyle() lipgloss.Style {
	style := lipgloss.NewStyle()
	if colorEnabled() {
		style = style.Faint(true)
	}
	return style
}

// renderValue styles an already formatted (and padded) value according to
// its kind.
func renderValue(v value.ScalarValue, str string) string {
	if v != nil && v.Kind() == value.KindError {
		return errorStyle().Render(str)
	}
	return str
}

func formatter() (*format.ValueFormatter, error) {
	loc, err := settings.ValueLocale()
	if err != nil {
		return nil, err
	}
	vf := format.FormatValue(loc)
	if settings.Output.Number != "" {
		if err := vf.Number(settings.Output.Number); err != nil {
			return nil, err
		}
	}
	return vf, nil
}

func formatValue(vf format.Formatter, v value.ScalarValue) string {
	str, err := vf.Format(v)
	if err != nil {
		return v.String()
	}
	return str
}
