package format

import (
	"testing"

	"github.com/midbel/sheetcalc/value"
)

func TestFormatter(t *testing.T) {
	tests := []struct {
		Input value.ScalarValue
		Want  string
	}{
		{Input: value.Float(42), Want: "42"},
		{Input: value.Float(1234567.891), Want: "1,234,567.89"},
		{Input: value.Float(3.14), Want: "3.14"},
		{Input: value.Float(-0.001), Want: "0"},
		{Input: value.Float(-1500), Want: "-1,500"},
		{Input: value.Text("foobar"), Want: "foobar"},
		{Input: value.Boolean(true), Want: "TRUE"},
		{Input: value.ErrDiv0, Want: "#DIV/0!"},
		{Input: value.Empty(), Want: ""},
	}
	vf := FormatValue(value.DefaultLocale())
	if err := vf.Number(DefaultNumberPattern); err != nil {
		t.Fatalf("fail to parse number pattern: %s", err)
	}
	for _, c := range tests {
		got, err := vf.Format(c.Input)
		if err != nil {
			t.Errorf("fail to format value (%v): %s", c.Input, err)
			continue
		}
		if got != c.Want {
			t.Errorf("%v: results mismatched! want %s - got %s", c.Input, c.Want, got)
		}
	}
}

func TestNumberFormatter(t *testing.T) {
	locale, err := value.NewLocale("fr-FR", ',', ' ')
	if err != nil {
		t.Fatalf("fail to create locale: %s", err)
	}
	tests := []struct {
		Pattern string
		Input   float64
		Want    string
	}{
		{Pattern: "0.00", Input: 1.5, Want: "1,50"},
		{Pattern: "#,##0.00", Input: 12345.678, Want: "12 345,68"},
		{Pattern: "000", Input: 7, Want: "007"},
		{Pattern: "+0.#", Input: 2, Want: "+2"},
	}
	for _, c := range tests {
		f, err := ParseNumberFormatter(c.Pattern, locale)
		if err != nil {
			t.Errorf("%s: fail to parse pattern: %s", c.Pattern, err)
			continue
		}
		got, err := f.Format(value.Float(c.Input))
		if err != nil {
			t.Errorf("%s: fail to format: %s", c.Pattern, err)
			continue
		}
		if got != c.Want {
			t.Errorf("%s: results mismatched! want %s - got %s", c.Pattern, c.Want, got)
		}
	}
	for _, pattern := range []string{"", ".", "+", "0.0x", "a0"} {
		if _, err := ParseNumberFormatter(pattern, locale); err == nil {
			t.Errorf("%q: expected error", pattern)
		}
	}
}
