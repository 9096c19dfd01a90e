package value

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Locale gives the culture used to convert text to numbers and numbers to
// text, and to compare texts.
type Locale struct {
	Tag     language.Tag
	Decimal rune
	Group   rune
}

func DefaultLocale() Locale {
	return Locale{
		Tag:     language.AmericanEnglish,
		Decimal: '.',
		Group:   ',',
	}
}

func NewLocale(culture string, decimal, group rune) (Locale, error) {
	tag, err := language.Parse(culture)
	if err != nil {
		return Locale{}, err
	}
	loc := Locale{
		Tag:     tag,
		Decimal: decimal,
		Group:   group,
	}
	if loc.Decimal == 0 {
		loc.Decimal = '.'
	}
	return loc, nil
}

func (l Locale) decimal() rune {
	if l.Decimal == 0 {
		return '.'
	}
	return l.Decimal
}

// ParseNumber converts a text to a number. Leading and trailing blanks are
// ignored, group separators are accepted in the integral part and a
// trailing percent sign divides the result by one hundred.
func (l Locale) ParseNumber(str string) (float64, bool) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, false
	}
	var percent bool
	if strings.HasSuffix(str, "%") {
		percent = true
		str = strings.TrimSpace(str[:len(str)-1])
	}
	var (
		buf     strings.Builder
		seenDec bool
		seenExp bool
	)
	for i, c := range str {
		switch {
		case c >= '0' && c <= '9':
			buf.WriteRune(c)
		case c == l.decimal() && !seenDec && !seenExp:
			seenDec = true
			buf.WriteByte('.')
		case c == l.Group && l.Group != 0 && !seenDec && !seenExp && i > 0:
		case (c == 'e' || c == 'E') && !seenExp && i > 0:
			seenExp = true
			buf.WriteByte('e')
		case c == '+' || c == '-':
			buf.WriteRune(c)
		default:
			return 0, false
		}
	}
	n, err := strconv.ParseFloat(buf.String(), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	if percent {
		n /= 100
	}
	return n, true
}

func (l Locale) FormatNumber(f float64) string {
	return formatNumber(f, l.decimal())
}

// Fold returns the case folded form of str used for case insensitive
// comparisons. Text is lowered with the rules of the culture first, so that
// language specific mappings (dotted and dotless i in Turkish) are kept.
func (l Locale) Fold(str string) string {
	return cases.Fold().String(cases.Lower(l.Tag).String(str))
}

func (l Locale) CompareText(left, right string) int {
	return strings.Compare(l.Fold(left), l.Fold(right))
}

func (l Locale) EqualText(left, right string) bool {
	return l.CompareText(left, right) == 0
}

const maxDigits = 15

func formatNumber(f float64, decimal rune) string {
	if f == 0 {
		return "0"
	}
	str := strconv.FormatFloat(f, 'g', maxDigits, 64)
	f, _ = strconv.ParseFloat(str, 64)
	if abs := math.Abs(f); abs >= 1e-9 && abs < 1e15 {
		str = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		str = strconv.FormatFloat(f, 'E', -1, 64)
	}
	if decimal != '.' {
		str = strings.Replace(str, ".", string(decimal), 1)
	}
	return str
}
