package format

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/midbel/sheetcalc/value"
)

var ErrPattern = errors.New("invalid pattern")

type numberFormatter struct {
	minInt int
	minDec int
	maxDec int

	signAlways bool
	grouping   bool

	decimalSep  rune
	thousandSep rune
}

// ParseNumberFormatter builds a formatter from a pattern such as "#,##0.00":
// zeros give the minimum number of digits, hashes the optional ones and a
// comma enables grouping. Separators are given by the locale.
func ParseNumberFormatter(pattern string, locale value.Locale) (Formatter, error) {
	nf := numberFormatter{
		decimalSep:  locale.Decimal,
		thousandSep: locale.Group,
	}
	if nf.decimalSep == 0 {
		nf.decimalSep = '.'
	}
	if rest, ok := strings.CutPrefix(pattern, "+"); ok {
		nf.signAlways = true
		pattern = rest
	}
	left, right, _ := strings.Cut(pattern, ".")
	if left == "" {
		return nil, fmt.Errorf("%q: %w: missing integral part", pattern, ErrPattern)
	}
	if strings.Contains(left, ",") {
		nf.grouping = true
		left = strings.ReplaceAll(left, ",", "")
	}
	rev := []byte(left)
	slices.Reverse(rev)

	var err error
	if nf.minInt, _, err = countDigits(string(rev)); err != nil {
		return nil, fmt.Errorf("%q: %w: integral part", pattern, err)
	}
	if nf.minDec, nf.maxDec, err = countDigits(right); err != nil {
		return nil, fmt.Errorf("%q: %w: fractional part", pattern, err)
	}
	return nf, nil
}

// countDigits counts the leading zeros (mandatory digits) and all digit
// placeholders of a pattern part. A zero after a hash is rejected.
func countDigits(str string) (int, int, error) {
	var (
		mandatory int
		optional  bool
	)
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '0':
			if optional {
				return 0, 0, ErrPattern
			}
			mandatory++
		case '#':
			optional = true
		default:
			return 0, 0, fmt.Errorf("%w: unexpected character %q", ErrPattern, str[i])
		}
	}
	return mandatory, len(str), nil
}

func (nf numberFormatter) Format(v value.ScalarValue) (string, error) {
	f, ok := v.(value.Float)
	if !ok {
		return "", fmt.Errorf("%s: value is not a number", v)
	}
	var (
		scale   = math.Pow10(nf.maxDec)
		rounded = math.Round(float64(f)*scale) / scale
		digits  = strconv.FormatFloat(math.Abs(rounded), 'f', nf.maxDec, 64)
	)
	integral, fractional, _ := strings.Cut(digits, ".")
	fractional = strings.TrimRight(fractional, "0")
	if n := nf.minDec - len(fractional); n > 0 {
		fractional += strings.Repeat("0", n)
	}
	if integral == "0" && nf.minInt == 0 {
		integral = ""
	}
	if n := nf.minInt - len(integral); n > 0 {
		integral = strings.Repeat("0", n) + integral
	}

	var str strings.Builder
	switch {
	case rounded < 0:
		str.WriteByte('-')
	case nf.signAlways:
		str.WriteByte('+')
	}
	for i := range len(integral) {
		if nf.grouping && nf.thousandSep != 0 && i > 0 && (len(integral)-i)%3 == 0 {
			str.WriteRune(nf.thousandSep)
		}
		str.WriteByte(integral[i])
	}
	if fractional != "" {
		str.WriteRune(nf.decimalSep)
		str.WriteString(fractional)
	}
	return str.String(), nil
}
