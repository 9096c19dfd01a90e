package builtins

import (
	"strings"

	"github.com/midbel/sheetcalc/formula/wildcard"
	"github.com/midbel/sheetcalc/value"
)

type predicate func(value.ScalarValue) bool

// parseCriteria builds the predicate used by the conditional functions. A
// text criteria may start with a comparison operator; without operator,
// text is matched with the wildcard characters * and ?.
func parseCriteria(crit value.ScalarValue, loc value.Locale) predicate {
	switch c := crit.(type) {
	case value.Float:
		return compareWith(c, "=", loc)
	case value.Boolean:
		return compareWith(c, "=", loc)
	case value.Blank:
		return compareWith(value.Text(""), "=", loc)
	case value.Error:
		return func(v value.ScalarValue) bool {
			e, ok := value.IsError(v)
			return ok && e == c
		}
	case value.Text:
		oper, operand := splitCriteria(string(c))
		if f, ok := loc.ParseNumber(operand); ok && operand != "" {
			return compareWith(value.Float(f), oper, loc)
		}
		switch strings.ToUpper(operand) {
		case "TRUE":
			return compareWith(value.Boolean(true), oper, loc)
		case "FALSE":
			return compareWith(value.Boolean(false), oper, loc)
		}
		if err, ok := value.ParseError(operand); ok {
			return compareWith(err, oper, loc)
		}
		return compareWith(value.Text(operand), oper, loc)
	default:
		return func(value.ScalarValue) bool {
			return false
		}
	}
}

func splitCriteria(str string) (string, string) {
	for _, oper := range []string{"<=", ">=", "<>", "<", ">", "="} {
		if rest, ok := strings.CutPrefix(str, oper); ok {
			return oper, rest
		}
	}
	return "=", str
}

func compareWith(want value.ScalarValue, oper string, loc value.Locale) predicate {
	return func(v value.ScalarValue) bool {
		if v == nil {
			return false
		}
		if t, ok := want.(value.Text); ok && (oper == "=" || oper == "<>") {
			matched := matchText(string(t), v)
			if oper == "<>" {
				return !matched
			}
			return matched
		}
		if e, ok := want.(value.Error); ok {
			x, ok := value.IsError(v)
			if oper == "<>" {
				return !ok || x != e
			}
			return ok && x == e && oper == "="
		}
		if v.Kind() != want.Kind() {
			return oper == "<>"
		}
		cmp, err := value.Compare(v, want, loc)
		if err != nil {
			return false
		}
		switch oper {
		case "=":
			return cmp == 0
		case "<>":
			return cmp != 0
		case "<":
			return cmp < 0
		case "<=":
			return cmp <= 0
		case ">":
			return cmp > 0
		case ">=":
			return cmp >= 0
		default:
			return false
		}
	}
}

func matchText(pattern string, v value.ScalarValue) bool {
	switch v := v.(type) {
	case value.Blank:
		return pattern == ""
	case value.Text:
		return wildcard.Matches(pattern, string(v))
	default:
		return false
	}
}
