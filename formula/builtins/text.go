package builtins

import (
	"strings"
	"unicode/utf8"

	"github.com/midbel/sheetcalc/formula/wildcard"
	"github.com/midbel/sheetcalc/value"
)

func registerText(r *Registry) {
	r.Register("LEN", 1, 1, execLen)
	r.Register("UPPER", 1, 1, execUpper)
	r.Register("LOWER", 1, 1, execLower)
	r.Register("TRIM", 1, 1, execTrim)
	r.Register("CONCATENATE", 1, Variadic, execConcat)
	r.Register("LEFT", 1, 2, execLeft)
	r.Register("RIGHT", 1, 2, execRight)
	r.Register("MID", 3, 3, execMid)
	r.Register("EXACT", 2, 2, execExact)
	r.Register("SEARCH", 2, 3, execSearch)
	r.Register("REPT", 2, 2, execRept)
}

func execLen(env Env, args []value.Value) value.Value {
	str, err := toString(args[0], env.Locale())
	if err != nil {
		return err
	}
	return value.Float(utf8.RuneCountInString(str))
}

func execUpper(env Env, args []value.Value) value.Value {
	str, err := toString(args[0], env.Locale())
	if err != nil {
		return err
	}
	return value.Text(strings.ToUpper(str))
}

func execLower(env Env, args []value.Value) value.Value {
	str, err := toString(args[0], env.Locale())
	if err != nil {
		return err
	}
	return value.Text(strings.ToLower(str))
}

func execTrim(env Env, args []value.Value) value.Value {
	str, err := toString(args[0], env.Locale())
	if err != nil {
		return err
	}
	return value.Text(strings.Join(strings.Fields(str), " "))
}

func execConcat(env Env, args []value.Value) value.Value {
	var buf strings.Builder
	for i := range args {
		str, err := toString(args[i], env.Locale())
		if err != nil {
			return err
		}
		buf.WriteString(str)
	}
	return value.Text(buf.String())
}

func execLeft(env Env, args []value.Value) value.Value {
	str, count, err := textAndCount(env, args)
	if err != nil {
		return err
	}
	runes := []rune(str)
	count = min(count, len(runes))
	return value.Text(runes[:count])
}

func execRight(env Env, args []value.Value) value.Value {
	str, count, err := textAndCount(env, args)
	if err != nil {
		return err
	}
	runes := []rune(str)
	count = min(count, len(runes))
	return value.Text(runes[len(runes)-count:])
}

func textAndCount(env Env, args []value.Value) (string, int, value.Value) {
	str, err := toString(args[0], env.Locale())
	if err != nil {
		return "", 0, err
	}
	count, err := optFloat(args, 1, 1, env.Locale())
	if err != nil {
		return "", 0, err
	}
	if count < 0 {
		return "", 0, value.ErrValue
	}
	return str, int(count), nil
}

func execMid(env Env, args []value.Value) value.Value {
	str, err := toString(args[0], env.Locale())
	if err != nil {
		return err
	}
	start, err := toFloat(args[1], env.Locale())
	if err != nil {
		return err
	}
	count, err := toFloat(args[2], env.Locale())
	if err != nil {
		return err
	}
	if start < 1 || count < 0 {
		return value.ErrValue
	}
	var (
		runes  = []rune(str)
		offset = min(int(start)-1, len(runes))
		end    = min(offset+int(count), len(runes))
	)
	return value.Text(runes[offset:end])
}

func execExact(env Env, args []value.Value) value.Value {
	left, err := toString(args[0], env.Locale())
	if err != nil {
		return err
	}
	right, err := toString(args[1], env.Locale())
	if err != nil {
		return err
	}
	return value.Boolean(left == right)
}

func execSearch(env Env, args []value.Value) value.Value {
	pattern, err := toString(args[0], env.Locale())
	if err != nil {
		return err
	}
	str, err := toString(args[1], env.Locale())
	if err != nil {
		return err
	}
	start, err := optFloat(args, 2, 1, env.Locale())
	if err != nil {
		return err
	}
	runes := []rune(str)
	if start < 1 || int(start) > len(runes)+1 {
		return value.ErrValue
	}
	offset := int(start) - 1
	ix := wildcard.Search(string(runes[offset:]), pattern)
	if ix < 0 {
		return value.ErrValue
	}
	return value.Float(ix + offset + 1)
}

func execRept(env Env, args []value.Value) value.Value {
	str, err := toString(args[0], env.Locale())
	if err != nil {
		return err
	}
	count, err := toFloat(args[1], env.Locale())
	if err != nil {
		return err
	}
	if count < 0 || len(str)*int(count) > maxText {
		return value.ErrValue
	}
	return value.Text(strings.Repeat(str, int(count)))
}

const maxText = 32767
