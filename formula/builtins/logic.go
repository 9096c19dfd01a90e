package builtins

import (
	"github.com/midbel/sheetcalc/value"
)

func registerLogic(r *Registry) {
	r.Register("IF", 2, 3, execIf, Traps)
	r.Register("NOT", 1, 1, execNot)
	r.Register("AND", 1, Variadic, execAnd, Reducing)
	r.Register("OR", 1, Variadic, execOr, Reducing)
	r.Register("TRUE", 0, 0, execTrue)
	r.Register("FALSE", 0, 0, execFalse)
	r.Register("IFERROR", 2, 2, execIfError, Traps)
	r.Register("IFNA", 2, 2, execIfNA, Traps)
}

func execIf(env Env, args []value.Value) value.Value {
	ok, err := toBool(args[0], env.Locale())
	if err != nil {
		return err
	}
	if ok {
		return scalar(args[1])
	}
	if len(args) > 2 {
		return scalar(args[2])
	}
	return value.Boolean(false)
}

func execNot(env Env, args []value.Value) value.Value {
	ok, err := toBool(args[0], env.Locale())
	if err != nil {
		return err
	}
	return value.Boolean(!ok)
}

func execAnd(env Env, args []value.Value) value.Value {
	return logical(env, args, func(acc, b bool) bool {
		return acc && b
	}, true)
}

func execOr(env Env, args []value.Value) value.Value {
	return logical(env, args, func(acc, b bool) bool {
		return acc || b
	}, false)
}

func logical(env Env, args []value.Value, do func(bool, bool) bool, init bool) value.Value {
	var (
		acc   = init
		found bool
		fail  value.Value
	)
	each(args, func(v value.ScalarValue, direct bool) bool {
		if err, ok := value.IsError(v); ok {
			fail = err
			return false
		}
		switch v.(type) {
		case value.Boolean, value.Float:
		case value.Text:
			if !direct {
				return true
			}
		default:
			return true
		}
		b, err := toBool(v, env.Locale())
		if err != nil {
			fail = err
			return false
		}
		acc = do(acc, b)
		found = true
		return true
	})
	if fail != nil {
		return fail
	}
	if !found {
		return value.ErrValue
	}
	return value.Boolean(acc)
}

func execTrue(_ Env, _ []value.Value) value.Value {
	return value.Boolean(true)
}

func execFalse(_ Env, _ []value.Value) value.Value {
	return value.Boolean(false)
}

func execIfError(_ Env, args []value.Value) value.Value {
	if _, ok := value.IsError(scalar(args[0])); ok {
		return scalar(args[1])
	}
	return scalar(args[0])
}

func execIfNA(_ Env, args []value.Value) value.Value {
	if err, ok := value.IsError(scalar(args[0])); ok && err == value.ErrNA {
		return scalar(args[1])
	}
	return scalar(args[0])
}
