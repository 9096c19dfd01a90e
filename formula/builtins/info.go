package builtins

import (
	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

func registerInfo(r *Registry) {
	r.Register("ISERROR", 1, 1, execIsError, Traps)
	r.Register("ISNA", 1, 1, execIsNA, Traps)
	r.Register("ISBLANK", 1, 1, execIsBlank, Traps)
	r.Register("ISNUMBER", 1, 1, execIsNumber, Traps)
	r.Register("ISTEXT", 1, 1, execIsText, Traps)
	r.Register("NA", 0, 0, execNA)
	r.Register("ROW", 0, 1, execRow, Reference, Contextual)
	r.Register("COLUMN", 0, 1, execColumn, Reference, Contextual)
	r.Register("ROWS", 1, 1, execRows, Reference)
	r.Register("COLUMNS", 1, 1, execColumns, Reference)
}

func execIsError(_ Env, args []value.Value) value.Value {
	_, ok := value.IsError(scalar(args[0]))
	return value.Boolean(ok)
}

func execIsNA(_ Env, args []value.Value) value.Value {
	err, ok := value.IsError(scalar(args[0]))
	return value.Boolean(ok && err == value.ErrNA)
}

func execIsBlank(_ Env, args []value.Value) value.Value {
	return value.Boolean(value.IsBlank(scalar(args[0])))
}

func execIsNumber(_ Env, args []value.Value) value.Value {
	return value.Boolean(value.IsNumber(scalar(args[0])))
}

func execIsText(_ Env, args []value.Value) value.Value {
	return value.Boolean(value.IsText(scalar(args[0])))
}

func execNA(_ Env, _ []value.Value) value.Value {
	return value.ErrNA
}

func execRow(env Env, args []value.Value) value.Value {
	pos, err := position(env, args)
	if err != nil {
		return err
	}
	return value.Float(pos.Line)
}

func execColumn(env Env, args []value.Value) value.Value {
	pos, err := position(env, args)
	if err != nil {
		return err
	}
	return value.Float(pos.Column)
}

func position(env Env, args []value.Value) (layout.Position, value.Value) {
	if len(args) == 0 {
		return env.Anchor(), nil
	}
	switch a := args[0].(type) {
	case value.Reference:
		return a.Area().Starts, nil
	case value.Error:
		return layout.Position{}, a
	default:
		return layout.Position{}, value.ErrValue
	}
}

func execRows(_ Env, args []value.Value) value.Value {
	dim, err := dimension(args[0])
	if err != nil {
		return err
	}
	return value.Float(dim.Lines)
}

func execColumns(_ Env, args []value.Value) value.Value {
	dim, err := dimension(args[0])
	if err != nil {
		return err
	}
	return value.Float(dim.Columns)
}

func dimension(arg value.Value) (layout.Dimension, value.Value) {
	switch a := arg.(type) {
	case value.Reference:
		return a.Area().Dimension(), nil
	case value.Array:
		return a.Dimension(), nil
	case value.Error:
		return layout.Dimension{}, a
	default:
		return layout.Dimension{Lines: 1, Columns: 1}, nil
	}
}
