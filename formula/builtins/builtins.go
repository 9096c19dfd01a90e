package builtins

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/midbel/sheetcalc/layout"
	"github.com/midbel/sheetcalc/value"
)

var (
	ErrNotFound = errors.New("function not found")
	ErrArity    = errors.New("invalid number of arguments")
)

// Flag describes how the evaluator prepares the arguments of a function
// and how it uses its result.
type Flag int8

const (
	// Reducing functions receive whole arrays and return a single value.
	Reducing Flag = 1 << iota
	// Traps functions receive error arguments instead of propagating them.
	Traps
	// Reference functions receive unresolved references.
	Reference
	// Contextual functions read the position of the evaluated cell.
	Contextual
	// Volatile functions give a different result on each call.
	Volatile
)

// Variadic is the maximum number of arguments of a function accepting
// any number of arguments.
const Variadic = 255

// Env gives to a function the context in which it is called.
type Env interface {
	Anchor() layout.Position
	Locale() value.Locale
}

type Func func(env Env, args []value.Value) value.Value

type Builtin struct {
	Name  string
	Min   int
	Max   int
	Flags Flag
	Fn    Func
}

func (b Builtin) Is(flag Flag) bool {
	return b.Flags&flag != 0
}

func (b Builtin) Scalar() bool {
	return !b.Is(Reducing) && !b.Is(Reference)
}

func (b Builtin) Check(n int) error {
	if n < b.Min || n > b.Max {
		return fmt.Errorf("%s: %w: %d given (min: %d, max: %d)", b.Name, ErrArity, n, b.Min, b.Max)
	}
	return nil
}

func (b Builtin) Call(env Env, args []value.Value) value.Value {
	if err := b.Check(len(args)); err != nil {
		return value.ErrValue
	}
	return b.Fn(env, args)
}

// Registry maps function names to their implementation. Names are case
// insensitive.
type Registry struct {
	funcs map[string]Builtin
}

func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]Builtin),
	}
}

// Default gives a new registry filled with the builtin library.
func Default() *Registry {
	r := NewRegistry()
	registerMath(r)
	registerText(r)
	registerLogic(r)
	registerInfo(r)
	return r
}

// Register adds a function to the registry, replacing any function
// registered with the same name.
func (r *Registry) Register(name string, min, max int, fn Func, flags ...Flag) {
	if min < 0 || max < min {
		panic(fmt.Sprintf("%s: invalid arity %d..%d", name, min, max))
	}
	name = strings.ToUpper(name)
	b := Builtin{
		Name: name,
		Min:  min,
		Max:  max,
		Fn:   fn,
	}
	for _, f := range flags {
		b.Flags |= f
	}
	r.funcs[name] = b
}

func (r *Registry) Resolve(name string) (Builtin, error) {
	b, ok := r.funcs[strings.ToUpper(name)]
	if !ok {
		return b, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return b, nil
}

func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}
