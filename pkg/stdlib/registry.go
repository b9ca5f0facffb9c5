// Package stdlib implements the calculator's built-in functions.
package stdlib

import (
	"sort"

	"github.com/danielb987/SuperCalculator/pkg/expr"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

// StdlibFunc is a function whose arguments are all evaluated, left to right,
// before it is called.
type StdlibFunc func(args []types.Value) (types.Value, error)

// LazyFunc is a function that receives its arguments unevaluated and forces
// only the ones it needs.
type LazyFunc func(args []expr.Argument) (types.Value, error)

// Provider contributes a set of functions to a registry.
type Provider interface {
	Register(r *Registry)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(r *Registry)

// Register implements Provider.
func (f ProviderFunc) Register(r *Registry) { f(r) }

// Builtins are the providers installed by NewRegistry.
var Builtins = []Provider{
	ProviderFunc(registerConversions),
	ProviderFunc(registerMath),
	ProviderFunc(registerText),
	ProviderFunc(registerBase64),
	ProviderFunc(registerJSON),
	ProviderFunc(registerHash),
	ProviderFunc(registerUUID),
	ProviderFunc(registerTime),
	ProviderFunc(registerSys),
}

// Registry maps function names to implementations and serves as the
// expr.Functions used during evaluation. It is filled before use and only
// read afterwards.
type Registry struct {
	funcs map[string]*function
}

// NewRegistry creates a registry with all built-in functions installed.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, p := range Builtins {
		r.Install(p)
	}
	return r
}

// NewEmptyRegistry creates a registry without any functions.
func NewEmptyRegistry() *Registry {
	return &Registry{funcs: make(map[string]*function)}
}

// Install registers every function of p.
func (r *Registry) Install(p Provider) {
	p.Register(r)
}

// Register adds a function whose arguments are evaluated eagerly. A call
// with fewer than min or more than max arguments fails with a parameter
// count error before any argument is evaluated. A negative max means no
// upper bound.
func (r *Registry) Register(name string, min, max int, fn StdlibFunc) {
	r.RegisterLazy(name, min, max, func(args []expr.Argument) (types.Value, error) {
		values, err := evalArgs(args)
		if err != nil {
			return types.Null, err
		}
		return fn(values)
	})
}

// RegisterLazy adds a function that decides which arguments to evaluate.
// The argument count is checked as for Register.
func (r *Registry) RegisterLazy(name string, min, max int, fn LazyFunc) {
	r.funcs[name] = &function{name: name, min: min, max: max, fn: fn}
}

// Lookup implements expr.Functions.
func (r *Registry) Lookup(name string) (expr.Function, bool) {
	f, ok := r.funcs[name]
	if !ok {
		return nil, false
	}
	return f, true
}

// Names returns the sorted names of all registered functions.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// function is a registered expr.Function.
type function struct {
	name     string
	min, max int
	fn       LazyFunc
}

func (f *function) Name() string { return f.name }

func (f *function) Call(args []expr.Argument) (types.Value, error) {
	if err := requireArgs(f.name, len(args), f.min, f.max); err != nil {
		return types.Null, err
	}
	return f.fn(args)
}

func evalArgs(args []expr.Argument) ([]types.Value, error) {
	values := make([]types.Value, len(args))
	for i, arg := range args {
		v, err := arg.Evaluate()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// requireArgs checks that the number of args is in range. A negative max
// means no upper bound.
func requireArgs(name string, n, min, max int) error {
	if n < min || (max >= 0 && n > max) {
		if min == max {
			return types.NewParameterCountError(name, min)
		}
		return types.NewParameterCountError(name, -1)
	}
	return nil
}

// numberArg returns v as a float64, or an IllegalParameter error for the
// 1-based position pos.
func numberArg(name string, pos int, v types.Value) (float64, error) {
	if !types.IsFloatingNumber(v) {
		return 0, types.NewIllegalParameterError(name, pos, v)
	}
	return types.ToDouble(v), nil
}

// stringArg returns v as a string, or an IllegalParameter error for the
// 1-based position pos.
func stringArg(name string, pos int, v types.Value) (string, error) {
	if !types.IsString(v) {
		return "", types.NewIllegalParameterError(name, pos, v)
	}
	return v.AsString(), nil
}
