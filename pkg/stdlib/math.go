package stdlib

import (
	"math"
	"math/rand"

	"github.com/danielb987/SuperCalculator/pkg/expr"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

// registerMath registers the mathematical functions.
func registerMath(r *Registry) {
	r.Register("random", 0, 0, mathRandom)
	r.RegisterLazy("sin", 1, 4, mathSin)
	r.Register("cos", 1, 2, trig("cos", math.Cos))
	r.Register("tan", 1, 2, trig("tan", math.Tan))
	r.Register("sqrt", 1, 1, unary("sqrt", math.Sqrt))
	r.Register("pow", 2, 2, mathPow)
	r.Register("abs", 1, 1, mathAbs)
	r.Register("floor", 1, 1, rounding("floor", math.Floor))
	r.Register("ceil", 1, 1, rounding("ceil", math.Ceil))
	r.Register("round", 1, 1, rounding("round", math.Round))
	r.Register("min", 1, -1, extremum("min", func(a, b float64) bool { return a < b }))
	r.Register("max", 1, -1, extremum("max", func(a, b float64) bool { return a > b }))
}

// mathRandom returns a pseudo-random double in [0, 1).
func mathRandom(args []types.Value) (types.Value, error) {
	return types.NewDouble(rand.Float64()), nil
}

// angle converts the first argument to radians. The optional second
// argument is the unit: "rad", "deg" or a number n, in which case the angle
// is x*n/(2*pi).
func angle(name string, args []types.Value) (float64, error) {
	x := types.ToDouble(args[0])
	if len(args) == 1 {
		return x, nil
	}

	unit := args[1]
	switch {
	case types.IsString(unit):
		switch unit.AsString() {
		case "rad":
			return x, nil
		case "deg":
			return x * math.Pi / 180, nil
		}
	case types.IsFloatingNumber(unit):
		return x * types.ToDouble(unit) / 2 / math.Pi, nil
	}
	return 0, types.NewIllegalParameterError(name, 2, unit)
}

// mathSin supports sin(x), sin(x, unit) and sin(x, unit, min, max). The
// four argument form scales the result from [-1, 1] into [min, max].
func mathSin(params []expr.Argument) (types.Value, error) {
	if len(params) == 3 {
		return types.Null, types.NewParameterCountError("sin", -1)
	}
	args, err := evalArgs(params)
	if err != nil {
		return types.Null, err
	}

	a, err := angle("sin", args)
	if err != nil {
		return types.Null, err
	}
	result := math.Sin(a)
	if len(args) == 4 {
		lo, hi := types.ToDouble(args[2]), types.ToDouble(args[3])
		result = (result+1)*(hi-lo)/2 + lo
	}
	return types.NewDouble(result), nil
}

func trig(name string, fn func(float64) float64) StdlibFunc {
	return func(args []types.Value) (types.Value, error) {
		a, err := angle(name, args)
		if err != nil {
			return types.Null, err
		}
		return types.NewDouble(fn(a)), nil
	}
}

func unary(name string, fn func(float64) float64) StdlibFunc {
	return func(args []types.Value) (types.Value, error) {
		x, err := numberArg(name, 1, args[0])
		if err != nil {
			return types.Null, err
		}
		return types.NewDouble(fn(x)), nil
	}
}

func mathPow(args []types.Value) (types.Value, error) {
	base, err := numberArg("pow", 1, args[0])
	if err != nil {
		return types.Null, err
	}
	exp, err := numberArg("pow", 2, args[1])
	if err != nil {
		return types.Null, err
	}
	return types.NewDouble(math.Pow(base, exp)), nil
}

func mathAbs(args []types.Value) (types.Value, error) {
	v := args[0]
	switch v.Type() {
	case types.TypeInt:
		i := v.AsInt()
		if i < 0 {
			return types.NewInt(-i), nil
		}
		return v, nil
	case types.TypeDouble:
		return types.NewDouble(math.Abs(v.AsDouble())), nil
	default:
		return types.Null, types.NewIllegalParameterError("abs", 1, v)
	}
}

// rounding returns integers unchanged and rounds doubles to an integer.
func rounding(name string, fn func(float64) float64) StdlibFunc {
	return func(args []types.Value) (types.Value, error) {
		v := args[0]
		switch v.Type() {
		case types.TypeInt:
			return v, nil
		case types.TypeDouble:
			return types.NewInt(types.ToInt(types.NewDouble(fn(v.AsDouble())))), nil
		default:
			return types.Null, types.NewIllegalParameterError(name, 1, v)
		}
	}
}

// extremum returns the argument for which better holds against all others.
// The winning argument keeps its type.
func extremum(name string, better func(a, b float64) bool) StdlibFunc {
	return func(args []types.Value) (types.Value, error) {
		best := args[0]
		bestNum, err := numberArg(name, 1, best)
		if err != nil {
			return types.Null, err
		}
		for i, v := range args[1:] {
			n, err := numberArg(name, i+2, v)
			if err != nil {
				return types.Null, err
			}
			if better(n, bestNum) {
				best, bestNum = v, n
			}
		}
		return best, nil
	}
}
