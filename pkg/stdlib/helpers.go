package stdlib

import (
	"unicode/utf8"

	"github.com/danielb987/SuperCalculator/pkg/expr"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

// registerConversions registers the conversion and helper functions:
// int, long, double, string, bool, type, len, if.
func registerConversions(r *Registry) {
	r.Register("int", 1, 1, stdInt)
	r.Register("long", 1, 1, stdLong)
	r.Register("double", 1, 1, stdDouble)
	r.Register("string", 1, 1, stdString)
	r.Register("bool", 1, 1, stdBool)
	r.Register("type", 1, 1, stdType)
	r.Register("len", 1, 1, stdLen)
	r.RegisterLazy("if", 3, 3, stdIf)
}

// stdInt converts to a 32-bit integer, dropping the high bits like a
// narrowing cast.
func stdInt(args []types.Value) (types.Value, error) {
	return types.NewInt(int64(int32(types.ToInt(args[0])))), nil
}

func stdLong(args []types.Value) (types.Value, error) {
	return types.NewInt(types.ToInt(args[0])), nil
}

func stdDouble(args []types.Value) (types.Value, error) {
	return types.NewDouble(types.ToDouble(args[0])), nil
}

func stdString(args []types.Value) (types.Value, error) {
	return types.NewString(types.ToString(args[0])), nil
}

func stdBool(args []types.Value) (types.Value, error) {
	return types.NewBool(types.ToBool(args[0])), nil
}

func stdType(args []types.Value) (types.Value, error) {
	return types.NewString(args[0].Type().String()), nil
}

// stdLen returns the number of characters of a string.
func stdLen(args []types.Value) (types.Value, error) {
	s, err := stringArg("len", 1, args[0])
	if err != nil {
		return types.Null, err
	}
	return types.NewInt(int64(utf8.RuneCountInString(s))), nil
}

// stdIf evaluates the condition and then only the selected branch.
func stdIf(args []expr.Argument) (types.Value, error) {
	cond, err := args[0].Evaluate()
	if err != nil {
		return types.Null, err
	}
	if types.ToBool(cond) {
		return args[1].Evaluate()
	}
	return args[2].Evaluate()
}
