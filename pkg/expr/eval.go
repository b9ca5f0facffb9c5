package expr

import (
	"fmt"
	"math"
	"strings"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// Evaluate evaluates an expression node. funcs resolves the functions named
// by call nodes and may be nil when the expression calls none.
func Evaluate(node Node, funcs Functions) (types.Value, error) {
	switch n := node.(type) {
	case *IntNode:
		return types.NewInt(n.Value), nil
	case *FloatNode:
		return types.NewDouble(n.Value), nil
	case *StringNode:
		return types.NewString(n.Value), nil
	case *IdentNode:
		return n.Var.Value(), nil
	case *ArithmeticNode:
		return evalArithmetic(n, funcs)
	case *ComparisonNode:
		return evalComparison(n, funcs)
	case *BooleanNode:
		return evalBoolean(n, funcs)
	case *CallNode:
		return evalCall(n, funcs)
	default:
		return types.Null, fmt.Errorf("unsupported expression node type: %T", node)
	}
}

// lazyArg defers evaluation of a call argument until the function asks.
type lazyArg struct {
	node  Node
	funcs Functions
}

func (a lazyArg) Evaluate() (types.Value, error) { return Evaluate(a.node, a.funcs) }
func (a lazyArg) Definition() string             { return Definition(a.node) }

func evalCall(n *CallNode, funcs Functions) (types.Value, error) {
	if funcs == nil {
		return types.Null, types.NewFunctionNotFoundError(n.Name)
	}
	fn, ok := funcs.Lookup(n.Name)
	if !ok {
		return types.Null, types.NewFunctionNotFoundError(n.Name)
	}

	args := make([]Argument, len(n.Args))
	for i, arg := range n.Args {
		args[i] = lazyArg{node: arg, funcs: funcs}
	}
	return fn.Call(args)
}

// normalize turns booleans into the integers 1 and 0.
func normalize(v types.Value) types.Value {
	if types.IsBool(v) {
		if v.AsBool() {
			return types.NewInt(1)
		}
		return types.NewInt(0)
	}
	return v
}

func evalOperands(left, right Node, funcs Functions) (types.Value, types.Value, error) {
	l, err := Evaluate(left, funcs)
	if err != nil {
		return types.Null, types.Null, err
	}
	r, err := Evaluate(right, funcs)
	if err != nil {
		return types.Null, types.Null, err
	}
	return l, r, nil
}

func evalArithmetic(n *ArithmeticNode, funcs Functions) (types.Value, error) {
	if n.Left == nil {
		operand, err := Evaluate(n.Right, funcs)
		if err != nil {
			return types.Null, err
		}
		return evalUnary(n.Op, operand)
	}

	left, right, err := evalOperands(n.Left, n.Right, funcs)
	if err != nil {
		return types.Null, err
	}
	op := n.Op.Symbol()
	l, r := normalize(left), normalize(right)

	switch n.Op {
	case TokenAdd:
		return evalAdd(left, right, l, r)
	case TokenSubtract:
		return evalNumeric(op, l, r,
			func(a, b int64) int64 { return a - b },
			func(a, b float64) float64 { return a - b })
	case TokenMultiply:
		return evalNumeric(op, l, r,
			func(a, b int64) int64 { return a * b },
			func(a, b float64) float64 { return a * b })
	case TokenDivide:
		if types.IsIntegerNumber(l) && types.IsIntegerNumber(r) && r.AsInt() == 0 {
			return types.Null, types.NewDivisionByZeroError(op, left, right)
		}
		return evalNumeric(op, l, r,
			func(a, b int64) int64 { return a / b },
			func(a, b float64) float64 { return a / b })
	case TokenModulo:
		return evalInteger(op, l, r, func(a, b int64) (int64, error) {
			if b == 0 {
				return 0, types.NewDivisionByZeroError(op, left, right)
			}
			return a % b, nil
		})
	case TokenBitwiseOr:
		return evalInteger(op, l, r, func(a, b int64) (int64, error) { return a | b, nil })
	case TokenBitwiseXor:
		return evalInteger(op, l, r, func(a, b int64) (int64, error) { return a ^ b, nil })
	case TokenBitwiseAnd:
		return evalInteger(op, l, r, func(a, b int64) (int64, error) { return a & b, nil })
	case TokenShiftLeft:
		return evalInteger(op, l, r, func(a, b int64) (int64, error) { return a << (b & 63), nil })
	case TokenShiftRight:
		return evalInteger(op, l, r, func(a, b int64) (int64, error) { return a >> (b & 63), nil })
	default:
		return types.Null, fmt.Errorf("unsupported arithmetic operator: %s", n.Op)
	}
}

// evalAdd adds two values. Two integers give an integer, two numbers of
// which at least one is a double give a double and two strings are
// concatenated. left and right are the operands as evaluated; l and r have
// booleans normalized.
func evalAdd(left, right, l, r types.Value) (types.Value, error) {
	switch {
	case types.IsIntegerNumber(l) && types.IsIntegerNumber(r):
		return types.NewInt(l.AsInt() + r.AsInt()), nil
	case types.IsFloatingNumber(l) && types.IsFloatingNumber(r):
		return types.NewDouble(types.ToDouble(l) + types.ToDouble(r)), nil
	case types.IsString(l) && types.IsString(r):
		return types.NewString(l.AsString() + r.AsString()), nil
	}
	return types.Null, types.NewIncompatibleOperandsError("+", left, right)
}

func evalNumeric(op string, l, r types.Value, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) (types.Value, error) {
	if !types.IsFloatingNumber(l) {
		return types.Null, types.NewNotANumberError(op, l)
	}
	if !types.IsFloatingNumber(r) {
		return types.Null, types.NewNotANumberError(op, r)
	}
	if types.IsIntegerNumber(l) && types.IsIntegerNumber(r) {
		return types.NewInt(intOp(l.AsInt(), r.AsInt())), nil
	}
	return types.NewDouble(floatOp(types.ToDouble(l), types.ToDouble(r))), nil
}

func evalInteger(op string, l, r types.Value, intOp func(int64, int64) (int64, error)) (types.Value, error) {
	if !types.IsIntegerNumber(l) {
		return types.Null, types.NewNotAnIntegerError(op, l)
	}
	if !types.IsIntegerNumber(r) {
		return types.Null, types.NewNotAnIntegerError(op, r)
	}
	result, err := intOp(l.AsInt(), r.AsInt())
	if err != nil {
		return types.Null, err
	}
	return types.NewInt(result), nil
}

func evalUnary(op TokenType, operand types.Value) (types.Value, error) {
	v := normalize(operand)
	switch op {
	case TokenBinaryNot:
		if !types.IsIntegerNumber(v) {
			return types.Null, types.NewNotAnIntegerError(op.Symbol(), operand)
		}
		return types.NewInt(^v.AsInt()), nil
	case TokenSubtract:
		switch {
		case types.IsIntegerNumber(v):
			return types.NewInt(-v.AsInt()), nil
		case types.IsFloatingNumber(v):
			return types.NewDouble(-v.AsDouble()), nil
		}
		return types.Null, types.NewNotANumberError(op.Symbol(), operand)
	default:
		return types.Null, fmt.Errorf("unsupported unary operator: %s", op)
	}
}

func evalComparison(n *ComparisonNode, funcs Functions) (types.Value, error) {
	left, right, err := evalOperands(n.Left, n.Right, funcs)
	if err != nil {
		return types.Null, err
	}
	l, r := normalize(left), normalize(right)

	var cmp int
	switch {
	case types.IsIntegerNumber(l) && types.IsIntegerNumber(r):
		cmp = compareOrdered(l.AsInt(), r.AsInt())
	case types.IsFloatingNumber(l) && types.IsFloatingNumber(r):
		a, b := types.ToDouble(l), types.ToDouble(r)
		if math.IsNaN(a) || math.IsNaN(b) {
			// NaN is unordered: only != holds.
			return types.NewBool(n.Op == TokenNotEqual), nil
		}
		cmp = compareOrdered(a, b)
	case types.IsString(l) && types.IsString(r):
		cmp = strings.Compare(l.AsString(), r.AsString())
	default:
		return types.Null, types.NewNotComparableError(n.Op.Symbol(), left, right)
	}

	switch n.Op {
	case TokenEqual:
		return types.NewBool(cmp == 0), nil
	case TokenNotEqual:
		return types.NewBool(cmp != 0), nil
	case TokenLessThan:
		return types.NewBool(cmp < 0), nil
	case TokenLessOrEqual:
		return types.NewBool(cmp <= 0), nil
	case TokenGreaterThan:
		return types.NewBool(cmp > 0), nil
	case TokenGreaterOrEqual:
		return types.NewBool(cmp >= 0), nil
	default:
		return types.Null, fmt.Errorf("unsupported comparison operator: %s", n.Op)
	}
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func evalBoolean(n *BooleanNode, funcs Functions) (types.Value, error) {
	if n.Op == TokenBooleanNot {
		operand, err := Evaluate(n.Right, funcs)
		if err != nil {
			return types.Null, err
		}
		return types.NewBool(!types.ToBool(operand)), nil
	}

	left, err := Evaluate(n.Left, funcs)
	if err != nil {
		return types.Null, err
	}
	l := types.ToBool(left)

	// Short-circuit
	switch n.Op {
	case TokenBooleanAnd:
		if !l {
			return types.NewBool(false), nil
		}
	case TokenBooleanOr:
		if l {
			return types.NewBool(true), nil
		}
	default:
		return types.Null, fmt.Errorf("unsupported boolean operator: %s", n.Op)
	}

	right, err := Evaluate(n.Right, funcs)
	if err != nil {
		return types.Null, err
	}
	return types.NewBool(types.ToBool(right)), nil
}
