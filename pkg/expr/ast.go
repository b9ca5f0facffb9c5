package expr

import (
	"strings"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// Node is the interface for all expression AST nodes. The set of node types
// is closed; Evaluate and Definition switch over all of them.
type Node interface {
	nodeType() string
}

// Variable is a named holder whose value may change between evaluations.
type Variable interface {
	Name() string
	Value() types.Value
}

// Variables resolves identifiers while parsing.
type Variables interface {
	Lookup(name string) (Variable, bool)
}

// Argument is an unevaluated function argument. Functions force the
// arguments they need, in the order they need them.
type Argument interface {
	Evaluate() (types.Value, error)
	Definition() string
}

// Function is a callable registered under a name.
type Function interface {
	Name() string
	Call(args []Argument) (types.Value, error)
}

// Functions resolves function names at evaluation time.
type Functions interface {
	Lookup(name string) (Function, bool)
}

// IntNode is an integer literal.
type IntNode struct {
	Value int64
	Text  string
}

func (n *IntNode) nodeType() string { return "IntNumber" }

// FloatNode is a floating point literal.
type FloatNode struct {
	Value float64
	Text  string
}

func (n *FloatNode) nodeType() string { return "FloatNumber" }

// StringNode is a string literal with escapes resolved.
type StringNode struct {
	Value string
}

func (n *StringNode) nodeType() string { return "String" }

// IdentNode references a variable. The holder is resolved when the node is
// built and read again on every evaluation.
type IdentNode struct {
	Name string
	Var  Variable
}

func (n *IdentNode) nodeType() string { return "Identifier" }

// ArithmeticNode is an arithmetic or bitwise operation. Left is nil for the
// unary operators ~ and -.
type ArithmeticNode struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (n *ArithmeticNode) nodeType() string { return "Arithmetic" }

// ComparisonNode compares two operands and yields a bool.
type ComparisonNode struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (n *ComparisonNode) nodeType() string { return "Comparison" }

// BooleanNode is && or || (short-circuit) or unary ! (Left is nil).
type BooleanNode struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (n *BooleanNode) nodeType() string { return "Boolean" }

// CallNode is a function call. Arguments are kept unevaluated.
type CallNode struct {
	Name string
	Args []Node
}

func (n *CallNode) nodeType() string { return "Function" }

// Definition renders a node as a fully parenthesized string, for example
// "(IntNumber:1)+((IntNumber:2)*(IntNumber:3))".
func Definition(node Node) string {
	var sb strings.Builder
	writeDefinition(&sb, node)
	return sb.String()
}

func writeDefinition(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case *IntNode:
		sb.WriteString("IntNumber:")
		sb.WriteString(n.Text)
	case *FloatNode:
		sb.WriteString("FloatNumber:")
		sb.WriteString(n.Text)
	case *StringNode:
		sb.WriteString("String:")
		sb.WriteString(n.Value)
	case *IdentNode:
		sb.WriteString("Identifier:")
		sb.WriteString(n.Name)
	case *ArithmeticNode:
		writeOperator(sb, n.Op, n.Left, n.Right)
	case *ComparisonNode:
		writeOperator(sb, n.Op, n.Left, n.Right)
	case *BooleanNode:
		writeOperator(sb, n.Op, n.Left, n.Right)
	case *CallNode:
		sb.WriteString("Function:")
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeDefinition(sb, arg)
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("?")
	}
}

func writeOperator(sb *strings.Builder, op TokenType, left, right Node) {
	if left != nil {
		sb.WriteByte('(')
		writeDefinition(sb, left)
		sb.WriteByte(')')
	}
	sb.WriteString(op.Symbol())
	sb.WriteByte('(')
	writeDefinition(sb, right)
	sb.WriteByte(')')
}
