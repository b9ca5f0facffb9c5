// Package expr implements the calculator expression language: a tokenizer,
// a recursive descent parser producing an AST, and the evaluator for that
// AST.
package expr

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenNone TokenType = iota // end marker

	// Arithmetic
	TokenAdd      // +
	TokenSubtract // -
	TokenMultiply // *
	TokenDivide   // /
	TokenModulo   // %

	// Logical
	TokenBooleanOr  // ||
	TokenBooleanAnd // &&
	TokenBooleanNot // !

	// Bitwise
	TokenBitwiseOr  // |
	TokenBitwiseXor // ^
	TokenBitwiseAnd // &
	TokenBinaryNot  // ~

	// Comparison
	TokenEqual          // ==
	TokenNotEqual       // !=
	TokenLessThan       // <
	TokenLessOrEqual    // <=
	TokenGreaterThan    // >
	TokenGreaterOrEqual // >=

	// Shift
	TokenShiftLeft  // <<
	TokenShiftRight // >>

	// Punctuation
	TokenLeftParen  // (
	TokenRightParen // )
	TokenComma      // ,

	// Identifiers and literals
	TokenIdent  // identifier
	TokenInt    // integer literal
	TokenFloat  // floating literal
	TokenString // string literal
)

// Token represents a single lexical token.
type Token struct {
	Type     TokenType
	Value    string  // matched lexeme
	IntVal   int64   // parsed int (for TokenInt)
	FloatVal float64 // parsed float (for TokenFloat)
	StrVal   string  // parsed string (for TokenString, with escapes resolved)
	Pos      int     // byte offset in source
}

// End returns the offset one past the token's lexeme.
func (t Token) End() int {
	return t.Pos + len(t.Value)
}

// String returns a debug-friendly representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenNone:
		return "NONE"
	case TokenAdd:
		return "ADD"
	case TokenSubtract:
		return "SUBTRACT"
	case TokenMultiply:
		return "MULTIPLY"
	case TokenDivide:
		return "DIVIDE"
	case TokenModulo:
		return "MODULO"
	case TokenBooleanOr:
		return "BOOLEAN_OR"
	case TokenBooleanAnd:
		return "BOOLEAN_AND"
	case TokenBooleanNot:
		return "BOOLEAN_NOT"
	case TokenBitwiseOr:
		return "BITWISE_OR"
	case TokenBitwiseXor:
		return "BITWISE_XOR"
	case TokenBitwiseAnd:
		return "BITWISE_AND"
	case TokenBinaryNot:
		return "BINARY_NOT"
	case TokenEqual:
		return "EQUAL"
	case TokenNotEqual:
		return "NOT_EQUAL"
	case TokenLessThan:
		return "LESS_THAN"
	case TokenLessOrEqual:
		return "LESS_OR_EQUAL"
	case TokenGreaterThan:
		return "GREATER_THAN"
	case TokenGreaterOrEqual:
		return "GREATER_OR_EQUAL"
	case TokenShiftLeft:
		return "SHIFT_LEFT"
	case TokenShiftRight:
		return "SHIFT_RIGHT"
	case TokenLeftParen:
		return "LEFT_PARENTHESIS"
	case TokenRightParen:
		return "RIGHT_PARENTHESIS"
	case TokenComma:
		return "COMMA"
	case TokenIdent:
		return "IDENTIFIER"
	case TokenInt:
		return "INTEGER_NUMBER"
	case TokenFloat:
		return "FLOATING_NUMBER"
	case TokenString:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns the operator lexeme for operator token types and "" for
// everything else.
func (t TokenType) Symbol() string {
	switch t {
	case TokenAdd:
		return "+"
	case TokenSubtract:
		return "-"
	case TokenMultiply:
		return "*"
	case TokenDivide:
		return "/"
	case TokenModulo:
		return "%"
	case TokenBooleanOr:
		return "||"
	case TokenBooleanAnd:
		return "&&"
	case TokenBooleanNot:
		return "!"
	case TokenBitwiseOr:
		return "|"
	case TokenBitwiseXor:
		return "^"
	case TokenBitwiseAnd:
		return "&"
	case TokenBinaryNot:
		return "~"
	case TokenEqual:
		return "=="
	case TokenNotEqual:
		return "!="
	case TokenLessThan:
		return "<"
	case TokenLessOrEqual:
		return "<="
	case TokenGreaterThan:
		return ">"
	case TokenGreaterOrEqual:
		return ">="
	case TokenShiftLeft:
		return "<<"
	case TokenShiftRight:
		return ">>"
	default:
		return ""
	}
}
