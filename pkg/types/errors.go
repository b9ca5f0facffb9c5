package types

import (
	"errors"

	"golang.org/x/text/language"

	"github.com/danielb987/SuperCalculator/pkg/messages"
)

// ErrorKind classifies calculator failures.
type ErrorKind int

const (
	KindLex ErrorKind = iota + 1
	KindSyntax
	KindEmptyExpression
	KindTooComplex
	KindIdentifierNotFound
	KindFunctionNotFound
	KindParameterCount
	KindIllegalParameter
	KindIncompatibleOperands
	KindNotANumber
	KindNotAnInteger
	KindDivisionByZero
)

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "LexError"
	case KindSyntax:
		return "SyntaxError"
	case KindEmptyExpression:
		return "EmptyExpression"
	case KindTooComplex:
		return "ExpressionTooComplexError"
	case KindIdentifierNotFound:
		return "IdentifierNotFoundError"
	case KindFunctionNotFound:
		return "FunctionNotFoundError"
	case KindParameterCount:
		return "ParameterCountError"
	case KindIllegalParameter:
		return "IllegalParameterError"
	case KindIncompatibleOperands:
		return "IncompatibleOperandsError"
	case KindNotANumber:
		return "NotANumberError"
	case KindNotAnInteger:
		return "NotAnIntegerError"
	case KindDivisionByZero:
		return "DivisionByZeroError"
	default:
		return "UnknownError"
	}
}

// Error is a structured calculator failure. The message is rendered from the
// catalog entry named by Key with Args substituted positionally.
type Error struct {
	Kind ErrorKind
	Key  string
	Args []interface{}
	Op   string // operator, for operand errors
	Pos  int    // source position, -1 when unknown
}

// Error implements the error interface.
func (e *Error) Error() string {
	return messages.Format(e.Key, e.Args...)
}

// Localized renders the error message for the given language.
func (e *Error) Localized(tag language.Tag) string {
	return messages.FormatIn(tag, e.Key, e.Args...)
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrEmptyExpression) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// ErrEmptyExpression is returned when the source text holds no tokens.
var ErrEmptyExpression = &Error{Kind: KindEmptyExpression, Key: messages.EmptyExpression, Pos: -1}

// NewUnexpectedCharacterError creates a LexError for an unrecognized character.
func NewUnexpectedCharacterError(ch string, pos int) *Error {
	return &Error{Kind: KindLex, Key: messages.UnexpectedCharacter, Args: []interface{}{ch, pos}, Pos: pos}
}

// NewUnterminatedStringError creates a LexError for a string literal missing
// its closing quote.
func NewUnterminatedStringError(pos int) *Error {
	return &Error{Kind: KindLex, Key: messages.UnterminatedString, Args: []interface{}{pos}, Pos: pos}
}

// NewInvalidNumberError creates a LexError for a numeric literal that cannot
// be represented.
func NewInvalidNumberError(raw string, pos int) *Error {
	return &Error{Kind: KindLex, Key: messages.InvalidNumber, Args: []interface{}{raw, pos}, Pos: pos}
}

// NewSyntaxError creates a generic SyntaxError at byte offset pos. A
// negative pos gives the message without a position.
func NewSyntaxError(pos int) *Error {
	if pos < 0 {
		return &Error{Kind: KindSyntax, Key: messages.InvalidSyntax, Pos: pos}
	}
	return &Error{Kind: KindSyntax, Key: messages.InvalidSyntaxAtIndex, Args: []interface{}{pos}, Pos: pos}
}

// NewNotFullyParsedError creates the SyntaxError raised when tokens remain
// after a complete expression.
func NewNotFullyParsedError(pos int) *Error {
	return &Error{Kind: KindSyntax, Key: messages.InvalidSyntaxNotFullyParsed, Pos: pos}
}

// NewTooComplexError creates the error raised when nesting exceeds maxDepth.
func NewTooComplexError(maxDepth int) *Error {
	return &Error{Kind: KindTooComplex, Key: messages.ExpressionTooComplex, Args: []interface{}{maxDepth}, Pos: -1}
}

// NewIdentifierNotFoundError creates an IdentifierNotFoundError.
func NewIdentifierNotFoundError(name string) *Error {
	return &Error{Kind: KindIdentifierNotFound, Key: messages.IdentifierNotExists, Args: []interface{}{name}, Pos: -1}
}

// NewFunctionNotFoundError creates a FunctionNotFoundError.
func NewFunctionNotFoundError(name string) *Error {
	return &Error{Kind: KindFunctionNotFound, Key: messages.FunctionNotExists, Args: []interface{}{name}, Pos: -1}
}

// NewParameterCountError creates a ParameterCountError. A negative expected
// count means the function accepts several counts and none is reported.
func NewParameterCountError(function string, expected int) *Error {
	if expected < 0 {
		return &Error{Kind: KindParameterCount, Key: messages.WrongNumberOfParameters1, Args: []interface{}{function}, Pos: -1}
	}
	return &Error{Kind: KindParameterCount, Key: messages.WrongNumberOfParameters2, Args: []interface{}{function, expected}, Pos: -1}
}

// NewIllegalParameterError creates an IllegalParameterError. position is
// 1-based.
func NewIllegalParameterError(function string, position int, value Value) *Error {
	return &Error{Kind: KindIllegalParameter, Key: messages.IllegalParameter, Args: []interface{}{position, value.String(), function}, Pos: -1}
}

// NewIncompatibleOperandsError creates the error raised by + when the
// operand types cannot be combined.
func NewIncompatibleOperandsError(op string, left, right Value) *Error {
	return &Error{Kind: KindIncompatibleOperands, Key: messages.ArithmeticNotCompatibleOperands, Args: []interface{}{left.String(), right.String()}, Op: op, Pos: -1}
}

// NewNotComparableError creates the error raised by comparison operators
// on operands that are neither both numbers nor both strings.
func NewNotComparableError(op string, left, right Value) *Error {
	return &Error{Kind: KindIncompatibleOperands, Key: messages.ComparisonNotCompatibleOperands, Args: []interface{}{left.String(), right.String()}, Op: op, Pos: -1}
}

// NewNotANumberError creates a NotANumberError for the offending operand.
func NewNotANumberError(op string, operand Value) *Error {
	return &Error{Kind: KindNotANumber, Key: messages.ArithmeticNotNumberError, Args: []interface{}{operand.String()}, Op: op, Pos: -1}
}

// NewNotAnIntegerError creates a NotAnIntegerError for the offending operand.
func NewNotAnIntegerError(op string, operand Value) *Error {
	return &Error{Kind: KindNotAnInteger, Key: messages.ArithmeticNotIntegerNumberError, Args: []interface{}{operand.String()}, Op: op, Pos: -1}
}

// NewDivisionByZeroError creates the error raised by integer / and %.
func NewDivisionByZeroError(op string, left, right Value) *Error {
	return &Error{Kind: KindDivisionByZero, Key: messages.ArithmeticDivisionByZero, Args: []interface{}{left.String(), op, right.String()}, Op: op, Pos: -1}
}
