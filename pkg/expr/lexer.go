package expr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// Lexer tokenizes a calculator expression string.
type Lexer struct {
	input  string
	pos    int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans source and returns its tokens in source order.
func Tokenize(source string) ([]Token, error) {
	return NewLexer(source).Tokenize()
}

// Tokenize scans the entire input and returns all tokens. Input holding only
// whitespace yields an empty slice.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			return l.tokens, nil
		}
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
	}
}

// next returns the token starting at the current position.
func (l *Lexer) next() (Token, error) {
	ch := l.input[l.pos]

	if ch == '"' || ch == '\'' {
		return l.readString(ch)
	}

	if isDigit(ch) {
		return l.readNumber()
	}

	if isIdentStart(ch) {
		return l.readIdentifier(), nil
	}

	// Two-character operators take precedence over their one-character prefixes.
	if l.pos+1 < len(l.input) {
		var tt TokenType
		switch l.input[l.pos : l.pos+2] {
		case "==":
			tt = TokenEqual
		case "!=":
			tt = TokenNotEqual
		case "<=":
			tt = TokenLessOrEqual
		case ">=":
			tt = TokenGreaterOrEqual
		case "<<":
			tt = TokenShiftLeft
		case ">>":
			tt = TokenShiftRight
		case "&&":
			tt = TokenBooleanAnd
		case "||":
			tt = TokenBooleanOr
		}
		if tt != TokenNone {
			return l.emit(tt, 2), nil
		}
	}

	switch ch {
	case '+':
		return l.emit(TokenAdd, 1), nil
	case '-':
		return l.emit(TokenSubtract, 1), nil
	case '*':
		return l.emit(TokenMultiply, 1), nil
	case '/':
		return l.emit(TokenDivide, 1), nil
	case '%':
		return l.emit(TokenModulo, 1), nil
	case '<':
		return l.emit(TokenLessThan, 1), nil
	case '>':
		return l.emit(TokenGreaterThan, 1), nil
	case '!':
		return l.emit(TokenBooleanNot, 1), nil
	case '~':
		return l.emit(TokenBinaryNot, 1), nil
	case '&':
		return l.emit(TokenBitwiseAnd, 1), nil
	case '|':
		return l.emit(TokenBitwiseOr, 1), nil
	case '^':
		return l.emit(TokenBitwiseXor, 1), nil
	case '(':
		return l.emit(TokenLeftParen, 1), nil
	case ')':
		return l.emit(TokenRightParen, 1), nil
	case ',':
		return l.emit(TokenComma, 1), nil
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return Token{}, types.NewUnexpectedCharacterError(string(r), l.pos)
}

// emit consumes n bytes as a token of the given type.
func (l *Lexer) emit(tt TokenType, n int) Token {
	tok := Token{Type: tt, Value: l.input[l.pos : l.pos+n], Pos: l.pos}
	l.pos += n
	return tok
}

// readString reads a quoted string literal.
func (l *Lexer) readString(quote byte) (Token, error) {
	start := l.pos
	l.pos++ // skip opening quote

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos++
			escaped := l.input[l.pos]
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			default:
				sb.WriteByte('\\')
				sb.WriteByte(escaped)
			}
			l.pos++
			continue
		}
		if ch == quote {
			l.pos++ // skip closing quote
			return Token{
				Type:   TokenString,
				Value:  l.input[start:l.pos],
				StrVal: sb.String(),
				Pos:    start,
			}, nil
		}
		sb.WriteByte(ch)
		l.pos++
	}

	return Token{}, types.NewUnterminatedStringError(start)
}

// readNumber reads an integer or float literal. A '.' only belongs to the
// number when a digit follows it, and an exponent only when digits follow
// the 'e' and its optional sign.
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	isFloat := false

	l.skipDigits()
	if l.peekAt(0) == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.pos++
		l.skipDigits()
	}
	if c := l.peekAt(0); c == 'e' || c == 'E' {
		n := 1
		if s := l.peekAt(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(l.peekAt(n)) {
			isFloat = true
			l.pos += n
			l.skipDigits()
		}
	}

	raw := l.input[start:l.pos]
	if isFloat {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Token{}, types.NewInvalidNumberError(raw, start)
		}
		return Token{Type: TokenFloat, Value: raw, FloatVal: f, Pos: start}, nil
	}

	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Token{}, types.NewInvalidNumberError(raw, start)
	}
	return Token{Type: TokenInt, Value: raw, IntVal: i, Pos: start}, nil
}

// readIdentifier reads an identifier.
func (l *Lexer) readIdentifier() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	return Token{Type: TokenIdent, Value: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) skipDigits() {
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
}

// peekAt returns the byte offset bytes ahead of the current position, or 0
// past the end of input.
func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

// skipWhitespace skips Unicode white space. Bytes that are not valid UTF-8
// are left for next to reject.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if r == utf8.RuneError || !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
