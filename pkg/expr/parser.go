package expr

import (
	"slices"
	"strings"

	"github.com/danielb987/SuperCalculator/pkg/types"
)

// DefaultMaxDepth is the nesting depth allowed when none is configured.
const DefaultMaxDepth = 256

// Parser is a recursive descent parser for calculator expressions. A Parser
// may be reused but is not safe for concurrent use.
type Parser struct {
	vars     Variables
	maxDepth int

	tokens []Token
	depth  int
}

// state is the parser cursor. Rules receive a state and return a new one, so
// a rule that does not match leaves the caller's cursor untouched.
type state struct {
	index   int // next token to consume
	lastPos int // offset one past the last consumed token
}

// rule recognizes one grammar construct. A nil node with a nil error means
// the rule did not match at the given state.
type rule func(s state) (Node, state, error)

// NewParser creates a parser that resolves identifiers through vars. A
// maxDepth of zero or less selects DefaultMaxDepth.
func NewParser(vars Variables, maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{vars: vars, maxDepth: maxDepth}
}

// ParseExpression parses a complete expression with the default depth limit.
func ParseExpression(input string, vars Variables) (Node, error) {
	return NewParser(vars, DefaultMaxDepth).Parse(input)
}

// Parse parses input into a single AST node consuming every token.
func (p *Parser) Parse(input string) (Node, error) {
	if strings.TrimSpace(input) == "" {
		return nil, types.ErrEmptyExpression
	}

	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, types.ErrEmptyExpression
	}

	p.tokens = tokens
	p.depth = 0
	defer func() { p.tokens = nil }()

	node, s, err := p.parseOr(state{})
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, types.NewSyntaxError(tokens[0].Pos)
	}
	if s.index < len(tokens) {
		return nil, types.NewNotFullyParsedError(tokens[s.index].Pos)
	}
	return node, nil
}

// --- Token helpers ---

func (p *Parser) current(s state) Token {
	if s.index < len(p.tokens) {
		return p.tokens[s.index]
	}
	return Token{Type: TokenNone, Pos: s.lastPos}
}

func (p *Parser) advance(s state) state {
	return state{index: s.index + 1, lastPos: p.tokens[s.index].End()}
}

// enter increases the nesting depth. Callers must defer leave.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return types.NewTooComplexError(p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// required runs r and turns a non-match into a syntax error at the current
// token.
func (p *Parser) required(r rule, s state) (Node, state, error) {
	node, next, err := r(s)
	if err != nil {
		return nil, s, err
	}
	if node == nil {
		return nil, s, types.NewSyntaxError(p.current(s).Pos)
	}
	return node, next, nil
}

// binary parses a left-associative chain of operators from ops with operands
// recognized by next, folding each step into the accumulated left node.
func (p *Parser) binary(s state, next rule, build func(op TokenType, left, right Node) Node, ops ...TokenType) (Node, state, error) {
	left, s, err := next(s)
	if err != nil || left == nil {
		return left, s, err
	}

	for {
		tok := p.current(s)
		if !slices.Contains(ops, tok.Type) {
			return left, s, nil
		}
		right, after, err := p.required(next, p.advance(s))
		if err != nil {
			return nil, s, err
		}
		left = build(tok.Type, left, right)
		s = after
	}
}

func arithmetic(op TokenType, left, right Node) Node {
	return &ArithmeticNode{Op: op, Left: left, Right: right}
}

func comparison(op TokenType, left, right Node) Node {
	return &ComparisonNode{Op: op, Left: left, Right: right}
}

func boolean(op TokenType, left, right Node) Node {
	return &BooleanNode{Op: op, Left: left, Right: right}
}

// --- Grammar rules, loosest binding first ---

func (p *Parser) parseOr(s state) (Node, state, error) {
	if err := p.enter(); err != nil {
		return nil, s, err
	}
	defer p.leave()
	return p.binary(s, p.parseAnd, boolean, TokenBooleanOr)
}

func (p *Parser) parseAnd(s state) (Node, state, error) {
	return p.binary(s, p.parseBitwiseOr, boolean, TokenBooleanAnd)
}

func (p *Parser) parseBitwiseOr(s state) (Node, state, error) {
	return p.binary(s, p.parseBitwiseXor, arithmetic, TokenBitwiseOr)
}

func (p *Parser) parseBitwiseXor(s state) (Node, state, error) {
	return p.binary(s, p.parseBitwiseAnd, arithmetic, TokenBitwiseXor)
}

func (p *Parser) parseBitwiseAnd(s state) (Node, state, error) {
	return p.binary(s, p.parseEquality, arithmetic, TokenBitwiseAnd)
}

func (p *Parser) parseEquality(s state) (Node, state, error) {
	return p.binary(s, p.parseRelational, comparison, TokenEqual, TokenNotEqual)
}

func (p *Parser) parseRelational(s state) (Node, state, error) {
	return p.binary(s, p.parseShift, comparison,
		TokenLessThan, TokenLessOrEqual, TokenGreaterThan, TokenGreaterOrEqual)
}

func (p *Parser) parseShift(s state) (Node, state, error) {
	return p.binary(s, p.parseAdditive, arithmetic, TokenShiftLeft, TokenShiftRight)
}

func (p *Parser) parseAdditive(s state) (Node, state, error) {
	return p.binary(s, p.parseMultiplicative, arithmetic, TokenAdd, TokenSubtract)
}

func (p *Parser) parseMultiplicative(s state) (Node, state, error) {
	return p.binary(s, p.parseUnary, arithmetic, TokenMultiply, TokenDivide, TokenModulo)
}

// parseUnary handles the right-associative prefix operators ! ~ and -.
func (p *Parser) parseUnary(s state) (Node, state, error) {
	tok := p.current(s)
	switch tok.Type {
	case TokenBooleanNot, TokenBinaryNot, TokenSubtract:
	default:
		return p.parseParenthesized(s)
	}

	if err := p.enter(); err != nil {
		return nil, s, err
	}
	defer p.leave()

	operand, next, err := p.required(p.parseUnary, p.advance(s))
	if err != nil {
		return nil, s, err
	}
	if tok.Type == TokenBooleanNot {
		return &BooleanNode{Op: tok.Type, Right: operand}, next, nil
	}
	return &ArithmeticNode{Op: tok.Type, Right: operand}, next, nil
}

func (p *Parser) parseParenthesized(s state) (Node, state, error) {
	if p.current(s).Type != TokenLeftParen {
		return p.parseAtom(s)
	}

	inner, next, err := p.required(p.parseOr, p.advance(s))
	if err != nil {
		return nil, s, err
	}
	if tok := p.current(next); tok.Type != TokenRightParen {
		return nil, s, types.NewSyntaxError(tok.Pos)
	}
	return inner, p.advance(next), nil
}

func (p *Parser) parseAtom(s state) (Node, state, error) {
	tok := p.current(s)
	switch tok.Type {
	case TokenInt:
		return &IntNode{Value: tok.IntVal, Text: tok.Value}, p.advance(s), nil
	case TokenFloat:
		return &FloatNode{Value: tok.FloatVal, Text: tok.Value}, p.advance(s), nil
	case TokenString:
		return &StringNode{Value: tok.StrVal}, p.advance(s), nil
	case TokenIdent:
		next := p.advance(s)
		if p.current(next).Type == TokenLeftParen {
			args, after, err := p.parseArgList(p.advance(next))
			if err != nil {
				return nil, s, err
			}
			return &CallNode{Name: tok.Value, Args: args}, after, nil
		}
		if p.vars == nil {
			return nil, s, types.NewIdentifierNotFoundError(tok.Value)
		}
		v, ok := p.vars.Lookup(tok.Value)
		if !ok {
			return nil, s, types.NewIdentifierNotFoundError(tok.Value)
		}
		return &IdentNode{Name: tok.Value, Var: v}, next, nil
	}
	return nil, s, nil
}

// parseArgList parses the arguments of a call. s is positioned just after
// the opening parenthesis; the returned state is just after the closing one.
func (p *Parser) parseArgList(s state) ([]Node, state, error) {
	if p.current(s).Type == TokenRightParen {
		return nil, p.advance(s), nil
	}

	var args []Node
	for {
		arg, next, err := p.required(p.parseOr, s)
		if err != nil {
			return nil, s, err
		}
		args = append(args, arg)

		switch tok := p.current(next); tok.Type {
		case TokenComma:
			s = p.advance(next)
		case TokenRightParen:
			return args, p.advance(next), nil
		default:
			return nil, s, types.NewSyntaxError(tok.Pos)
		}
	}
}
