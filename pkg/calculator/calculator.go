// Package calculator ties the parser, the variable scope and the function
// library together behind a single entry point.
package calculator

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/text/language"

	"github.com/danielb987/SuperCalculator/pkg/config"
	"github.com/danielb987/SuperCalculator/pkg/expr"
	"github.com/danielb987/SuperCalculator/pkg/scope"
	"github.com/danielb987/SuperCalculator/pkg/stdlib"
	"github.com/danielb987/SuperCalculator/pkg/store"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

// Calculator evaluates expression text against its variables and functions.
// It is safe for concurrent use.
type Calculator struct {
	scope     *scope.VariableScope
	funcs     *stdlib.Registry
	maxDepth  int
	lang      language.Tag
	localizer *types.Localizer
	debug     bool
}

// Result is the outcome of one evaluation.
type Result struct {
	Expression string
	Definition string // empty when parsing failed
	Value      types.Value
	Err        error
}

// New creates a calculator from cfg. A nil cfg uses config.Default.
func New(cfg *config.Config) (*Calculator, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	c := &Calculator{
		scope:    scope.NewScope(),
		funcs:    stdlib.NewRegistry(),
		maxDepth: cfg.MaxDepth,
		lang:     cfg.Language(),
		debug:    cfg.Debug,
	}
	if cfg.Localize {
		c.localizer = types.NewLocalizer(c.lang)
	}

	c.scope.DefineConstants()
	values, err := cfg.Values()
	if err != nil {
		return nil, err
	}
	for name, v := range values {
		if err := c.scope.Set(name, v); err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
	}
	return c, nil
}

// Scope returns the calculator's variables.
func (c *Calculator) Scope() *scope.VariableScope {
	return c.scope
}

// Functions returns the calculator's function library.
func (c *Calculator) Functions() *stdlib.Registry {
	return c.funcs
}

// Language returns the language used for messages.
func (c *Calculator) Language() language.Tag {
	return c.lang
}

// Parse parses text against the calculator's variables.
func (c *Calculator) Parse(text string) (expr.Node, error) {
	return c.parse(c.scope, text)
}

func (c *Calculator) parse(vars expr.Variables, text string) (expr.Node, error) {
	node, err := expr.NewParser(vars, c.maxDepth).Parse(text)
	if err != nil {
		return nil, err
	}
	if c.debug {
		log.Printf("[calculator] %q parsed as %s", text, expr.Definition(node))
	}
	return node, nil
}

// Calculate parses and evaluates text, keeping the intermediate definition.
func (c *Calculator) Calculate(text string) Result {
	return c.calculate(c.scope, text)
}

// CalculateWith is Calculate with extra variables that only this evaluation
// sees. They shadow the calculator's variables of the same name and leave
// them unchanged. Constants cannot be shadowed.
func (c *Calculator) CalculateWith(text string, vars map[string]types.Value) (Result, error) {
	if len(vars) == 0 {
		return c.Calculate(text), nil
	}
	local := c.scope.NewChildScope()
	for name, v := range vars {
		if c.scope.IsConstant(name) {
			return Result{Expression: text}, fmt.Errorf("%w: %s", scope.ErrReadOnly, name)
		}
		if err := local.SetLocal(name, v); err != nil {
			return Result{Expression: text}, err
		}
	}
	return c.calculate(local, text), nil
}

func (c *Calculator) calculate(vars *scope.VariableScope, text string) Result {
	res := Result{Expression: text}
	node, err := c.parse(vars, text)
	if err != nil {
		res.Err = err
		return res
	}
	res.Definition = expr.Definition(node)
	res.Value, res.Err = expr.Evaluate(node, c.funcs)
	return res
}

// EvaluateValue parses and evaluates text.
func (c *Calculator) EvaluateValue(text string) (types.Value, error) {
	res := c.Calculate(text)
	return res.Value, res.Err
}

// Evaluate parses and evaluates text and returns the result as text. Empty
// input yields the empty expression message and failures yield their
// message.
func (c *Calculator) Evaluate(text string) string {
	v, err := c.EvaluateValue(text)
	if err != nil {
		return c.Message(err)
	}
	return c.Format(v)
}

// Record evaluates text and appends the outcome to history.
func (c *Calculator) Record(history *store.Store, text string) (Result, *store.Evaluation) {
	res := c.Calculate(text)
	return res, c.record(history, res)
}

// RecordWith is Record with per-evaluation variables as in CalculateWith.
// Nothing is recorded when the variables are rejected.
func (c *Calculator) RecordWith(history *store.Store, text string, vars map[string]types.Value) (Result, *store.Evaluation, error) {
	res, err := c.CalculateWith(text, vars)
	if err != nil {
		return res, nil, err
	}
	return res, c.record(history, res), nil
}

func (c *Calculator) record(history *store.Store, res Result) *store.Evaluation {
	e := store.Evaluation{Expression: res.Expression, Definition: res.Definition}
	if res.Err != nil {
		e.Error = c.Message(res.Err)
	} else {
		e.Result = c.Format(res.Value)
		e.Type = res.Value.Type().String()
	}
	return history.Record(e)
}

// Format renders a value as text, localized when configured.
func (c *Calculator) Format(v types.Value) string {
	if c.localizer != nil {
		return c.localizer.String(v)
	}
	return types.ToString(v)
}

// Message renders err in the calculator's language.
func (c *Calculator) Message(err error) string {
	var e *types.Error
	if errors.As(err, &e) {
		return e.Localized(c.lang)
	}
	return err.Error()
}
