// Package scope holds the variables an expression can reference.
package scope

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"sync"

	"github.com/danielb987/SuperCalculator/pkg/expr"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

var (
	// ErrReadOnly is returned when assigning to or deleting a constant.
	ErrReadOnly = errors.New("variable is read-only")

	// ErrInvalidName is returned for names the tokenizer would not read as
	// a single identifier.
	ErrInvalidName = errors.New("invalid variable name")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName reports whether name can be referenced from an expression.
func ValidName(name string) bool {
	return identifier.MatchString(name)
}

// VariableScope manages variable storage with parent scope chaining.
// Variables are looked up starting from the current scope and walking up
// the parent chain. New variables are always created in the current scope.
type VariableScope struct {
	parent *VariableScope
	vars   map[string]types.Value
	consts map[string]bool
	mu     sync.RWMutex
}

// NewScope creates a new root scope.
func NewScope() *VariableScope {
	return &VariableScope{
		vars:   make(map[string]types.Value),
		consts: make(map[string]bool),
	}
}

// NewChildScope creates a child scope that inherits from this scope.
func (s *VariableScope) NewChildScope() *VariableScope {
	child := NewScope()
	child.parent = s
	return child
}

// DefineConstants adds the read-only variables true, false, pi and e.
func (s *VariableScope) DefineConstants() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, v := range map[string]types.Value{
		"true":  types.NewBool(true),
		"false": types.NewBool(false),
		"pi":    types.NewDouble(math.Pi),
		"e":     types.NewDouble(math.E),
	} {
		s.vars[name] = v
		s.consts[name] = true
	}
}

// Get retrieves a variable value, searching up the scope chain.
func (s *VariableScope) Get(name string) (types.Value, error) {
	owner := s.owner(name)
	if owner == nil {
		return types.Null, types.NewIdentifierNotFoundError(name)
	}
	owner.mu.RLock()
	defer owner.mu.RUnlock()
	return owner.vars[name], nil
}

// Set sets a variable in the scope where it exists, or creates it in this scope.
func (s *VariableScope) Set(name string, value types.Value) error {
	target := s.owner(name)
	if target == nil {
		target = s
	}
	return target.store(name, value)
}

// SetLocal sets a variable in this scope only (no parent search).
func (s *VariableScope) SetLocal(name string, value types.Value) error {
	return s.store(name, value)
}

func (s *VariableScope) store(name string, value types.Value) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consts[name] {
		return fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	s.vars[name] = value
	return nil
}

// Delete removes a variable from the scope that holds it. It reports
// whether a variable was removed.
func (s *VariableScope) Delete(name string) (bool, error) {
	owner := s.owner(name)
	if owner == nil {
		return false, nil
	}
	owner.mu.Lock()
	defer owner.mu.Unlock()
	if owner.consts[name] {
		return false, fmt.Errorf("%w: %s", ErrReadOnly, name)
	}
	delete(owner.vars, name)
	return true, nil
}

// Exists checks if a variable exists in this scope or any parent.
func (s *VariableScope) Exists(name string) bool {
	return s.owner(name) != nil
}

// IsConstant reports whether name resolves to a read-only variable.
func (s *VariableScope) IsConstant(name string) bool {
	owner := s.owner(name)
	if owner == nil {
		return false
	}
	owner.mu.RLock()
	defer owner.mu.RUnlock()
	return owner.consts[name]
}

// Names returns the sorted names visible from this scope.
func (s *VariableScope) Names() []string {
	seen := make(map[string]bool)
	for cur := s; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for name := range cur.vars {
			seen[name] = true
		}
		cur.mu.RUnlock()
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the current values visible from this scope. Inner scopes
// shadow outer ones.
func (s *VariableScope) Snapshot() map[string]types.Value {
	out := make(map[string]types.Value)
	for cur := s; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		for name, v := range cur.vars {
			if _, shadowed := out[name]; !shadowed {
				out[name] = v
			}
		}
		cur.mu.RUnlock()
	}
	return out
}

// Lookup implements expr.Variables. The returned holder reads the
// variable's current value each time it is asked.
func (s *VariableScope) Lookup(name string) (expr.Variable, bool) {
	owner := s.owner(name)
	if owner == nil {
		return nil, false
	}
	return &binding{scope: owner, name: name}, true
}

// owner returns the nearest scope defining name, or nil.
func (s *VariableScope) owner(name string) *VariableScope {
	for cur := s; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		_, ok := cur.vars[name]
		cur.mu.RUnlock()
		if ok {
			return cur
		}
	}
	return nil
}

// binding is a live reference to a variable in the scope that defines it.
type binding struct {
	scope *VariableScope
	name  string
}

func (b *binding) Name() string { return b.name }

// Value returns the current value, or null once the variable was deleted.
func (b *binding) Value() types.Value {
	b.scope.mu.RLock()
	defer b.scope.mu.RUnlock()
	return b.scope.vars[b.name]
}
