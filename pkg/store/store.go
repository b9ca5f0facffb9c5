// Package store provides in-memory storage for evaluation history.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Evaluation is one recorded evaluation.
type Evaluation struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Definition string    `json:"definition,omitempty"`
	Result     string    `json:"result,omitempty"`
	Type       string    `json:"type,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreateTime time.Time `json:"createTime"`
}

// Failed reports whether the evaluation ended in an error.
func (e *Evaluation) Failed() bool {
	return e.Error != ""
}

// Store is a thread-safe bounded history of evaluations. When full, the
// oldest evaluation is dropped.
type Store struct {
	mu       sync.RWMutex
	capacity int
	order    []string // IDs, oldest first
	byID     map[string]*Evaluation
}

// New creates a store keeping at most capacity evaluations. A capacity of
// zero or less keeps nothing.
func New(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{
		capacity: capacity,
		byID:     make(map[string]*Evaluation),
	}
}

// Record stores e, assigning its ID and creation time, and returns it.
func (s *Store) Record(e Evaluation) *Evaluation {
	e.ID = uuid.NewString()
	e.CreateTime = time.Now()
	rec := &e

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capacity == 0 {
		return rec
	}
	for len(s.order) >= s.capacity {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
	s.order = append(s.order, rec.ID)
	s.byID[rec.ID] = rec
	return rec
}

// Get retrieves an evaluation by ID.
func (s *Store) Get(id string) (*Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("evaluation '%s' not found", id)
	}
	return e, nil
}

// List returns up to limit evaluations, newest first. A limit of zero or
// less returns all of them.
func (s *Store) List(limit int) []*Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.order)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]*Evaluation, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.byID[s.order[i]])
	}
	return result
}

// Clear removes all evaluations.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.byID = make(map[string]*Evaluation)
}

// Len returns the number of stored evaluations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Capacity returns the maximum number of stored evaluations.
func (s *Store) Capacity() int {
	return s.capacity
}
