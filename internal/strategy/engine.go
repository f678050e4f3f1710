package strategy

import (
	"fmt"
	"sync"

	"github.com/newthinker/sentiq/internal/core"
	"go.uber.org/zap"
)

// Engine keeps the registered strategies in registration order
type Engine struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	order      []string
	logger     *zap.Logger
}

// NewEngine creates a new strategy engine
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{
		strategies: make(map[string]Strategy),
		logger:     l,
	}
}

// Register adds a strategy to the engine, replacing one with the same name
func (e *Engine) Register(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.strategies[s.Name()]; !exists {
		e.order = append(e.order, s.Name())
	}
	e.strategies[s.Name()] = s
	e.logger.Debug("strategy registered", zap.String("strategy", s.Name()))
}

// Get retrieves a strategy by name
func (e *Engine) Get(name string) (Strategy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.strategies[name]
	return s, ok
}

// Names returns the registered strategy names in registration order
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.order...)
}

// GetAll returns all registered strategies in registration order
func (e *Engine) GetAll() []Strategy {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Strategy, 0, len(e.order))
	for _, name := range e.order {
		result = append(result, e.strategies[name])
	}
	return result
}

// Resolve looks up strategies by name. An empty list selects all of them.
func (e *Engine) Resolve(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return e.GetAll(), nil
	}

	result := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, ok := e.Get(name)
		if !ok {
			return nil, core.WrapError(core.ErrStrategyNotFound, fmt.Errorf("%q", name))
		}
		result = append(result, s)
	}
	return result, nil
}
