package harness

import (
	"errors"
	"fmt"
	"sync"
)

// Scope is the lifetime class of a fixture.
type Scope string

// Recognized fixture scopes.
const (
	// ScopeSession values are materialized at most once per resolver view and
	// shared by every consumer of that view.
	ScopeSession Scope = "session"
	// ScopeClass values are materialized at most once per class scope.
	ScopeClass Scope = "class"
	// ScopeMethod values are materialized fresh on every resolve.
	ScopeMethod Scope = "method"
)

// ErrInvalidScope is returned when registering with an unrecognized scope.
var ErrInvalidScope = errors.New("invalid fixture scope, use session, class or method")

// ErrPrepNotFound is returned when resolving a (scope, name) pair that was
// never registered.
var ErrPrepNotFound = errors.New("fixture is not registered")

// Factory materializes one fixture value.
type Factory func() (any, error)

type fixtureKey struct {
	scope Scope
	name  string
}

// FixtureRegistry is the process-wide table of (scope, name) → factory. It is
// populated before scheduling begins and read-only thereafter from the
// scheduler's perspective. Registering the same (scope, name) twice silently
// overwrites the earlier factory: last registration wins.
type FixtureRegistry struct {
	mu      sync.RWMutex
	entries map[fixtureKey]Factory
}

// NewFixtureRegistry constructs an empty registry.
func NewFixtureRegistry() *FixtureRegistry {
	return &FixtureRegistry{entries: make(map[fixtureKey]Factory)}
}

var defaultFixtures = NewFixtureRegistry()

// Fixtures returns the process-wide registry that prep units register into.
func Fixtures() *FixtureRegistry {
	return defaultFixtures
}

// Register binds a factory to (scope, name). An unrecognized scope fails with
// ErrInvalidScope before anything is stored.
func (r *FixtureRegistry) Register(scope Scope, name string, factory Factory) error {
	switch scope {
	case ScopeSession, ScopeClass, ScopeMethod:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[fixtureKey{scope: scope, name: name}] = factory

	return nil
}

func (r *FixtureRegistry) lookup(scope Scope, name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.entries[fixtureKey{scope: scope, name: name}]
	if !ok {
		return nil, fmt.Errorf("%w: (%s, %s)", ErrPrepNotFound, scope, name)
	}

	return factory, nil
}

// View opens a resolver over the registry. Session-scoped values are memoized
// for the lifetime of the view; the scheduler opens one view per run in
// single-worker mode and one per pooled worker in parallel mode, so session
// scope is per-worker there.
func (r *FixtureRegistry) View() *FixtureView {
	return &FixtureView{registry: r, session: make(map[string]any)}
}

// FixtureView memoizes session-scoped values for one execution context.
type FixtureView struct {
	registry *FixtureRegistry
	mu       sync.Mutex
	session  map[string]any
}

// EnterClass opens a class scope whose class-scoped values live exactly as
// long as the scope itself.
func (v *FixtureView) EnterClass() *ClassScope {
	return &ClassScope{view: v, values: make(map[string]any)}
}

func (v *FixtureView) resolveSession(name string) (any, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if value, ok := v.session[name]; ok {
		return value, nil
	}

	factory, err := v.registry.lookup(ScopeSession, name)
	if err != nil {
		return nil, err
	}

	value, err := factory()
	if err != nil {
		return nil, err
	}

	v.session[name] = value

	return value, nil
}

// ClassScope resolves fixtures on behalf of one instantiated class. Session
// resolution delegates to the owning view, class values are memoized per
// scope, and method values are materialized fresh on every call.
type ClassScope struct {
	view   *FixtureView
	mu     sync.Mutex
	values map[string]any
}

// Resolve materializes the fixture registered under (scope, name), honoring
// the scope's lifetime semantics.
func (s *ClassScope) Resolve(scope Scope, name string) (any, error) {
	switch scope {
	case ScopeSession:
		return s.view.resolveSession(name)

	case ScopeClass:
		s.mu.Lock()
		defer s.mu.Unlock()

		if value, ok := s.values[name]; ok {
			return value, nil
		}

		factory, err := s.view.registry.lookup(ScopeClass, name)
		if err != nil {
			return nil, err
		}

		value, err := factory()
		if err != nil {
			return nil, err
		}

		s.values[name] = value

		return value, nil

	case ScopeMethod:
		factory, err := s.view.registry.lookup(ScopeMethod, name)
		if err != nil {
			return nil, err
		}

		return factory()
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidScope, scope)
}
