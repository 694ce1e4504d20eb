package harness

import (
	"errors"
	"testing"
)

func countingFactory(counter *int, value any) Factory {
	return func() (any, error) {
		*counter++
		return value, nil
	}
}

func TestFixtureRegistry_InvalidScope(t *testing.T) {
	registry := NewFixtureRegistry()

	err := registry.Register(Scope("global"), "db", func() (any, error) { return nil, nil })
	if !errors.Is(err, ErrInvalidScope) {
		t.Fatalf("expected ErrInvalidScope, got %v", err)
	}
}

func TestFixtureRegistry_LastRegistrationWins(t *testing.T) {
	registry := NewFixtureRegistry()

	if err := registry.Register(ScopeSession, "db", func() (any, error) { return "old", nil }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := registry.Register(ScopeSession, "db", func() (any, error) { return "new", nil }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	value, err := registry.View().EnterClass().Resolve(ScopeSession, "db")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if value != "new" {
		t.Fatalf("Resolve() = %v, want the later registration", value)
	}
}

func TestFixtureView_SessionMaterializedOncePerView(t *testing.T) {
	registry := NewFixtureRegistry()
	calls := 0

	if err := registry.Register(ScopeSession, "db", countingFactory(&calls, "conn")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	view := registry.View()

	first := view.EnterClass()
	second := view.EnterClass()

	for _, scope := range []*ClassScope{first, second, first} {
		if _, err := scope.Resolve(ScopeSession, "db"); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}

	if calls != 1 {
		t.Fatalf("session fixture materialized %d times in one view, want 1", calls)
	}

	// A second view stands for another worker: it materializes its own copy.
	if _, err := registry.View().EnterClass().Resolve(ScopeSession, "db"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if calls != 2 {
		t.Fatalf("session fixture materialized %d times across two views, want 2", calls)
	}
}

func TestClassScope_ClassMaterializedOncePerScope(t *testing.T) {
	registry := NewFixtureRegistry()
	calls := 0

	if err := registry.Register(ScopeClass, "table", countingFactory(&calls, 7)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	view := registry.View()

	scope := view.EnterClass()
	for i := 0; i < 3; i++ {
		if _, err := scope.Resolve(ScopeClass, "table"); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}

	if calls != 1 {
		t.Fatalf("class fixture materialized %d times in one scope, want 1", calls)
	}

	if _, err := view.EnterClass().Resolve(ScopeClass, "table"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if calls != 2 {
		t.Fatalf("class fixture materialized %d times across two scopes, want 2", calls)
	}
}

func TestClassScope_MethodMaterializedFreshEveryResolve(t *testing.T) {
	registry := NewFixtureRegistry()
	calls := 0

	if err := registry.Register(ScopeMethod, "tmp", countingFactory(&calls, nil)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	scope := registry.View().EnterClass()
	for i := 0; i < 3; i++ {
		if _, err := scope.Resolve(ScopeMethod, "tmp"); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}

	if calls != 3 {
		t.Fatalf("method fixture materialized %d times, want 3", calls)
	}
}

func TestClassScope_ResolveUnregistered(t *testing.T) {
	scope := NewFixtureRegistry().View().EnterClass()

	_, err := scope.Resolve(ScopeSession, "missing")
	if !errors.Is(err, ErrPrepNotFound) {
		t.Fatalf("expected ErrPrepNotFound, got %v", err)
	}
}

func TestClassScope_ScopesAreIndependentNamespaces(t *testing.T) {
	registry := NewFixtureRegistry()

	if err := registry.Register(ScopeSession, "db", func() (any, error) { return "session", nil }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Same name under another scope is a distinct registration.
	scope := registry.View().EnterClass()

	if _, err := scope.Resolve(ScopeClass, "db"); !errors.Is(err, ErrPrepNotFound) {
		t.Fatalf("expected ErrPrepNotFound for (class, db), got %v", err)
	}
}
