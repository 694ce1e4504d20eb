package harness

import (
	"fmt"
	"sync"
)

// MethodFunc is the invocable binding for one registered test method. The
// binding receives the parameter set for this invocation; a non-nil error (or
// a panic) marks the invocation as failed.
type MethodFunc func(ParamBinding) error

// ClassFactory instantiates a test class and returns its bound methods. The
// no-argument construction contract of the scheduler is met by resolving any
// fixture dependencies through the provided scope rather than through
// constructor arguments.
type ClassFactory func(fx *ClassScope) (map[string]MethodFunc, error)

// UnitLoader populates a fresh UnitNamespace with the unit's class factories.
// It runs once per Load call; a returned error marks the whole unit as failed
// to load.
type UnitLoader func(ns *UnitNamespace) error

// UnitNamespace is the isolated execution context built for one unit load.
// Nothing registered here leaks into another load of the same unit.
type UnitNamespace struct {
	classes map[string]ClassFactory
}

// RegisterClass binds a class name to its factory within this namespace.
func (ns *UnitNamespace) RegisterClass(name string, factory ClassFactory) {
	ns.classes[name] = factory
}

// Class looks up a registered class factory.
func (ns *UnitNamespace) Class(name string) (ClassFactory, bool) {
	factory, ok := ns.classes[name]
	return factory, ok
}

// ErrUnitNotRegistered is returned by Load for unit ids without a loader.
type ErrUnitNotRegistered struct {
	UnitID string
}

func (e ErrUnitNotRegistered) Error() string {
	return fmt.Sprintf("unit %q is not registered in the catalog", e.UnitID)
}

type annotationKey struct {
	unit   string
	class  string
	method string
}

// Catalog is the closed registry mapping discovered unit ids to loadable
// bindings plus the annotation side-table. It is populated before scheduling
// begins and read-only from the scheduler's perspective.
type Catalog struct {
	mu          sync.RWMutex
	loaders     map[string]UnitLoader
	annotations map[annotationKey]AnnotationSet
}

// NewCatalog constructs an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		loaders:     make(map[string]UnitLoader),
		annotations: make(map[annotationKey]AnnotationSet),
	}
}

var defaultCatalog = NewCatalog()

// Default returns the process-wide catalog that compiled test units register
// into, typically from init functions.
func Default() *Catalog {
	return defaultCatalog
}

// RegisterUnit binds a unit id to its loader. Registering the same id twice
// overwrites the previous loader.
func (c *Catalog) RegisterUnit(id string, loader UnitLoader) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaders[id] = loader
}

// Annotate attaches suite tags and parameter sets to a method identity.
// Repeated calls for the same identity accumulate onto the same set.
func (c *Catalog) Annotate(unit, class, method string, opts ...AnnotateOption) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := annotationKey{unit: unit, class: class, method: method}
	set := c.annotations[key]

	for _, opt := range opts {
		opt(&set)
	}

	c.annotations[key] = set
}

// AnnotationFor returns the annotation set for a method identity. Methods
// without annotations get the zero set (no suites, one no-arg invocation).
func (c *Catalog) AnnotationFor(unit, class, method string) AnnotationSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.annotations[annotationKey{unit: unit, class: class, method: method}]
}

// Load materializes a fresh, isolated namespace for the unit by running its
// registered loader. Every call builds a new namespace; failures leave no
// partial state behind.
func (c *Catalog) Load(id string) (*UnitNamespace, error) {
	c.mu.RLock()
	loader, ok := c.loaders[id]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrUnitNotRegistered{UnitID: id}
	}

	ns := &UnitNamespace{classes: make(map[string]ClassFactory)}
	if err := runLoader(loader, ns); err != nil {
		return nil, err
	}

	return ns, nil
}

// runLoader shields Load from loaders that panic; a panicking loader fails the
// unit the same way an erroring one does.
func runLoader(loader UnitLoader, ns *UnitNamespace) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unit loader panicked: %v", r)
		}
	}()

	return loader(ns)
}
