// Package harness is the public registration contract for strum test units.
//
// Compiled test units self-register into a Catalog: a loader per unit, class
// factories per loader, and invocable method bindings per class. Suite tags and
// parameter sets live in an annotation side-table keyed by the stable
// (unit, class, method) identity, so the scheduler can query them without the
// bindings themselves carrying metadata.
package harness

import (
	"fmt"
	"sort"
	"strings"
)

// ParamBinding is one parameter set for a test method invocation. Exactly one
// of Named or Positional is set; the zero binding means "invoke with no
// arguments".
type ParamBinding struct {
	Named      map[string]any
	Positional []any
}

// Named builds a named-argument binding.
func Named(values map[string]any) ParamBinding {
	return ParamBinding{Named: values}
}

// Positional builds a positional-argument binding.
func Positional(values ...any) ParamBinding {
	return ParamBinding{Positional: values}
}

// IsZero reports whether the binding carries no arguments.
func (b ParamBinding) IsZero() bool {
	return len(b.Named) == 0 && len(b.Positional) == 0
}

// String renders the binding for status lines. Named arguments are sorted by
// key so the rendering is stable regardless of map iteration order.
func (b ParamBinding) String() string {
	if len(b.Named) > 0 {
		keys := make([]string, 0, len(b.Named))
		for k := range b.Named {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, b.Named[k]))
		}

		return strings.Join(parts, ", ")
	}

	if len(b.Positional) > 0 {
		parts := make([]string, 0, len(b.Positional))
		for _, v := range b.Positional {
			parts = append(parts, fmt.Sprintf("%v", v))
		}

		return strings.Join(parts, ", ")
	}

	return ""
}

// AnnotationSet carries the out-of-band metadata attached to one test method:
// the suites it belongs to and the parameter sets it expands into.
type AnnotationSet struct {
	Suites map[string]struct{}
	Params []ParamBinding
}

// InSuite reports whether the method is tagged with the named suite.
func (a AnnotationSet) InSuite(name string) bool {
	_, ok := a.Suites[name]
	return ok
}

// Bindings returns the parameter sets to invoke with. An absent params list
// means exactly one invocation with no arguments.
func (a AnnotationSet) Bindings() []ParamBinding {
	if len(a.Params) == 0 {
		return []ParamBinding{{}}
	}

	return a.Params
}

// AnnotateOption mutates an AnnotationSet during registration.
type AnnotateOption func(*AnnotationSet)

// WithSuites tags the method with one or more suites.
func WithSuites(names ...string) AnnotateOption {
	return func(a *AnnotationSet) {
		if a.Suites == nil {
			a.Suites = make(map[string]struct{}, len(names))
		}

		for _, name := range names {
			a.Suites[name] = struct{}{}
		}
	}
}

// WithParams appends parameter sets, preserving their declaration order.
func WithParams(bindings ...ParamBinding) AnnotateOption {
	return func(a *AnnotationSet) {
		a.Params = append(a.Params, bindings...)
	}
}
