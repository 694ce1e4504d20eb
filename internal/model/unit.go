// Package model defines the data structures of the discovery and execution
// pipeline.
package model

// Path represents a file system path.
type Path string

// DiscoveredUnit is the static picture of one test-bearing source file,
// produced once per scan pass and immutable afterwards.
type DiscoveredUnit struct {
	// ID is derived from the root-relative path with the extension stripped,
	// using forward slashes on every platform.
	ID string

	// Path is the source file the unit was extracted from.
	Path Path

	// Hash is the content fingerprint recorded at discovery time.
	Hash string

	// Classes holds test class names in declaration order.
	Classes []string

	// Methods maps each class to its test methods in declaration order.
	Methods map[string][]string

	// Imports holds the unit's top-level import paths.
	Imports []string
}

// MethodCount returns the number of test methods declared in the unit.
func (u DiscoveredUnit) MethodCount() int {
	count := 0
	for _, methods := range u.Methods {
		count += len(methods)
	}

	return count
}
