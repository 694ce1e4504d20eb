// Package domain implements the discovery, scheduling and aggregation
// pipeline of strum.
package domain

import (
	"errors"
	"strings"
)

// ErrInvalidFilterFormat is returned for dotted filter expressions with fewer
// than one or more than three segments.
var ErrInvalidFilterFormat = errors.New("invalid test filter format, use file.class.method")

// TestFilter narrows execution along three independent axes. An empty or "*"
// pattern matches everything on its axis; anything else is exact equality.
type TestFilter struct {
	File   string
	Class  string
	Method string
}

// NewTestFilter builds a filter from a dotted expression of one to three
// segments. The empty expression matches everything.
func NewTestFilter(expr string) (TestFilter, error) {
	if expr == "" {
		return TestFilter{}, nil
	}

	parts := strings.Split(expr, ".")
	if len(parts) < 1 || len(parts) > 3 {
		return TestFilter{}, ErrInvalidFilterFormat
	}

	for len(parts) < 3 {
		parts = append(parts, "")
	}

	return TestFilter{File: parts[0], Class: parts[1], Method: parts[2]}, nil
}

func matchPattern(pattern, value string) bool {
	return pattern == "" || pattern == "*" || pattern == value
}

// MatchesFile reports whether the unit id passes the file axis.
func (f TestFilter) MatchesFile(unitID string) bool {
	return matchPattern(f.File, unitID)
}

// MatchesClass reports whether the class name passes the class axis.
func (f TestFilter) MatchesClass(class string) bool {
	return matchPattern(f.Class, class)
}

// MatchesMethod reports whether the method name passes the method axis.
func (f TestFilter) MatchesMethod(method string) bool {
	return matchPattern(f.Method, method)
}

// Matches reports whether the full identity passes all three axes.
func (f TestFilter) Matches(unitID, class, method string) bool {
	return f.MatchesFile(unitID) && f.MatchesClass(class) && f.MatchesMethod(method)
}
