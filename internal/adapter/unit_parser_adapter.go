package adapter

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	m "strum.dev/pkg/strum/internal/model"
)

const (
	classPrefix  = "Test"
	methodPrefix = "Test"
)

// ParseError reports a unit that could not be structurally analyzed. The
// caller treats it as "zero tests discovered, unit flagged" rather than
// aborting the discovery pass.
type ParseError struct {
	Path m.Path
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extraction is the lightweight structural model of one unit: test classes in
// declaration order, their test methods in declaration order, and the unit's
// top-level imports.
type Extraction struct {
	Classes []string
	Methods map[string][]string
	Imports []string
}

// UnitParserAdapter extracts declared test entities from source text without
// executing it.
type UnitParserAdapter interface {
	Extract(path m.Path, src []byte) (Extraction, error)
}

// LocalUnitParserAdapter is the go/parser-backed UnitParserAdapter.
type LocalUnitParserAdapter struct{}

// NewLocalUnitParserAdapter constructs a LocalUnitParserAdapter.
func NewLocalUnitParserAdapter() *LocalUnitParserAdapter {
	return &LocalUnitParserAdapter{}
}

// Extract performs a single structural walk of the parsed unit. A test class
// is a top-level type declaration whose name begins with "Test"; a test
// method is a func declaration whose receiver is such a type and whose name
// begins with "Test". Valid non-test content yields empty collections.
func (a *LocalUnitParserAdapter) Extract(path m.Path, src []byte) (Extraction, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, string(path), src, parser.SkipObjectResolution)
	if err != nil {
		return Extraction{}, &ParseError{Path: path, Err: err}
	}

	extraction := Extraction{Methods: make(map[string][]string)}
	seen := make(map[string]struct{})

	addClass := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}

		seen[name] = struct{}{}
		extraction.Classes = append(extraction.Classes, name)
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}

			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				if strings.HasPrefix(ts.Name.Name, classPrefix) {
					addClass(ts.Name.Name)
				}
			}

		case *ast.FuncDecl:
			class := receiverTypeName(d)
			if class == "" || !strings.HasPrefix(class, classPrefix) {
				continue
			}

			if !strings.HasPrefix(d.Name.Name, methodPrefix) {
				continue
			}

			addClass(class)
			extraction.Methods[class] = append(extraction.Methods[class], d.Name.Name)
		}
	}

	for _, imp := range file.Imports {
		extraction.Imports = append(extraction.Imports, strings.Trim(imp.Path.Value, `"`))
	}

	return extraction, nil
}

// receiverTypeName returns the base type name of a method receiver, or ""
// for plain functions.
func receiverTypeName(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return ""
	}

	expr := d.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}

	ident, ok := expr.(*ast.Ident)
	if !ok {
		return ""
	}

	return ident.Name
}
