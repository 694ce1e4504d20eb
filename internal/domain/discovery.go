package domain

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"strum.dev/pkg/strum/internal/adapter"
	m "strum.dev/pkg/strum/internal/model"
)

// Discovery runs the scan → extract pass, producing ordered DiscoveredUnits.
type Discovery struct {
	fs     adapter.SourceFSAdapter
	parser adapter.UnitParserAdapter
}

// NewDiscovery constructs a Discovery backed by the provided adapters.
func NewDiscovery(fs adapter.SourceFSAdapter, parser adapter.UnitParserAdapter) *Discovery {
	return &Discovery{fs: fs, parser: parser}
}

// DiscoveryResult is the output of one scan pass.
type DiscoveryResult struct {
	// Units holds every test-bearing unit in scan order.
	Units []m.DiscoveredUnit

	// Collected counts discovered test methods before any filter or suite
	// narrows execution.
	Collected int

	// Flagged lists units excluded from discovery because they failed to
	// parse. The run continues without them.
	Flagged []m.Path
}

// Collect scans the tree under root and statically extracts test declarations
// from every source unit. One unparsable unit flags that unit and continues;
// it never aborts the pass.
func (d *Discovery) Collect(root m.Path) (DiscoveryResult, error) {
	var result DiscoveryResult

	err := d.fs.Scan(root, func(path m.Path, content []byte) error {
		extraction, extractErr := d.parser.Extract(path, content)
		if extractErr != nil {
			var parseErr *adapter.ParseError
			if errors.As(extractErr, &parseErr) {
				slog.Warn("Unit failed to parse, excluded from discovery", "path", path, "error", parseErr.Err)
				result.Flagged = append(result.Flagged, path)

				return nil
			}

			return extractErr
		}

		if len(extraction.Classes) == 0 {
			return nil
		}

		hash, hashErr := d.fs.HashFile(path)
		if hashErr != nil {
			return hashErr
		}

		unit := m.DiscoveredUnit{
			ID:      unitID(root, path),
			Path:    path,
			Hash:    hash,
			Classes: extraction.Classes,
			Methods: extraction.Methods,
			Imports: extraction.Imports,
		}

		result.Collected += unit.MethodCount()
		result.Units = append(result.Units, unit)

		return nil
	})
	if err != nil {
		return DiscoveryResult{}, err
	}

	slog.Debug("Discovery complete", "units", len(result.Units), "collected", result.Collected, "flagged", len(result.Flagged))

	return result, nil
}

// unitID derives the unit identity from the root-relative path with the
// extension stripped, slash-separated on every platform.
func unitID(root, path m.Path) string {
	rel, err := filepath.Rel(string(root), string(path))
	if err != nil {
		rel = string(path)
	}

	rel = strings.TrimSuffix(rel, filepath.Ext(rel))

	return filepath.ToSlash(rel)
}
