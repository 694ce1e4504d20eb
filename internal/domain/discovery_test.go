package domain

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"strum.dev/pkg/strum/internal/adapter"
	m "strum.dev/pkg/strum/internal/model"
)

const validUnit = `package sample

type TestAlpha struct{}

func (t TestAlpha) TestOne() {}

func (t TestAlpha) TestTwo() {}
`

const helperUnit = `package sample

func helper() int { return 1 }
`

const brokenUnit = `package sample

func (
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	return root
}

func TestDiscovery_CollectExtractsTestBearingUnits(t *testing.T) {
	root := writeProject(t, map[string]string{
		"unit_a.go":        validUnit,
		"helpers.go":       helperUnit,
		"sub/unit_b.go":    validUnit,
		"vendor/skip.go":   validUnit,
		"sub/.git/hide.go": validUnit,
	})

	discovery := NewDiscovery(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalUnitParserAdapter())

	result, err := discovery.Collect(m.Path(root))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	ids := make([]string, 0, len(result.Units))
	for _, unit := range result.Units {
		ids = append(ids, unit.ID)
	}

	want := []string{"sub/unit_b", "unit_a"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("unit IDs = %v, want %v", ids, want)
	}

	if result.Collected != 4 {
		t.Fatalf("Collected = %d, want 4", result.Collected)
	}

	for _, unit := range result.Units {
		if unit.Hash == "" {
			t.Fatalf("unit %s has no content hash", unit.ID)
		}

		if !reflect.DeepEqual(unit.Classes, []string{"TestAlpha"}) {
			t.Fatalf("unit %s classes = %v", unit.ID, unit.Classes)
		}

		if !reflect.DeepEqual(unit.Methods["TestAlpha"], []string{"TestOne", "TestTwo"}) {
			t.Fatalf("unit %s methods = %v", unit.ID, unit.Methods)
		}
	}
}

func TestDiscovery_CollectFlagsUnparsableUnitAndContinues(t *testing.T) {
	root := writeProject(t, map[string]string{
		"unit_a.go": validUnit,
		"broken.go": brokenUnit,
	})

	discovery := NewDiscovery(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalUnitParserAdapter())

	result, err := discovery.Collect(m.Path(root))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(result.Units) != 1 || result.Units[0].ID != "unit_a" {
		t.Fatalf("units = %+v", result.Units)
	}

	if len(result.Flagged) != 1 || !strings.HasSuffix(string(result.Flagged[0]), "broken.go") {
		t.Fatalf("flagged = %v", result.Flagged)
	}
}

func TestDiscovery_CollectIsDeterministic(t *testing.T) {
	root := writeProject(t, map[string]string{
		"b/unit.go": validUnit,
		"a/unit.go": validUnit,
		"unit_c.go": validUnit,
	})

	discovery := NewDiscovery(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalUnitParserAdapter())

	first, err := discovery.Collect(m.Path(root))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	second, err := discovery.Collect(m.Path(root))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two scans of an unchanged tree diverge:\n%+v\n%+v", first, second)
	}
}

func TestDiscovery_CollectMissingRoot(t *testing.T) {
	discovery := NewDiscovery(adapter.NewLocalSourceFSAdapter(), adapter.NewLocalUnitParserAdapter())

	if _, err := discovery.Collect(m.Path(filepath.Join(t.TempDir(), "absent"))); err == nil {
		t.Fatalf("expected an error for a missing project root")
	}
}
