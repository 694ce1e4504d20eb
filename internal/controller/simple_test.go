package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	m "strum.dev/pkg/strum/internal/model"
)

func newBufferedUI() (*SimpleUI, *bytes.Buffer) {
	cmd := &cobra.Command{}

	var out bytes.Buffer

	cmd.SetOut(&out)

	return NewSimpleUI(cmd), &out
}

func TestSimpleUI_DisplayRunInfo(t *testing.T) {
	ui, out := newBufferedUI()

	ui.DisplayRunInfo(context.Background(), RunInfo{
		Root:      "/tmp/project",
		Workers:   4,
		BatchSize: 16,
		Suite:     "smoke",
		Filter:    "unit_a.ClassB",
	})

	for _, want := range []string{
		"Project: /tmp/project",
		"Workers: 4",
		"Batch Size: 16",
		"Suite: \"smoke\"",
		"Filter: \"unit_a.ClassB\"",
		"- - - Results - - -",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("banner missing %q:\n%s", want, out.String())
		}
	}
}

func TestSimpleUI_DisplayRunInfoQuietOmitsResultsHeader(t *testing.T) {
	ui, out := newBufferedUI()

	ui.DisplayRunInfo(context.Background(), RunInfo{Quiet: true})

	if strings.Contains(out.String(), "Results") {
		t.Fatalf("quiet banner should not announce results:\n%s", out.String())
	}
}

func TestSimpleUI_DisplayOutcome(t *testing.T) {
	ui, out := newBufferedUI()

	ui.DisplayOutcome(context.Background(), m.InvocationOutcome{
		UnitID: "unit_a",
		Class:  "TestAlpha",
		Method: "TestOne",
		Passed: true,
	})
	ui.DisplayOutcome(context.Background(), m.InvocationOutcome{
		UnitID: "unit_a",
		Class:  "TestAlpha",
		Method: "TestTwo",
		Error:  "TypeA - boom",
	})

	if !strings.Contains(out.String(), "[PASS] unit_a.TestAlpha.TestOne") {
		t.Fatalf("missing pass line:\n%s", out.String())
	}

	if !strings.Contains(out.String(), "[FAIL] unit_a.TestAlpha.TestTwo → TypeA - boom") {
		t.Fatalf("missing fail line:\n%s", out.String())
	}
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	ui, out := newBufferedUI()

	ui.DisplaySummary(context.Background(), m.RunSummary{
		Collected: 5,
		Executed:  4,
		Failed:    1,
		Duration:  1500 * time.Millisecond,
	})

	for _, want := range []string{
		"- - - Summary - - -",
		"Collected: 5",
		"Executed: 4 / 5",
		"Failed: 1",
		"Passed: 3",
		"Total Time: 1.50 Seconds",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("summary missing %q:\n%s", want, out.String())
		}
	}
}

func TestSimpleUI_DisplayInventory(t *testing.T) {
	ui, out := newBufferedUI()

	units := []m.DiscoveredUnit{
		{
			ID:      "unit_a",
			Classes: []string{"TestAlpha"},
			Methods: map[string][]string{"TestAlpha": {"TestOne", "TestTwo"}},
		},
		{
			ID:      "sub/unit_b",
			Classes: []string{"TestBeta"},
			Methods: map[string][]string{"TestBeta": {"TestThree"}},
		},
	}

	err := ui.DisplayInventory(context.Background(), units, []m.Path{"/tmp/project/broken.go"})
	if err != nil {
		t.Fatalf("DisplayInventory() error = %v", err)
	}

	// tablewriter auto-formats header and footer cells to uppercase.
	for _, want := range []string{
		"UNIT",
		"unit_a",
		"sub/unit_b",
		"TOTAL UNITS 2",
		"broken.go failed to parse",
	} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("inventory missing %q:\n%s", want, out.String())
		}
	}
}

func TestSimpleUI_CanceledContextSuppressesOutput(t *testing.T) {
	ui, out := newBufferedUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui.DisplayRunInfo(ctx, RunInfo{Root: "/tmp/project"})
	ui.DisplayOutcome(ctx, m.InvocationOutcome{UnitID: "unit_a"})
	ui.DisplaySummary(ctx, m.RunSummary{})

	if out.Len() != 0 {
		t.Fatalf("canceled context should suppress output, got:\n%s", out.String())
	}
}
