package domain

import (
	"sync"
	"testing"

	m "strum.dev/pkg/strum/internal/model"
)

func TestAggregator_CountsExecutedAndFailed(t *testing.T) {
	aggregator := NewAggregator(5)

	aggregator.Observe(m.InvocationOutcome{Passed: true})
	aggregator.Observe(m.InvocationOutcome{Passed: false, Error: "TypeA - boom"})
	aggregator.Observe(m.InvocationOutcome{Passed: true})

	summary := aggregator.Summary()

	if summary.Collected != 5 {
		t.Fatalf("Collected = %d, want 5", summary.Collected)
	}

	if summary.Executed != 3 || summary.Failed != 1 || summary.Passed() != 2 {
		t.Fatalf("summary = %+v", summary)
	}

	if summary.Duration <= 0 {
		t.Fatalf("Duration = %v, want positive", summary.Duration)
	}
}

func TestAggregator_CollectedIsFixedAtConstruction(t *testing.T) {
	aggregator := NewAggregator(2)

	// Param expansion can execute more invocations than were collected.
	for i := 0; i < 4; i++ {
		aggregator.Observe(m.InvocationOutcome{Passed: true})
	}

	summary := aggregator.Summary()
	if summary.Collected != 2 || summary.Executed != 4 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestAggregator_ConcurrentObserve(t *testing.T) {
	aggregator := NewAggregator(100)

	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)

		passed := i%2 == 0

		go func() {
			defer wg.Done()
			aggregator.Observe(m.InvocationOutcome{Passed: passed})
		}()
	}

	wg.Wait()

	summary := aggregator.Summary()
	if summary.Executed != 100 || summary.Failed != 50 {
		t.Fatalf("summary = %+v", summary)
	}
}
