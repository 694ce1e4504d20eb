package domain

import (
	"sync"
	"time"

	m "strum.dev/pkg/strum/internal/model"
)

// Aggregator folds outcomes into run totals. The collected count is fixed at
// discovery time and never recomputed from outcomes; executed and failed are
// counted from the outcomes actually produced, so suite-gated skips never
// appear in either.
type Aggregator struct {
	mu        sync.Mutex
	collected int
	executed  int
	failed    int
	start     time.Time
}

// NewAggregator constructs an Aggregator for a run that discovered the given
// number of test methods.
func NewAggregator(collected int) *Aggregator {
	return &Aggregator{collected: collected, start: time.Now()}
}

// Observe folds one outcome into the totals. Ordering across workers is
// irrelevant to the counts.
func (a *Aggregator) Observe(outcome m.InvocationOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.executed++

	if !outcome.Passed {
		a.failed++
	}
}

// Summary derives the run totals and wall-clock duration so far.
func (a *Aggregator) Summary() m.RunSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	return m.RunSummary{
		Collected: a.collected,
		Executed:  a.executed,
		Failed:    a.failed,
		Duration:  time.Since(a.start),
	}
}
