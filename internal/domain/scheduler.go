package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	m "strum.dev/pkg/strum/internal/model"
	"strum.dev/pkg/strum/pkg/harness"
)

// DefaultBatchSize is the number of units dispatched together to one worker
// when no batch size is configured.
const DefaultBatchSize = 64

// unspecifiedFailure is the placeholder recorded when a failure carries an
// empty message.
const unspecifiedFailure = "Unspecified"

// Sink consumes outcomes as the scheduler produces them. In single-worker
// mode it is called in discovery order; in multi-worker mode batches arrive
// as they complete and only intra-batch order is guaranteed. The scheduler
// never calls the sink concurrently.
type Sink func(m.InvocationOutcome)

// ExecuteArgs parameterizes one run.
type ExecuteArgs struct {
	Units     []m.DiscoveredUnit
	Filter    TestFilter
	Suite     string
	Workers   int
	BatchSize int
}

// Scheduler dispatches discovered units against the registered catalog,
// consulting the fixture registry per invocation. The catalog and registry
// are built before Execute is called and only read here.
type Scheduler struct {
	catalog  *harness.Catalog
	fixtures *harness.FixtureRegistry
}

// NewScheduler constructs a Scheduler over an explicit catalog and fixture
// registry.
func NewScheduler(catalog *harness.Catalog, fixtures *harness.FixtureRegistry) *Scheduler {
	return &Scheduler{catalog: catalog, fixtures: fixtures}
}

// Execute runs every surviving (method, parameter-binding) pair and delivers
// one outcome each through sink. With one worker, units run sequentially in
// discovery order and outcomes stream incrementally. With more, units are
// partitioned into fixed-size batches submitted to a bounded worker pool and
// delivered as batches complete, so cross-batch order is not guaranteed.
func (s *Scheduler) Execute(ctx context.Context, args ExecuteArgs, sink Sink) error {
	if args.Workers <= 1 {
		view := s.fixtures.View()

		for _, unit := range args.Units {
			if err := ctx.Err(); err != nil {
				return err
			}

			s.runUnit(unit, args.Filter, args.Suite, view, sink)
		}

		return nil
	}

	batches := batchUnits(args.Units, args.BatchSize)
	slog.Debug("Dispatching to worker pool", "workers", args.Workers, "batches", len(batches))

	results := make(chan []m.InvocationOutcome, len(batches))

	collected := make(chan struct{})
	go func() {
		defer close(collected)

		for outcomes := range results {
			for _, outcome := range outcomes {
				sink(outcome)
			}
		}
	}()

	batchCh := make(chan []m.DiscoveredUnit)

	group, groupCtx := errgroup.WithContext(ctx)

	for i := 0; i < args.Workers; i++ {
		group.Go(func() error {
			// Each worker owns one fixture view for its whole lifetime, so
			// session-scoped values are materialized at most once per worker
			// regardless of how many batches it consumes.
			view := s.fixtures.View()

			for batch := range batchCh {
				if err := groupCtx.Err(); err != nil {
					return err
				}

				var outcomes []m.InvocationOutcome

				for _, unit := range batch {
					s.runUnit(unit, args.Filter, args.Suite, view, func(o m.InvocationOutcome) {
						outcomes = append(outcomes, o)
					})
				}

				results <- outcomes
			}

			return nil
		})
	}

feed:
	for _, batch := range batches {
		select {
		case batchCh <- batch:
		case <-groupCtx.Done():
			break feed
		}
	}

	close(batchCh)

	err := group.Wait()
	close(results)
	<-collected

	return err
}

// runUnit executes one unit's surviving classes and methods, emitting
// outcomes in declaration order.
func (s *Scheduler) runUnit(unit m.DiscoveredUnit, filter TestFilter, suite string, view *harness.FixtureView, emit Sink) {
	if !filter.MatchesFile(unit.ID) {
		return
	}

	classes, methods := narrow(unit, filter)
	if len(classes) == 0 {
		return
	}

	ns, err := s.catalog.Load(unit.ID)
	if err != nil {
		// The unit is not partially salvaged: every surviving method fails.
		failure := fmt.Sprintf("%s: %v", m.FailureExec, err)
		emitAll(unit.ID, classes, methods, failure, emit)

		return
	}

	for _, class := range classes {
		s.runClass(unit.ID, class, methods[class], suite, ns, view, emit)
	}
}

func (s *Scheduler) runClass(unitID, class string, methodNames []string, suite string, ns *harness.UnitNamespace, view *harness.FixtureView, emit Sink) {
	factory, ok := ns.Class(class)
	if !ok {
		for _, method := range methodNames {
			emit(failedOutcome(unitID, class, method, m.FailureClassNotFound, harness.ParamBinding{}))
		}

		return
	}

	bound, failure := instantiate(factory, view.EnterClass())
	if failure != "" {
		for _, method := range methodNames {
			emit(failedOutcome(unitID, class, method, failure, harness.ParamBinding{}))
		}

		return
	}

	for _, method := range methodNames {
		fn, ok := bound[method]
		if !ok {
			emit(failedOutcome(unitID, class, method, m.FailureMethodNotFound, harness.ParamBinding{}))
			continue
		}

		annotations := s.catalog.AnnotationFor(unitID, class, method)

		// Suite gating is a silent skip, distinct from a failure: no outcome
		// is emitted at all.
		if suite != "" && !annotations.InSuite(suite) {
			continue
		}

		for _, binding := range annotations.Bindings() {
			if failure := invoke(fn, binding); failure != "" {
				emit(failedOutcome(unitID, class, method, failure, binding))
				continue
			}

			emit(m.InvocationOutcome{
				UnitID: unitID,
				Class:  class,
				Method: method,
				Passed: true,
				Params: binding,
			})
		}
	}
}

// narrow applies the class and method axes, preserving declaration order.
// Classes left with no surviving methods are dropped; a unit whose narrowing
// drops everything is skipped entirely by the caller.
func narrow(unit m.DiscoveredUnit, filter TestFilter) ([]string, map[string][]string) {
	var classes []string

	methods := make(map[string][]string)

	for _, class := range unit.Classes {
		if !filter.MatchesClass(class) {
			continue
		}

		var surviving []string

		for _, method := range unit.Methods[class] {
			if filter.MatchesMethod(method) {
				surviving = append(surviving, method)
			}
		}

		if len(surviving) == 0 {
			continue
		}

		classes = append(classes, class)
		methods[class] = surviving
	}

	return classes, methods
}

func emitAll(unitID string, classes []string, methods map[string][]string, failure string, emit Sink) {
	for _, class := range classes {
		for _, method := range methods[class] {
			emit(failedOutcome(unitID, class, method, failure, harness.ParamBinding{}))
		}
	}
}

func failedOutcome(unitID, class, method, failure string, binding harness.ParamBinding) m.InvocationOutcome {
	return m.InvocationOutcome{
		UnitID: unitID,
		Class:  class,
		Method: method,
		Passed: false,
		Error:  failure,
		Params: binding,
	}
}

// instantiate runs a class factory, converting errors and panics into a
// failure classification so one bad constructor cannot take down its worker.
func instantiate(factory harness.ClassFactory, scope *harness.ClassScope) (bound map[string]harness.MethodFunc, failure string) {
	defer func() {
		if r := recover(); r != nil {
			bound, failure = nil, classifyValue(r)
		}
	}()

	bound, err := factory(scope)
	if err != nil {
		return nil, classifyValue(err)
	}

	return bound, ""
}

// invoke runs one binding, recovering panics. The empty string means the
// invocation passed.
func invoke(fn harness.MethodFunc, binding harness.ParamBinding) (failure string) {
	defer func() {
		if r := recover(); r != nil {
			failure = classifyValue(r)
		}
	}()

	if err := fn(binding); err != nil {
		return classifyValue(err)
	}

	return ""
}

// classifyValue renders a failure as its runtime type name and message,
// falling back to a fixed placeholder when the message is empty.
func classifyValue(v any) string {
	var msg string

	switch t := v.(type) {
	case error:
		msg = t.Error()
	default:
		msg = fmt.Sprint(v)
	}

	if strings.TrimSpace(msg) == "" {
		msg = unspecifiedFailure
	}

	return fmt.Sprintf("%T - %s", v, msg)
}

// batchUnits partitions units into fixed-size groups preserving relative
// order within each group.
func batchUnits(units []m.DiscoveredUnit, size int) [][]m.DiscoveredUnit {
	if size <= 0 {
		size = DefaultBatchSize
	}

	var batches [][]m.DiscoveredUnit

	for start := 0; start < len(units); start += size {
		end := min(start+size, len(units))
		batches = append(batches, units[start:end])
	}

	return batches
}
