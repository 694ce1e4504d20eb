package model

import (
	"fmt"
	"time"

	"strum.dev/pkg/strum/pkg/harness"
)

// Failure classifications for outcomes whose targets never got to run.
const (
	// FailureExec marks every surviving method of a unit whose loader failed.
	FailureExec = "ExecError"
	// FailureClassNotFound marks methods of a discovered class absent from the
	// loaded namespace.
	FailureClassNotFound = "ClassNotFound"
	// FailureMethodNotFound marks a discovered method absent from its
	// instantiated class.
	FailureMethodNotFound = "MethodNotFound"
)

// InvocationOutcome is the recorded result of one (method, parameter-binding)
// invocation attempt. Exactly one outcome is produced per binding that
// survives filtering; suite-gated skips produce none at all.
type InvocationOutcome struct {
	UnitID string
	Class  string
	Method string
	Passed bool
	Error  string
	Params harness.ParamBinding
}

// Target renders the dotted identity of the outcome, with the parameter
// binding appended when one was used.
func (o InvocationOutcome) Target() string {
	target := fmt.Sprintf("%s.%s.%s", o.UnitID, o.Class, o.Method)
	if !o.Params.IsZero() {
		target += fmt.Sprintf("[%s]", o.Params)
	}

	return target
}

// RunSummary holds the derived totals of one run. Collected is computed at
// discovery time, before filtering narrows execution, so it may exceed
// Executed even on a fully successful run.
type RunSummary struct {
	Collected int
	Executed  int
	Failed    int
	Duration  time.Duration
}

// Passed returns the number of successful invocations.
func (s RunSummary) Passed() int {
	return s.Executed - s.Failed
}
