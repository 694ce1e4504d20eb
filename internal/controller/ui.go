// Package controller provides output adapters for displaying run progress and
// results.
package controller

import (
	"context"

	m "strum.dev/pkg/strum/internal/model"
)

// RunInfo is the banner printed before execution begins.
type RunInfo struct {
	Root      m.Path
	Workers   int
	BatchSize int
	Quiet     bool
	Suite     string
	Filter    string
}

// UI defines how run progress and results reach the user. Implementations can
// use different output methods (plain text, styled terminal, etc).
type UI interface {
	DisplayRunInfo(ctx context.Context, info RunInfo)
	DisplayPoolWarning(ctx context.Context)
	DisplayOutcome(ctx context.Context, outcome m.InvocationOutcome)
	DisplaySummary(ctx context.Context, summary m.RunSummary)
	DisplayInventory(ctx context.Context, units []m.DiscoveredUnit, flagged []m.Path) error
}
