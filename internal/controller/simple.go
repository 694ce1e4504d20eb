package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "strum.dev/pkg/strum/internal/model"
)

// SimpleUI implements UI over a cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayRunInfo prints the run banner.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, info RunInfo) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Project: %s\n", info.Root)
	s.printf("Workers: %d\n", info.Workers)
	s.printf("Batch Size: %d\n", info.BatchSize)
	s.printf("Quiet: %t\n", info.Quiet)
	s.printf("Suite: %q\n", info.Suite)
	s.printf("Filter: %q\n", info.Filter)

	if !info.Quiet {
		s.printf("\n- - - Results - - -\n\n")
	}
}

// DisplayPoolWarning notes that worker pools pay off only for heavy suites.
func (s *SimpleUI) DisplayPoolWarning(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s Worker pools suit heavy or long-running tests; for trivial suites the dispatch overhead can slow the run down.\n",
		warnStyle.Render(warnLabel))
}

// DisplayOutcome prints one status line of the shape
// STATUS unit.class.method[params] [→ error].
func (s *SimpleUI) DisplayOutcome(ctx context.Context, outcome m.InvocationOutcome) {
	if err := ctx.Err(); err != nil {
		return
	}

	if outcome.Passed {
		s.printf("%s %s\n", passStyle.Render(passLabel), outcome.Target())
		return
	}

	s.printf("%s %s → %s\n", failStyle.Render(failLabel), outcome.Target(), outcome.Error)
}

// DisplaySummary prints the final totals block. It renders regardless of any
// failures encountered and regardless of quiet mode.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.RunSummary) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n- - - Summary - - -\n\n")
	s.printf("Collected: %d\n", summary.Collected)
	s.printf("Executed: %d / %d\n", summary.Executed, summary.Collected)
	s.printf("Failed: %d\n", summary.Failed)
	s.printf("Passed: %d\n", summary.Passed())
	s.printf("Total Time: %.2f Seconds\n", summary.Duration.Seconds())
}

// DisplayInventory renders the discovery-only table used by the list command.
func (s *SimpleUI) DisplayInventory(ctx context.Context, units []m.DiscoveredUnit, flagged []m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Unit", "Classes", "Methods"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	totalMethods := 0

	for _, unit := range units {
		count := unit.MethodCount()
		totalMethods += count

		table.Append([]string{unit.ID, fmt.Sprintf("%d", len(unit.Classes)), fmt.Sprintf("%d", count)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Units %d", len(units)),
		"",
		fmt.Sprintf("%d", totalMethods),
	})

	table.Render()

	s.printf("\n%s", tableBuffer.String())

	for _, path := range flagged {
		s.printf("%s %s failed to parse, excluded from discovery\n", warnStyle.Render(warnLabel), path)
	}

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
