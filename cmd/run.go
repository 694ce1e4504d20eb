package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"strum.dev/pkg/strum/internal/adapter"
	"strum.dev/pkg/strum/internal/controller"
	"strum.dev/pkg/strum/internal/domain"
	m "strum.dev/pkg/strum/internal/model"
	"strum.dev/pkg/strum/pkg/harness"
)

var runWorkersFlag int
var runBatchSizeFlag int
var runQuietFlag bool
var runSuiteFlag string
var runFilterFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <project-root>",
		Short: "Run discovered tests",
		Long:  runLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, args[0])
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runWorkersFlag, workersFlagName, "w", viper.GetInt(workersConfigKey), "number of parallel workers (1 = sequential, ordered output)")
	bindFlagToConfig(cmd.Flags().Lookup(workersFlagName), workersConfigKey)

	cmd.Flags().IntVarP(&runBatchSizeFlag, batchSizeFlagName, "b", viper.GetInt(batchSizeConfigKey), "number of units each worker processes at once")
	bindFlagToConfig(cmd.Flags().Lookup(batchSizeFlagName), batchSizeConfigKey)

	cmd.Flags().BoolVarP(&runQuietFlag, quietFlagName, "q", viper.GetBool(quietConfigKey), "suppress per-invocation lines (summary always prints)")
	bindFlagToConfig(cmd.Flags().Lookup(quietFlagName), quietConfigKey)

	cmd.Flags().StringVarP(&runSuiteFlag, suiteFlagName, "s", "", "run only methods tagged with this suite")
	cmd.Flags().StringVarP(&runFilterFlag, filterFlagName, "f", "", "run only a specific target: file, file.class, or file.class.method")
}

func runTests(cmd *cobra.Command, root string) error {
	ctx := cmd.Context()

	// A missing project root is a fatal configuration error before any
	// scanning begins; everything after this point is captured per-invocation.
	fsProbe := adapter.NewLocalSourceFSAdapter()
	if _, err := fsProbe.FileInfo(m.Path(root)); err != nil {
		return fmt.Errorf("project %s does not exist: %w", root, err)
	}

	configureLogger("", viper.GetBool(logVerboseKey))

	filter, err := domain.NewTestFilter(runFilterFlag)
	if err != nil {
		return err
	}

	projectCfg, err := adapter.LoadProjectConfig(m.Path(root))
	if err != nil {
		return err
	}

	workers := viper.GetInt(workersConfigKey)
	if workers < 1 {
		workers = 1
	}

	batchSize := viper.GetInt(batchSizeConfigKey)
	if batchSize < 1 {
		batchSize = domain.DefaultBatchSize
	}

	quiet := viper.GetBool(quietConfigKey)

	ui.DisplayRunInfo(ctx, controller.RunInfo{
		Root:      m.Path(root),
		Workers:   workers,
		BatchSize: batchSize,
		Quiet:     quiet,
		Suite:     runSuiteFlag,
		Filter:    runFilterFlag,
	})

	if workers > 1 {
		ui.DisplayPoolWarning(ctx)
	}

	// Prep units register fixtures; they load before discovery so every
	// registration is in place when dispatching starts.
	for _, prep := range projectCfg.Preps {
		if _, err := harness.Default().Load(prep); err != nil {
			return fmt.Errorf("load prep unit %q: %w", prep, err)
		}
	}

	exclude := append(viper.GetStringSlice(excludeConfigKey), projectCfg.Exclude...)
	discovery := domain.NewDiscovery(adapter.NewLocalSourceFSAdapter(exclude...), parserAdapter)

	result, err := discovery.Collect(m.Path(root))
	if err != nil {
		return err
	}

	aggregator := domain.NewAggregator(result.Collected)

	sink := func(outcome m.InvocationOutcome) {
		aggregator.Observe(outcome)

		if !quiet {
			ui.DisplayOutcome(ctx, outcome)
		}
	}

	execErr := scheduler.Execute(ctx, domain.ExecuteArgs{
		Units:     result.Units,
		Filter:    filter,
		Suite:     runSuiteFlag,
		Workers:   workers,
		BatchSize: batchSize,
	}, sink)

	// The summary reports regardless of any failures encountered.
	ui.DisplaySummary(ctx, aggregator.Summary())

	return execErr
}
