// Package cmd provides the root command and CLI setup for strum.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"strum.dev/pkg/strum/internal/adapter"
	"strum.dev/pkg/strum/internal/controller"
	"strum.dev/pkg/strum/internal/domain"
	"strum.dev/pkg/strum/pkg/harness"
)

var parserAdapter adapter.UnitParserAdapter
var scheduler *domain.Scheduler
var ui controller.UI

// excludePatterns is a root-level flag that adds directory names the scanner
// skips.
var excludePatterns []string

// verboseFlag switches file logging to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd)
	parserAdapter = adapter.NewLocalUnitParserAdapter()
	scheduler = domain.NewScheduler(harness.Default(), harness.Fixtures())
}

const rootLongDescription = `Strum is a test discovery-and-execution engine: it statically scans a project
root for test-bearing source units, extracts their declared test classes and
methods without executing them, then runs the selected subset against the
registered catalog, sequentially or on a worker pool, and aggregates results.

Test units and fixtures register themselves through the strum.dev/pkg/strum/pkg/harness
package before a run begins.`

const runLongDescription = `Run discovered tests for the given project root.

A dotted filter narrows execution to a file, a class within a file, or a single
method: file, file.class, or file.class.method. Empty segments and "*" match
everything. A suite restricts execution to methods tagged with that suite.`

const listLongDescription = `Discover test units under the project root and list their classes and methods
without executing anything.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strum",
		Short: "Fast test discovery and execution engine",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude directories by name (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVar(&verboseFlag, verboseFlagName, viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
