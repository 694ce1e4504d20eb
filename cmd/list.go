package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"strum.dev/pkg/strum/internal/adapter"
	"strum.dev/pkg/strum/internal/domain"
	m "strum.dev/pkg/strum/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-root>",
		Short: "List discovered test units without executing them",
		Long:  listLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			fsProbe := adapter.NewLocalSourceFSAdapter()
			if _, err := fsProbe.FileInfo(m.Path(root)); err != nil {
				return fmt.Errorf("project %s does not exist: %w", root, err)
			}

			configureLogger("", viper.GetBool(logVerboseKey))

			projectCfg, err := adapter.LoadProjectConfig(m.Path(root))
			if err != nil {
				return err
			}

			exclude := append(viper.GetStringSlice(excludeConfigKey), projectCfg.Exclude...)
			discovery := domain.NewDiscovery(adapter.NewLocalSourceFSAdapter(exclude...), parserAdapter)

			result, err := discovery.Collect(m.Path(root))
			if err != nil {
				return err
			}

			return ui.DisplayInventory(cmd.Context(), result.Units, result.Flagged)
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
