package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/config"
)

// configCommand groups config file helpers.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Work with the treemap.toml config file",
	}
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective settings to a config file",
		Long: `Init writes the current effective settings (defaults, environment and
flags) to ` + config.DefaultFile + ` or the given path. An existing file is only
replaced with --force.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			path := config.DefaultFile
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.WriteFile(path, cfg, force); err != nil {
				return err
			}
			printSuccess("Wrote config")
			printFile(path)
			printNextStep("Render with it", "treemap render --config "+path)
			return nil
		},
	}

	addSettingsFlags(cmd.Flags())
	cmd.Flags().String("dataset", "", "dataset preset, URL or file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
