package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/treemap/pkg/errors"
)

// browseCommand opens the interactive tile browser.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse [dataset]",
		Short: "Browse tiles and their tooltips in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinnerWithContext(ctx, "Loading dataset")
			restore := spin.trackPipeline()
			spin.Start()
			res, err := runner.Execute(ctx, pipelineOptions(ctx, cfg))
			spin.Stop()
			restore()
			if err != nil {
				return err
			}
			if len(res.Scene.Tiles) == 0 {
				return apperr.New(apperr.ErrCodeInvalidInput, "dataset has no tiles to browse")
			}

			p := tea.NewProgram(NewTileBrowserModel(res.Scene),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}

	addSettingsFlags(cmd.Flags())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.ValidArgsFunction = completeDataset
	return cmd
}
