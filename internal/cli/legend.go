package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/render"
)

const swatch = "██"

// legendCommand prints the category legend with totals.
func (c *CLI) legendCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "legend [dataset]",
		Short: "Print the category legend with per-category totals",
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

			res, err := runner.Execute(ctx, pipelineOptions(ctx, cfg))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(res.Scene.Title))
			fmt.Fprintln(cmd.OutOrStdout(), legendTable(res.Scene.Totals(), res.Stats.Total))
			return nil
		},
	}

	addSettingsFlags(cmd.Flags())
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.ValidArgsFunction = completeDataset
	return cmd
}

// legendTable renders one row per category in legend order, with a color
// swatch, the tile count, the summed value and its share of total.
func legendTable(totals []render.CategoryTotal, total float64) string {
	rows := make([][]string, 0, len(totals))
	for _, ct := range totals {
		share := "0%"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*ct.Value/total)
		}
		rows = append(rows, []string{
			lipgloss.NewStyle().Foreground(lipgloss.Color(ct.Color)).Render(swatch),
			ct.Category,
			humanize.Comma(int64(ct.Count)),
			humanize.Commaf(ct.Value),
			share,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Category", "Tiles", "Value", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col >= 2 {
				return lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
