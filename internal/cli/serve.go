package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/internal/server"
)

// serveCommand serves the interactive chart over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		title   string
		watch   bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dataset]",
		Short: "Serve the interactive treemap over HTTP",
		Long: `Serve renders the dataset once and serves the HTML page, the SVG chart and
legend, and a small JSON API. With --watch, a local dataset file is reloaded
whenever it changes; a failed reload keeps the previous chart.`,
		Example: `  treemap serve
  treemap serve sales.json --watch --addr :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipelineOptions(ctx, cfg)
			opts.Title = title
			srv := server.New(runner, opts, loggerFromContext(ctx))
			if err := srv.Load(ctx); err != nil {
				return err
			}
			printSuccess("Serving %s", StyleLink.Render("http://"+cfg.Serve.Addr))
			return srv.Run(ctx, cfg.Serve.Addr, watch)
		},
	}

	addSettingsFlags(cmd.Flags())
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address (config: serve.addr)")
	cmd.Flags().StringVar(&title, "title", "", "chart title (defaults to the preset title)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload a local dataset file when it changes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.ValidArgsFunction = completeDataset
	return cmd
}
