package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/pkg/pipeline"
	"github.com/matzehuels/treemap/pkg/source"
)

// renderOpts holds the flags that are not config keys.
type renderOpts struct {
	output      string
	vizType     string
	formats     string
	title       string
	description string
	scale       float64
	static      bool
	detailed    bool
	refresh     bool
	noCache     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Render a dataset to SVG, HTML, JSON, PNG, PDF or DOT",
		Long: `Render fetches a dataset, lays it out and writes the requested formats.

The dataset is a preset name (` + strings.Join(source.PresetNames(), ", ") + `),
a URL or a local JSON file. Without an argument the configured dataset is used.`,
		Example: `  treemap render
  treemap render movies -f html -o movies.html
  treemap render sales.json -f svg,png --width 1200 --height 700
  treemap render kickstarter -t nodelink -f dot --detailed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			popts := pipelineOptions(ctx, cfg)
			popts.VizType = opts.vizType
			popts.Formats = parseFormats(opts.formats)
			popts.Title = opts.title
			popts.Description = opts.description
			popts.Scale = opts.scale
			popts.Static = opts.static
			popts.Detailed = opts.detailed
			popts.Refresh = opts.refresh
			if err := popts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			return runRender(ctx, runner, popts, opts.output)
		},
	}

	addSettingsFlags(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: treemap, nodelink")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg (default), html, json, png, pdf, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title (defaults to the preset title)")
	cmd.Flags().StringVar(&opts.description, "description", "", "chart description for HTML output")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.static, "static", false, "omit hover styling and script from the chart")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show values and depth in nodelink diagrams")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch the dataset even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	cmd.ValidArgsFunction = completeDataset
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(
		[]cobra.Completion{pipeline.VizTypeTreemap, pipeline.VizTypeNodelink}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func runRender(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spin := newSpinnerWithContext(ctx, "Rendering "+source.Describe(opts.Source))
	restore := spin.trackPipeline()
	spin.Start()
	res, err := runner.Execute(ctx, opts)
	spin.Stop()
	restore()
	if err != nil {
		return err
	}

	paths := outputPaths(output, res.Source, opts.VizType, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], res.Artifacts[format]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", format, "bytes", len(res.Artifacts[format]))
	}

	prog.done("Rendered", "files", len(opts.Formats), "run", res.RunID[:8])
	printSuccess("Rendered %s", res.Scene.Title)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(res.Stats, res.CacheInfo.DatasetHit)
	if res.Stats.Warnings > 0 {
		printWarning("%d malformed records were tolerated; run with --strict to reject them", res.Stats.Warnings)
	}
	return nil
}

// outputPaths decides the file written for each format. A single format
// goes to output verbatim; several formats share output as a base name.
// Without output, the dataset's base name is used in the working directory.
func outputPaths(output, resolved, vizType string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := basePath(output, resolved)
	if vizType != pipeline.VizTypeTreemap {
		base += "_" + vizType
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path. With no output it is the dataset's
// file name without extension; a known format extension on output is dropped.
func basePath(output, resolved string) string {
	if output == "" {
		name := filepath.Base(source.LocalPath(resolved))
		if p, ok := presetFor(resolved); ok {
			name = p
		}
		name = strings.TrimSuffix(name, filepath.Ext(name))
		if name == "" || name == "." || name == "/" {
			name = appName
		}
		return name
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if slices.Contains(pipeline.ValidFormats[pipeline.VizTypeTreemap], ext) {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// presetFor reports the preset whose URL is resolved.
func presetFor(resolved string) (string, bool) {
	for _, p := range source.Presets {
		if p.URL == resolved {
			return p.Name, true
		}
	}
	return "", false
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
