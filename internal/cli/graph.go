package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmtools/opdflow/pkg/pipeline"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output   string   // base output path; defaults to the input path without extension
	formats  []string // output formats: "svg", "dot", "json"
	detailed bool     // band and geometry in node labels
	noCache  bool
	refresh  bool // re-render even when cached
	watch    bool // re-render whenever the diagram file changes
}

// graphCommand exports the execution graph of a diagram.
func (c *CLI) graphCommand() *cobra.Command {
	var formatsStr string
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph <diagram>",
		Short: "Export the execution graph as JSON, DOT or SVG",
		Long: `Export the execution graph of a diagram. Each format is written next to the
output base path: <base>.graph.json, <base>.dot and <base>.svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = c.Config.Render.Detailed
			}
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include band and geometry in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when artifacts are cached")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render whenever the diagram changes")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, input string, opts graphOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := c.renderGraph(ctx, cmd, runner, input, opts); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	printInfo(cmd.OutOrStdout(), "Watching %s (ctrl+c to stop)", input)
	return watchFile(ctx, input, c.Logger, func() {
		if err := c.renderGraph(ctx, cmd, runner, input, opts); err != nil {
			c.Logger.Error("render failed", "err", err)
		}
	})
}

func (c *CLI) renderGraph(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, input string, opts graphOpts) error {
	prog := newProgress(c.Logger)
	d, err := c.loadDiagram(input)
	if err != nil {
		return err
	}

	var spin *Spinner
	if slices.Contains(opts.formats, pipeline.FormatSVG) {
		spin = newSpinnerWithContext(ctx, "Rendering "+input)
		spin.Start()
	}
	res, err := runner.Execute(ctx, d, pipeline.Options{
		Formats:  opts.formats,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
		TTL:      c.Config.Cache.TTL,
	})
	if err != nil {
		if spin != nil {
			spin.StopWithError("Rendering " + input + " failed")
		}
		return err
	}
	if spin != nil {
		spin.Stop()
	}

	w := cmd.OutOrStdout()
	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := outputPath(base, format)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(w, path)
	}

	status := iconFresh
	if res.CacheInfo.RenderHit {
		status = iconCached
	}
	printStats(w, res.Stats, status)
	prog.done(fmt.Sprintf("Exported %s", d.Name))
	return nil
}

// basePath derives the base output path from the output and input paths.
// A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.ValidFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one format. Graph JSON gets its own suffix
// so it never overwrites a JSON diagram next to it.
func outputPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".graph.json"
	}
	return base + "." + format
}
