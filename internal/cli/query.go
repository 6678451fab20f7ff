package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/flow"
	"github.com/opmtools/opdflow/pkg/io"
	"github.com/opmtools/opdflow/pkg/pipeline"
)

// bandsCommand prints every band of a diagram.
func (c *CLI) bandsCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "bands <diagram>",
		Short: "Show the bands of parallel processes in a diagram",
		Long: `Show the bands of a diagram, top to bottom. Processes in one band may run in
parallel; every process in a band waits for all processes of the band above.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			var rows []processRow
			for i, members := range flow.Bands(res.Graph) {
				for _, p := range members {
					rows = append(rows, processRow{process: p, band: i})
				}
			}
			if len(rows) > 0 {
				fmt.Fprintln(w, processTable(rows))
			}
			printStats(w, res.Stats, "")

			if check {
				if err := res.Graph.Validate(); err != nil {
					return fmt.Errorf("graph check failed: %w", err)
				}
				printSuccess(w, "graph is consistent")
				if final, err := flow.FinalProcesses(res.Graph); err == nil {
					printDetail(w, "final processes: %s", processIDs(final))
				}
			}
			if len(rows) > 0 {
				printNextStep(w, "Explore interactively", appName+" explore "+args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify graph invariants after building")
	return cmd
}

// initialCommand prints the processes that can start first.
func (c *CLI) initialCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "initial <diagram>",
		Short: "Show the processes that start the flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ps, err := flow.InitialProcesses(res.Graph)
			if err != nil {
				return err
			}
			return printProcesses(cmd, res.Graph, ps)
		},
	}
}

// nextCommand prints the direct successors of one process.
func (c *CLI) nextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next <diagram> <process-id>",
		Short: "Show the processes that follow a process",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ps, err := flow.NextProcessesByID(res.Graph, args[1])
			if err != nil {
				return err
			}
			if len(ps) == 0 {
				printInfo(cmd.OutOrStdout(), "%s is a final process", args[1])
				return nil
			}
			return printProcesses(cmd, res.Graph, ps)
		},
	}
}

// analyze loads and analyzes a diagram file without touching any cache.
func (c *CLI) analyze(ctx context.Context, path string) (*pipeline.Result, error) {
	d, err := c.loadDiagram(path)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(nil, nil, c.Logger).Analyze(ctx, d)
}

// loadDiagram imports a diagram file and logs its size.
func (c *CLI) loadDiagram(path string) (*diagram.Diagram, error) {
	d, err := io.ImportDiagram(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded diagram", "name", d.Name, "processes", d.Len())
	return d, nil
}

func processIDs(ps []diagram.Process) string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return strings.Join(ids, ", ")
}

func printProcesses(cmd *cobra.Command, g *flow.Graph, ps []diagram.Process) error {
	rows := make([]processRow, len(ps))
	for i, p := range ps {
		band, err := flow.LevelOfID(g, p.ID)
		if err != nil {
			return err
		}
		rows[i] = processRow{process: p, band: band}
	}
	fmt.Fprintln(cmd.OutOrStdout(), processTable(rows))
	return nil
}
