package flow

import (
	"fmt"
	"slices"

	"github.com/opmtools/opdflow/pkg/band"
	"github.com/opmtools/opdflow/pkg/dag"
	"github.com/opmtools/opdflow/pkg/diagram"
)

// Graph is the execution graph of one diagram snapshot. Node IDs are process
// IDs and node rows are band indexes.
type Graph struct {
	dag       *dag.DAG
	processes map[string]diagram.Process
	bands     []band.Band
}

// Build connects consecutive bands with full bipartite edges.
//
// An empty band sequence yields an empty, non-nil graph. Process IDs must be
// non-empty and unique across bands; Build panics otherwise. Use
// [AnalyzeChecked] when the input is untrusted.
func Build(bands []band.Band) *Graph {
	g := &Graph{
		dag:       dag.New(),
		processes: make(map[string]diagram.Process),
		bands:     make([]band.Band, len(bands)),
	}

	for i, b := range bands {
		g.bands[i] = band.Band{Index: i, Processes: slices.Clone(b.Processes), Span: b.Span}
		for _, p := range b.Processes {
			n := dag.Node{ID: p.ID, Row: i}
			if err := g.dag.AddNode(n); err != nil {
				panic(fmt.Sprintf("flow: process %q: %v", p.ID, err))
			}
			g.processes[p.ID] = p
		}
	}

	for i := 0; i+1 < len(bands); i++ {
		for _, from := range bands[i].Processes {
			for _, to := range bands[i+1].Processes {
				if err := g.dag.AddEdge(dag.Edge{From: from.ID, To: to.ID}); err != nil {
					panic(fmt.Sprintf("flow: edge %s->%s: %v", from.ID, to.ID, err))
				}
			}
		}
	}

	return g
}

// Analyze bands processes and builds their execution graph. Like Build, it
// panics on empty or duplicate IDs.
func Analyze(processes []diagram.Process) *Graph {
	return Build(band.Bandify(processes))
}

// AnalyzeChecked validates processes before analyzing them. Invalid IDs or
// geometry yield an INVALID_INPUT error instead of a panic or a graph built
// from unusable coordinates.
func AnalyzeChecked(processes []diagram.Process) (*Graph, error) {
	if err := diagram.ValidateProcesses(processes); err != nil {
		return nil, err
	}
	return Analyze(processes), nil
}

// DAG exposes the underlying layered graph for export and rendering.
// Callers must not modify it.
func (g *Graph) DAG() *dag.DAG { return g.dag }

// Len returns the number of processes in the graph.
func (g *Graph) Len() int { return g.dag.NodeCount() }

// EdgeCount returns the number of must-precede edges.
func (g *Graph) EdgeCount() int { return g.dag.EdgeCount() }

// BandCount returns the number of bands.
func (g *Graph) BandCount() int { return len(g.bands) }

// Process returns the process with the given ID.
func (g *Graph) Process(id string) (diagram.Process, bool) {
	p, ok := g.processes[id]
	return p, ok
}

// Contains reports whether the graph holds a process with the given ID.
func (g *Graph) Contains(id string) bool {
	_, ok := g.processes[id]
	return ok
}

// Precedes reports whether there is an edge from one process to another.
func (g *Graph) Precedes(from, to string) bool { return g.dag.HasEdge(from, to) }

// Validate re-checks the structural invariants of the underlying graph.
// A graph returned by Build always validates.
func (g *Graph) Validate() error { return g.dag.Validate() }

func (g *Graph) lookup(ids []string) []diagram.Process {
	out := make([]diagram.Process, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.processes[id])
	}
	return out
}
