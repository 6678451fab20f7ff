package flow

import (
	"github.com/opmtools/opdflow/pkg/dag"
	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/errors"
)

// NextProcesses returns the direct successors of p: the processes that may
// start once p has finished. A terminal process yields an empty slice.
func NextProcesses(g *Graph, p *diagram.Process) ([]diagram.Process, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "process is nil")
	}
	return NextProcessesByID(g, p.ID)
}

// NextProcessesByID is NextProcesses keyed by process ID. An empty ID counts
// as an absent argument.
func NextProcessesByID(g *Graph, id string) ([]diagram.Process, error) {
	if err := checkMember(g, id); err != nil {
		return nil, err
	}
	return g.lookup(g.dag.Children(id)), nil
}

// InitialProcesses returns the processes with no predecessor, which is the
// first band. It fails with INVALID_INPUT for a graph built from no
// processes, since such a graph has no first band.
func InitialProcesses(g *Graph) ([]diagram.Process, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "graph is nil")
	}
	if g.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "diagram has no processes")
	}
	return g.lookup(dag.NodeIDs(g.dag.Sources())), nil
}

// FinalProcesses returns the processes with no successor, which is the last
// band. Errors match InitialProcesses.
func FinalProcesses(g *Graph) ([]diagram.Process, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "graph is nil")
	}
	if g.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "diagram has no processes")
	}
	return g.lookup(dag.NodeIDs(g.dag.Sinks())), nil
}

// LevelOf returns the band index of p.
func LevelOf(g *Graph, p *diagram.Process) (int, error) {
	if p == nil {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "process is nil")
	}
	return LevelOfID(g, p.ID)
}

// LevelOfID is LevelOf keyed by process ID.
func LevelOfID(g *Graph, id string) (int, error) {
	if err := checkMember(g, id); err != nil {
		return 0, err
	}
	n, _ := g.dag.Node(id)
	return n.Row, nil
}

// Bands returns the processes grouped by band, top to bottom. A nil or empty
// graph yields nil.
func Bands(g *Graph) [][]diagram.Process {
	if g == nil || len(g.bands) == 0 {
		return nil
	}
	out := make([][]diagram.Process, len(g.bands))
	for i, b := range g.bands {
		out[i] = append([]diagram.Process(nil), b.Processes...)
	}
	return out
}

func checkMember(g *Graph, id string) error {
	if g == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "graph is nil")
	}
	if id == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "process id is empty")
	}
	if !g.Contains(id) {
		return errors.New(errors.ErrCodeInvalidArgument, "process %q is not in the graph", id)
	}
	return nil
}
