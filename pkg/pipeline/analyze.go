package pipeline

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/opmtools/opdflow/pkg/band"
	"github.com/opmtools/opdflow/pkg/cache"
	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/errors"
	"github.com/opmtools/opdflow/pkg/flow"
	"github.com/opmtools/opdflow/pkg/io"
)

// Analyze validates d and derives its bands and execution graph.
// It does not touch any cache.
func Analyze(d *diagram.Diagram) (*Result, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "diagram is nil")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	bands := band.Bandify(d.Processes)
	g := flow.Build(bands)

	hash, err := DiagramHash(d)
	if err != nil {
		return nil, err
	}

	return &Result{
		Diagram:     d,
		Bands:       bands,
		Graph:       g,
		DiagramHash: hash,
		Artifacts:   make(map[string][]byte),
		Stats: Stats{
			ProcessCount: d.Len(),
			BandCount:    len(bands),
			EdgeCount:    g.EdgeCount(),
		},
	}, nil
}

// DiagramHash returns a content hash of the snapshot. Process order does not
// affect the hash, since it does not affect the graph.
func DiagramHash(d *diagram.Diagram) (string, error) {
	canon := &diagram.Diagram{Name: d.Name, Processes: slices.Clone(d.Processes)}
	slices.SortFunc(canon.Processes, func(a, b diagram.Process) int { return cmp.Compare(a.ID, b.ID) })

	var buf bytes.Buffer
	if err := io.WriteDiagram(canon, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}
