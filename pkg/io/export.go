package io

import (
	"cmp"
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/opmtools/opdflow/pkg/errors"
	"github.com/opmtools/opdflow/pkg/flow"
)

type graph struct {
	Bands [][]string `json:"bands"`
	Nodes []node     `json:"nodes"`
	Edges []edge     `json:"edges"`
}

type node struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Band   int     `json:"band"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteGraphJSON encodes an execution graph as indented JSON.
// Nodes follow band order and edges are sorted by (from, to).
func WriteGraphJSON(g *flow.Graph, w io.Writer) error {
	out := graph{Bands: [][]string{}, Nodes: []node{}, Edges: []edge{}}

	for i, members := range flow.Bands(g) {
		ids := make([]string, len(members))
		for j, p := range members {
			ids[j] = p.ID
			out.Nodes = append(out.Nodes, node{
				ID:     p.ID,
				Name:   p.Name,
				Band:   i,
				X:      p.Bounds.X,
				Y:      p.Bounds.Y,
				Width:  p.Bounds.Width,
				Height: p.Bounds.Height,
			})
		}
		out.Bands = append(out.Bands, ids)
	}

	if g != nil {
		for _, e := range g.DAG().Edges() {
			out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
		}
	}
	slices.SortFunc(out.Edges, func(a, b edge) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// ExportGraphJSON writes an execution graph to a JSON file at path.
// This is a convenience wrapper around [WriteGraphJSON] for file-based output.
func ExportGraphJSON(g *flow.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteGraphJSON(g, f)
}
