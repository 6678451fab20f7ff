// Package band groups process elements into horizontal levels.
//
// # Overview
//
// In the diagram notation, vertical position encodes sequence: processes that
// share a horizontal strip run concurrently, and strips further down run
// later. [Bandify] recovers those strips from geometry alone.
//
// Two processes belong to the same band when their closed vertical extents
// [y, y+height] overlap. The relation is closed under transitivity, so a tall
// process that overlaps two short ones pulls all three into one band even if
// the short ones never overlap each other. Horizontal position is ignored.
//
// # Algorithm
//
// Bands are the connected components of the vertical-overlap relation. The
// components are computed with a union-find: processes are swept in order of
// their top edge while tracking the process whose bottom edge reaches lowest
// so far. A process whose top lies at or above that bottom overlaps it and is
// unioned with it; otherwise it starts a new component. This finds every
// component in O(n log n) without comparing all pairs.
//
// Bands are returned ordered by their topmost y. Because components are
// maximal, the resulting bands never overlap vertically, so the order is total.
//
// # Determinism
//
// Inside a band, processes are ordered by (x, y, id). The order carries no
// meaning; it only makes output reproducible.
package band

import (
	"cmp"
	"slices"

	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/geom"
)

// Band is a maximal set of mutually concurrent processes.
type Band struct {
	// Index is the band's position in the top-to-bottom order, starting at 0.
	Index int
	// Processes are the band's members, ordered by (x, y, id).
	Processes []diagram.Process
	// Span is the vertical extent covered by the members.
	Span geom.Span
}

// Len returns the number of processes in the band.
func (b Band) Len() int { return len(b.Processes) }

// IDs returns the member IDs in band order.
func (b Band) IDs() []string {
	ids := make([]string, len(b.Processes))
	for i, p := range b.Processes {
		ids[i] = p.ID
	}
	return ids
}

// Contains reports whether the band has a member with the given ID.
func (b Band) Contains(id string) bool {
	return slices.ContainsFunc(b.Processes, func(p diagram.Process) bool { return p.ID == id })
}

// Bandify partitions processes into vertically ordered bands.
//
// The input is not modified; bands hold copies of the process values.
// An empty input returns nil. Bandify is a pure function and is safe to call
// concurrently.
func Bandify(processes []diagram.Process) []Band {
	n := len(processes)
	if n == 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		pa, pb := processes[a], processes[b]
		if c := cmp.Compare(pa.Bounds.Y, pb.Bounds.Y); c != 0 {
			return c
		}
		return cmp.Compare(pa.ID, pb.ID)
	})

	ds := newDisjointSet(n)
	reach := order[0]
	for _, i := range order[1:] {
		if processes[i].Bounds.Vertical().Overlaps(processes[reach].Bounds.Vertical()) {
			ds.union(i, reach)
		}
		if processes[i].Bounds.Bottom() > processes[reach].Bounds.Bottom() {
			reach = i
		}
	}

	groups := make(map[int]*Band)
	var roots []int
	for _, i := range order {
		p := processes[i]
		root := ds.find(i)
		b, ok := groups[root]
		if !ok {
			b = &Band{Span: p.Bounds.Vertical()}
			groups[root] = b
			roots = append(roots, root)
		}
		b.Processes = append(b.Processes, p)
		b.Span = b.Span.Union(p.Bounds.Vertical())
	}

	bands := make([]Band, 0, len(roots))
	for _, root := range roots {
		bands = append(bands, *groups[root])
	}
	slices.SortFunc(bands, func(a, b Band) int { return cmp.Compare(a.Span.Min, b.Span.Min) })

	for i := range bands {
		bands[i].Index = i
		slices.SortFunc(bands[i].Processes, compareInBand)
	}
	return bands
}

// Levels maps each process ID to the index of the band holding it.
func Levels(bands []Band) map[string]int {
	levels := make(map[string]int)
	for _, b := range bands {
		for _, p := range b.Processes {
			levels[p.ID] = b.Index
		}
	}
	return levels
}

func compareInBand(a, b diagram.Process) int {
	if c := cmp.Compare(a.Bounds.X, b.Bounds.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Bounds.Y, b.Bounds.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
