// Package diagram defines the process elements the inference engine reads.
//
// A diagram is produced by an external editor. The engine only needs each
// process element's identity and its axis-aligned rectangle; everything else
// the editor stores (links, objects, styling) stays outside this package.
//
// Identity is the ID string. Two processes with identical geometry are still
// two distinct nodes as long as their IDs differ. No ID generation happens
// here: callers supply IDs and this package only validates them.
package diagram

import (
	"github.com/opmtools/opdflow/pkg/errors"
	"github.com/opmtools/opdflow/pkg/geom"
)

// Process is a process element: a stable identity plus its placement.
type Process struct {
	ID     string
	Name   string
	Bounds geom.Rect
}

// Label returns Name when set, otherwise ID.
func (p Process) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Diagram is a snapshot of the process elements of one diagram.
type Diagram struct {
	Name      string
	Processes []Process
}

// Len returns the number of processes in the snapshot.
func (d *Diagram) Len() int { return len(d.Processes) }

// Lookup returns the process with the given ID.
func (d *Diagram) Lookup(id string) (Process, bool) {
	for _, p := range d.Processes {
		if p.ID == id {
			return p, true
		}
	}
	return Process{}, false
}

// Validate checks that the snapshot can be analyzed: every process has a
// valid, unique ID and finite, non-negative geometry. An empty diagram is
// valid.
func (d *Diagram) Validate() error {
	return ValidateProcesses(d.Processes)
}

// ValidateProcesses applies the Diagram.Validate rules to a bare slice.
func ValidateProcesses(ps []Process) error {
	seen := make(map[string]struct{}, len(ps))
	for i, p := range ps {
		if err := errors.ValidateID(p.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "process #%d", i)
		}
		if _, dup := seen[p.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate process id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		if !p.Bounds.Finite() {
			return errors.New(errors.ErrCodeInvalidInput, "process %q has non-finite bounds %v", p.ID, p.Bounds)
		}
		if p.Bounds.Width < 0 || p.Bounds.Height < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "process %q has negative size %v", p.ID, p.Bounds)
		}
	}
	return nil
}
