// Package flow infers execution order from diagram layout and answers
// "what can run next" queries.
//
// # Overview
//
// A diagram never draws sequence arrows. Instead, processes placed lower run
// later and processes side by side run together. This package turns that
// convention into an execution graph:
//
//  1. [band.Bandify] groups processes into vertically ordered bands.
//  2. [Build] connects every process in band i to every process in band i+1.
//  3. [NextProcesses] and [InitialProcesses] answer the two questions an
//     interpreter asks while stepping through the diagram.
//
// [Analyze] runs steps 1 and 2 in one call.
//
// # Guarantees
//
// Edges only join adjacent bands, so the graph:
//
//   - is acyclic by construction (edges always point one band down),
//   - has no edges inside a band,
//   - has no transitive shortcuts (a chain p1 → p2 → p3 has exactly two edges),
//   - has no duplicate edges.
//
// Building twice from the same processes yields the same vertex and edge sets.
//
// # Errors
//
// Query functions fail fast with coded errors from [errors]:
//
//   - [errors.ErrCodeInvalidArgument] for a nil graph, a nil process, an empty
//     ID, or a process the graph does not contain.
//   - [errors.ErrCodeInvalidInput] for [InitialProcesses] on a graph built from
//     no processes.
//
// # Ordering
//
// Returned process slices are sets. They currently follow band order (x, then
// y, then ID), but callers should not depend on it.
//
// # Concurrency
//
// All functions are pure. A [Graph] is immutable once built and may be queried
// from many goroutines.
//
// [errors]: github.com/opmtools/opdflow/pkg/errors
package flow
