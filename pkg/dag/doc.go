// Package dag provides a directed acyclic graph organized in rows, where
// edges only ever join a row to the row directly below it.
//
// # Overview
//
// opdflow derives execution order from diagram layout. Each horizontal band
// of the diagram becomes a row of this graph, and "must happen before" edges
// run from one row to the next. Storing the row on every node makes the core
// invariants cheap to state and check: an edge is legal only when
// To.Row == From.Row+1, which rules out edges inside a row, transitive
// shortcuts across rows, and cycles in one comparison.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode] and edges with
// [DAG.AddEdge]:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "receive", Row: 0})
//	g.AddNode(dag.Node{ID: "ship", Row: 1})
//	g.AddEdge(dag.Edge{From: "receive", To: "ship"})
//
// Query the structure with [DAG.Children], [DAG.HasEdge], [DAG.Sources] and
// [DAG.Sinks]. [DAG.Validate] verifies the row and cycle constraints.
//
// # Ordering
//
// [DAG.Nodes], [DAG.Sources], [DAG.Sinks] and [DAG.Edges] return insertion
// order, so a graph built the same way twice enumerates the same way twice.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. After construction the
// graph may be read from any number of goroutines.
package dag
