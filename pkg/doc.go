// Package pkg provides the libraries behind opdflow, which infers the
// execution order of processes in an object-process diagram.
//
// # Overview
//
// Processes drawn side by side run in parallel; a process drawn below
// another waits for it. The pkg directory is organized as:
//
//  1. [geom], [diagram] - Rectangles and the process snapshot read from an editor
//  2. [band] - Grouping vertically overlapping processes into bands
//  3. [dag], [flow] - The execution graph and its queries
//  4. [io], [render] - Diagram files, graph JSON, DOT and SVG
//  5. [cache], [pipeline], [observability] - Orchestration around the core
//
// # Architecture
//
//	Diagram file (JSON/YAML/TOML)
//	         ↓
//	    [io] ReadDiagram / ImportDiagram
//	         ↓
//	    [band] Bandify (union-find over vertical spans)
//	         ↓
//	    [flow] Build (edges between consecutive bands)
//	         ↓
//	    [flow] InitialProcesses / NextProcesses
//
// # Quick Start
//
//	d, err := io.ImportDiagram("order-flow.yml")
//	if err != nil {
//	    return err
//	}
//	g := flow.Analyze(d.Processes)
//	start, _ := flow.InitialProcesses(g)
//
// [geom]: github.com/opmtools/opdflow/pkg/geom
// [diagram]: github.com/opmtools/opdflow/pkg/diagram
// [band]: github.com/opmtools/opdflow/pkg/band
// [dag]: github.com/opmtools/opdflow/pkg/dag
// [flow]: github.com/opmtools/opdflow/pkg/flow
// [io]: github.com/opmtools/opdflow/pkg/io
// [render]: github.com/opmtools/opdflow/pkg/render
// [cache]: github.com/opmtools/opdflow/pkg/cache
// [pipeline]: github.com/opmtools/opdflow/pkg/pipeline
// [observability]: github.com/opmtools/opdflow/pkg/observability
package pkg
