// Package nodelink renders execution graphs as node-link diagrams.
//
// # Overview
//
// Processes appear as ellipses connected by must-precede arrows. Every band
// is emitted as a rank=same subgraph, so Graphviz keeps concurrent processes
// on one horizontal line and the picture reads top to bottom like the source
// diagram.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: labels include the band index and the process rectangle.
//
// # Dependencies
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz]; no
// Graphviz installation is required.
package nodelink
