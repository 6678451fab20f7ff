// Package render groups the visual outputs of an execution graph.
//
// The [nodelink] subpackage emits Graphviz DOT with one rank per band and
// renders it to SVG. Structured exports (graph JSON) live in pkg/io.
//
// [nodelink]: github.com/opmtools/opdflow/pkg/render/nodelink
package render
