// Package io reads diagram files and writes execution graphs as JSON.
//
// # Diagram Files
//
// A diagram file lists process elements with their rectangles. JSON, YAML and
// TOML carry the same schema; the format is chosen from the file extension
// (.json, .yml/.yaml, .toml):
//
//	name: order-flow
//	processes:
//	  - id: receive
//	    name: Receive Order
//	    x: 10
//	    y: 10
//	    width: 80
//	    height: 30
//	  - id: pack
//	    x: 10
//	    y: 90
//	    width: 80
//	    height: 30
//
// Required per process: id, x, y, width, height. The name is optional and
// only used for labels. Unknown keys are rejected so that typos such as
// "heigth" fail loudly instead of silently yielding a zero-height process.
//
// Use [ImportDiagram] to read a file by path, or [ReadDiagram] to read from
// any io.Reader with an explicit [Format]. Both validate the snapshot before
// returning it.
//
// # Graph Export
//
// [WriteGraphJSON] and [ExportGraphJSON] write an analyzed graph:
//
//	{
//	  "bands": [["receive"], ["pack", "label"]],
//	  "nodes": [{"id": "receive", "band": 0, "x": 10, ...}],
//	  "edges": [{"from": "receive", "to": "label"}, ...]
//	}
//
// Nodes appear in band order and edges are sorted by (from, to), so the same
// diagram always exports byte-identical output.
//
// # Errors
//
// Failures carry codes from [errors]: FILE_NOT_FOUND for a missing file,
// INVALID_FORMAT for an unknown extension or undecodable content, and
// INVALID_INPUT for a snapshot that decodes but fails validation.
//
// [errors]: github.com/opmtools/opdflow/pkg/errors
package io
