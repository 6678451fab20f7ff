package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/opmtools/opdflow/pkg/flow"
	"github.com/opmtools/opdflow/pkg/io"
	"github.com/opmtools/opdflow/pkg/render/nodelink"
)

// Render generates artifacts for the requested formats without caching.
func Render(ctx context.Context, g *flow.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			data []byte
			err  error
		)
		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = io.WriteGraphJSON(g, &buf)
			data = buf.Bytes()
		case FormatDOT:
			if dot == "" {
				dot = nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
			}
			data = []byte(dot)
		case FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
			}
			data, err = nodelink.RenderSVG(ctx, dot)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
