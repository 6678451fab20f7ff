// Package pipeline runs the analyze → render flow shared by the CLI and the
// HTTP service.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Analyze: validate a diagram snapshot, group its processes into bands
//     and build the execution graph.
//  2. Render: produce artifacts from the graph (graph JSON, DOT, SVG).
//
// Analysis is cheap and always recomputed. Rendering SVG is not, so rendered
// artifacts are cached under keys derived from a content hash of the diagram.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, d, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	result, err := runner.Analyze(ctx, d)
//	artifacts, err := runner.Render(ctx, result, opts)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/opmtools/opdflow/pkg/band"
	"github.com/opmtools/opdflow/pkg/cache"
	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/errors"
	"github.com/opmtools/opdflow/pkg/flow"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 24 * time.Hour

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatJSON, FormatDOT, FormatSVG}

// Options configures the render stage.
type Options struct {
	// Formats to produce. Defaults to svg.
	Formats []string `json:"formats,omitempty"`
	// Detailed adds band indexes and rectangles to DOT and SVG labels.
	Detailed bool `json:"detailed,omitempty"`
	// Refresh bypasses cached artifacts and overwrites them.
	Refresh bool `json:"refresh,omitempty"`
	// TTL for newly cached artifacts. Defaults to DefaultTTL.
	TTL time.Duration `json:"ttl,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the analyzed snapshot.
	Diagram *diagram.Diagram

	// Bands are the processes grouped top to bottom.
	Bands []band.Band

	// Graph is the execution graph.
	Graph *flow.Graph

	// DiagramHash is the content hash of the snapshot, used for cache keys.
	DiagramHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks cache use during rendering.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ProcessCount int
	BandCount    int
	EdgeCount    int
	AnalyzeTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits during rendering.
type CacheInfo struct {
	// RenderHit is true when every requested artifact came from cache.
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, ValidFormats...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and checks the formats.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed && format != FormatJSON,
	}
}
