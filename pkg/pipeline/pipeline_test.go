package pipeline

import (
	"bytes"
	"context"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/opmtools/opdflow/pkg/cache"
	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/errors"
	"github.com/opmtools/opdflow/pkg/geom"
	"github.com/opmtools/opdflow/pkg/observability"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func sampleDiagram() *diagram.Diagram {
	return &diagram.Diagram{
		Name: "sample",
		Processes: []diagram.Process{
			{ID: "1", Bounds: geom.R(10, 10, 10, 10)},
			{ID: "2", Bounds: geom.R(10, 70, 10, 10)},
			{ID: "3", Bounds: geom.R(60, 70, 10, 10)},
			{ID: "4", Bounds: geom.R(10, 130, 10, 10)},
		},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.TTL != DefaultTTL {
		t.Errorf("TTL = %v, want %v", opts.TTL, DefaultTTL)
	}

	// idempotent
	opts.Formats = append(opts.Formats, "bogus")
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Detailed: true}
	if got := opts.ArtifactKeyOpts(FormatSVG); !got.Detailed || got.Format != FormatSVG {
		t.Errorf("ArtifactKeyOpts(svg) = %+v", got)
	}
	// graph JSON does not depend on label detail
	if got := opts.ArtifactKeyOpts(FormatJSON); got.Detailed {
		t.Errorf("ArtifactKeyOpts(json) = %+v, want Detailed false", got)
	}
}

func TestAnalyze(t *testing.T) {
	res, err := Analyze(sampleDiagram())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Stats.ProcessCount != 4 || res.Stats.BandCount != 3 || res.Stats.EdgeCount != 4 {
		t.Errorf("Stats = %+v, want 4 processes, 3 bands, 4 edges", res.Stats)
	}
	if len(res.Bands) != 3 || res.Bands[1].Len() != 2 {
		t.Errorf("Bands = %v", res.Bands)
	}
	if len(res.DiagramHash) != 64 {
		t.Errorf("DiagramHash = %q, want 64 hex chars", res.DiagramHash)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	if _, err := Analyze(nil); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Analyze(nil) = %v, want %s", err, errors.ErrCodeInvalidArgument)
	}

	d := sampleDiagram()
	d.Processes[1].ID = "1"
	if _, err := Analyze(d); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Analyze(duplicate ids) = %v, want %s", err, errors.ErrCodeInvalidInput)
	}

	// rejected before hashing, which cannot encode NaN
	d = sampleDiagram()
	d.Processes[2].Bounds.Y = math.NaN()
	if _, err := Analyze(d); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Analyze(NaN y) = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestDiagramHash(t *testing.T) {
	a := sampleDiagram()
	b := sampleDiagram()
	b.Processes[0], b.Processes[3] = b.Processes[3], b.Processes[0]

	ha, err := DiagramHash(a)
	if err != nil {
		t.Fatal(err)
	}
	hb, _ := DiagramHash(b)
	if ha != hb {
		t.Error("process order should not change the hash")
	}
	if a.Processes[0].ID != "1" {
		t.Error("DiagramHash must not reorder the caller's processes")
	}

	c := sampleDiagram()
	c.Processes[2].Bounds.Y = 75
	hc, _ := DiagramHash(c)
	if ha == hc {
		t.Error("moving a process should change the hash")
	}
}

func TestRender(t *testing.T) {
	res, err := Analyze(sampleDiagram())
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(context.Background(), res.Graph, Options{Formats: []string{FormatJSON, FormatDOT}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(artifacts[FormatJSON], []byte(`"bands"`)) {
		t.Errorf("json artifact = %s", artifacts[FormatJSON])
	}
	if !strings.HasPrefix(string(artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("dot artifact = %s", artifacts[FormatDOT])
	}

	if _, err := Render(context.Background(), res.Graph, Options{Formats: []string{"png"}}); err == nil {
		t.Error("Render should reject unknown formats")
	}
}

func TestRenderCanceled(t *testing.T) {
	res, _ := Analyze(sampleDiagram())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Render(ctx, res.Graph, Options{Formats: []string{FormatDOT}}); err != context.Canceled {
		t.Errorf("Render on canceled ctx = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopCacheHooks
	mu                sync.Mutex
	hits, misses, set int
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func (h *recordingHooks) OnCacheSet(context.Context, string, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.set++
}

func TestRunnerCachesArtifacts(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	ctx := context.Background()
	opts := Options{Formats: []string{FormatJSON, FormatDOT}, TTL: time.Hour}

	first, err := r.Execute(ctx, sampleDiagram(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(ctx, sampleDiagram(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should be served from cache")
	}
	for _, f := range opts.Formats {
		if !bytes.Equal(first.Artifacts[f], second.Artifacts[f]) {
			t.Errorf("%s artifact differs between runs", f)
		}
	}

	refreshed, err := r.Execute(ctx, sampleDiagram(), Options{Formats: opts.Formats, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the cache")
	}

	if hooks.misses != 2 || hooks.hits != 2 || hooks.set != 4 {
		t.Errorf("hooks = %d misses, %d hits, %d sets; want 2, 2, 4", hooks.misses, hooks.hits, hooks.set)
	}
}

func TestRunnerAnalyzeHooks(t *testing.T) {
	var got struct {
		started, completed bool
		bands, edges       int
	}
	observability.SetAnalysisHooks(&analysisRecorder{
		start: func() { got.started = true },
		complete: func(bands, edges int) {
			got.completed, got.bands, got.edges = true, bands, edges
		},
	})
	defer observability.Reset()

	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Analyze(context.Background(), sampleDiagram()); err != nil {
		t.Fatal(err)
	}
	if !got.started || !got.completed || got.bands != 3 || got.edges != 4 {
		t.Errorf("hooks saw %+v", got)
	}
}

type analysisRecorder struct {
	observability.NoopAnalysisHooks
	start    func()
	complete func(bands, edges int)
}

func (a *analysisRecorder) OnAnalyzeStart(context.Context, string, int) { a.start() }

func (a *analysisRecorder) OnAnalyzeComplete(_ context.Context, _ string, bands, edges int, _ time.Duration, _ error) {
	a.complete(bands, edges)
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner left nil fields: %+v", r)
	}
	if _, ok := r.Cache.(*cache.NullCache); !ok {
		t.Errorf("default cache = %T, want *cache.NullCache", r.Cache)
	}
}
