package nodelink

import (
	"strings"
	"testing"

	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/flow"
	"github.com/opmtools/opdflow/pkg/geom"
)

func sample() *flow.Graph {
	return flow.Analyze([]diagram.Process{
		{ID: "a", Name: "Receive", Bounds: geom.R(10, 10, 10, 10)},
		{ID: "b", Bounds: geom.R(10, 70, 10, 10)},
		{ID: "c", Bounds: geom.R(60, 70, 10, 10)},
	})
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	for _, want := range []string{
		"digraph G {",
		"subgraph band_0 {",
		"subgraph band_1 {",
		`"a" [label="Receive"];`,
		`"b" [label="b"];`,
		`"a" -> "b";`,
		`"a" -> "c";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"b" -> "c"`) {
		t.Error("processes in one band must not be connected")
	}
	if got := strings.Count(dot, "rank=same;"); got != 2 {
		t.Errorf("rank=same count = %d, want 2", got)
	}
}

func TestToDOTBandMembership(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	band1 := dot[strings.Index(dot, "subgraph band_1"):]
	band1 = band1[:strings.Index(band1, "}")]
	if !strings.Contains(band1, `"b"`) || !strings.Contains(band1, `"c"`) {
		t.Errorf("band_1 should hold b and c:\n%s", band1)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true})
	if !strings.Contains(dot, `band: 1`) {
		t.Errorf("detailed DOT missing band index:\n%s", dot)
	}
	if !strings.Contains(dot, `(60,70 10x10)`) {
		t.Errorf("detailed DOT missing bounds:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	for _, g := range []*flow.Graph{nil, flow.Analyze(nil)} {
		dot := ToDOT(g, Options{})
		if strings.Contains(dot, "subgraph") || strings.Contains(dot, "->") {
			t.Errorf("empty graph produced content:\n%s", dot)
		}
		if !strings.HasSuffix(dot, "}\n") {
			t.Errorf("DOT not terminated:\n%s", dot)
		}
	}
}

func TestToDOTDeterministic(t *testing.T) {
	if ToDOT(sample(), Options{}) != ToDOT(sample(), Options{}) {
		t.Error("ToDOT output differs between runs")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := string(normalizeViewBox([]byte("<svg><g/></svg>"))); got != "<svg><g/></svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
