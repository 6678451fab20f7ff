package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmtools/opdflow/pkg/diagram"
	"github.com/opmtools/opdflow/pkg/errors"
	"github.com/opmtools/opdflow/pkg/flow"
	"github.com/opmtools/opdflow/pkg/geom"
)

func TestImportDiagramFormats(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"parallel.json", "parallel.yml", "parallel.toml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d, err := ImportDiagram(filepath.Join("testdata", name))
			require.NoError(t, err)

			assert.Equal(t, "parallel", d.Name)
			require.Len(t, d.Processes, 4)
			assert.Equal(t, geom.R(60, 70, 10, 10), d.Processes[2].Bounds)
			assert.Equal(t, "Side Task", d.Processes[2].Name)
			assert.Equal(t, "Side Task", d.Processes[2].Label())
			assert.Equal(t, "1", d.Processes[0].Label())
		})
	}
}

func TestImportDiagramErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := map[string]struct {
		path string
		want errors.Code
	}{
		"missing file": {
			path: filepath.Join(dir, "missing.json"),
			want: errors.ErrCodeFileNotFound,
		},
		"unknown extension": {
			path: write("diagram.xml", "<opd/>"),
			want: errors.ErrCodeInvalidFormat,
		},
		"malformed json": {
			path: write("broken.json", `{"processes": [`),
			want: errors.ErrCodeInvalidFormat,
		},
		"empty file": {
			path: write("empty.yml", "\n"),
			want: errors.ErrCodeInvalidFormat,
		},
		"duplicate ids": {
			path: write("dup.json", `{"processes": [{"id": "a"}, {"id": "a"}]}`),
			want: errors.ErrCodeInvalidInput,
		},
		"negative size": {
			path: write("neg.yaml", "processes:\n  - id: a\n    width: -1\n"),
			want: errors.ErrCodeInvalidInput,
		},
		"yaml nan": {
			path: write("nan.yml", "processes:\n  - id: a\n    y: .nan\n"),
			want: errors.ErrCodeInvalidInput,
		},
		"yaml infinity": {
			path: write("inf.yaml", "processes:\n  - id: a\n    height: .inf\n"),
			want: errors.ErrCodeInvalidInput,
		},
		"toml nan": {
			path: write("nan.toml", "[[processes]]\nid = \"a\"\ny = nan\n"),
			want: errors.ErrCodeInvalidInput,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ImportDiagram(tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.GetCode(err), "err = %v", err)
		})
	}
}

func TestImportDiagramNamesFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "checkout.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"processes": []}`), 0o644))

	d, err := ImportDiagram(path)
	require.NoError(t, err)
	assert.Equal(t, "checkout", d.Name)
	assert.Equal(t, 0, d.Len())
}

func TestReadDiagramRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	tests := map[Format]string{
		FormatJSON: `{"processes": [{"id": "a", "heigth": 10}]}`,
		FormatYAML: "processes:\n  - id: a\n    heigth: 10\n",
		FormatTOML: "title = \"a\"\n\n[[processes]]\nid = \"a\"\n",
	}

	for format, input := range tests {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			_, err := ReadDiagram(strings.NewReader(input), format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat), "err = %v", err)
		})
	}
}

func TestReadDiagramUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := ReadDiagram(strings.NewReader(`{}`), Format("xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of: json, yaml, toml")
}

func TestWriteDiagramRoundTrip(t *testing.T) {
	t.Parallel()

	in := &diagram.Diagram{
		Name: "roundtrip",
		Processes: []diagram.Process{
			{ID: "a", Name: "Alpha", Bounds: geom.R(1.5, 2, 3, 4)},
			{ID: "b", Bounds: geom.R(0, 20, 3, 4)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDiagram(in, &buf))

	out, err := ReadDiagram(&buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteGraphJSON(t *testing.T) {
	t.Parallel()

	d, err := ImportDiagram(filepath.Join("testdata", "parallel.json"))
	require.NoError(t, err)
	g := flow.Analyze(d.Processes)

	var buf bytes.Buffer
	require.NoError(t, WriteGraphJSON(g, &buf))

	var got graph
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, [][]string{{"1"}, {"2", "3"}, {"4"}}, got.Bands)
	assert.Equal(t, []edge{
		{From: "1", To: "2"},
		{From: "1", To: "3"},
		{From: "2", To: "4"},
		{From: "3", To: "4"},
	}, got.Edges)
	require.Len(t, got.Nodes, 4)
	assert.Equal(t, node{ID: "3", Name: "Side Task", Band: 1, X: 60, Y: 70, Width: 10, Height: 10}, got.Nodes[2])

	var again bytes.Buffer
	require.NoError(t, WriteGraphJSON(flow.Analyze(d.Processes), &again))
	assert.Equal(t, buf.String(), again.String(), "export must be stable")
}

func TestWriteGraphJSONEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteGraphJSON(flow.Analyze(nil), &buf))
	assert.JSONEq(t, `{"bands": [], "nodes": [], "edges": []}`, buf.String())
}

func TestExportGraphJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "graph.json")
	g := flow.Analyze([]diagram.Process{{ID: "solo", Bounds: geom.R(0, 0, 1, 1)}})
	require.NoError(t, ExportGraphJSON(g, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"solo"`)
}
