package dag

import (
	"errors"
	"slices"
	"testing"
)

func build(t *testing.T, nodes []Node, edges []Edge) *DAG {
	t.Helper()
	g := New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e.From, e.To, err)
		}
	}
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New()

	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: got %v, want %v", err, ErrInvalidNodeID)
	}
	if err := g.AddNode(Node{ID: "a", Row: -1}); !errors.Is(err, ErrInvalidRow) {
		t.Errorf("negative row: got %v, want %v", err, ErrInvalidRow)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a): %v", err)
	}
	if err := g.AddNode(Node{ID: "a", Row: 1}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: got %v, want %v", err, ErrDuplicateNodeID)
	}

	if n, ok := g.Node("a"); !ok || n.Row != 0 {
		t.Errorf("Node(a) = %+v, %v; want the first node in row 0", n, ok)
	}
}

func TestAddEdgeErrors(t *testing.T) {
	g := build(t, []Node{{ID: "a"}, {ID: "b", Row: 1}}, nil)

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "x", To: "b"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "x"}, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge() = %v, want %v", err, tt.want)
			}
		})
	}

	if err := g.AddEdge(Edge{From: "a", To: "b"}); err != nil {
		t.Fatalf("AddEdge(a->b): %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "b"}); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("duplicate edge: got %v, want %v", err, ErrDuplicateEdge)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if !g.HasEdge("a", "b") || g.HasEdge("b", "a") {
		t.Error("HasEdge reports wrong direction")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
		want  error
	}{
		{
			name:  "empty",
			nodes: nil,
			want:  nil,
		},
		{
			name:  "consecutive rows",
			nodes: []Node{{ID: "a"}, {ID: "b", Row: 1}, {ID: "c", Row: 2}},
			edges: []Edge{{"a", "b"}, {"b", "c"}},
			want:  nil,
		},
		{
			name:  "skips a row",
			nodes: []Node{{ID: "a"}, {ID: "b", Row: 1}, {ID: "c", Row: 2}},
			edges: []Edge{{"a", "c"}},
			want:  ErrNonConsecutiveRows,
		},
		{
			name:  "same row",
			nodes: []Node{{ID: "a"}, {ID: "b"}},
			edges: []Edge{{"a", "b"}},
			want:  ErrNonConsecutiveRows,
		},
		{
			name:  "upward edge",
			nodes: []Node{{ID: "a"}, {ID: "b", Row: 1}},
			edges: []Edge{{"a", "b"}, {"b", "a"}},
			want:  ErrNonConsecutiveRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.nodes, tt.edges)
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDetectCycles(t *testing.T) {
	g := build(t, []Node{{ID: "a"}, {ID: "b"}}, []Edge{{"a", "b"}, {"b", "a"}})
	if err := g.detectCycles(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("detectCycles() = %v, want %v", err, ErrGraphHasCycle)
	}

	g = build(t, []Node{{ID: "a"}, {ID: "b", Row: 1}}, []Edge{{"a", "b"}})
	if err := g.detectCycles(); err != nil {
		t.Errorf("detectCycles() on chain = %v, want nil", err)
	}
}

func TestReachable(t *testing.T) {
	g := build(t,
		[]Node{{ID: "a"}, {ID: "b", Row: 1}, {ID: "c", Row: 2}, {ID: "d", Row: 0}},
		[]Edge{{"a", "b"}, {"b", "c"}},
	)

	if !g.Reachable("a", "c") {
		t.Error("a should reach c through b")
	}
	if g.HasEdge("a", "c") {
		t.Error("reachability must not imply a direct edge")
	}
	if g.Reachable("c", "a") {
		t.Error("c should not reach a")
	}
	if g.Reachable("d", "c") {
		t.Error("isolated d should reach nothing")
	}
	if g.Reachable("a", "a") {
		t.Error("a node does not reach itself in a DAG")
	}
}

func TestOrderIsInsertionOrder(t *testing.T) {
	ids := []string{"z", "m", "a", "q"}
	var nodes []Node
	for _, id := range ids {
		nodes = append(nodes, Node{ID: id})
	}
	g := build(t, nodes, nil)

	for i := 0; i < 5; i++ {
		if got := NodeIDs(g.Nodes()); !slices.Equal(got, ids) {
			t.Fatalf("Nodes() = %v, want %v", got, ids)
		}
	}
	if got := NodeIDs(g.Sources()); !slices.Equal(got, ids) {
		t.Errorf("Sources() = %v, want %v", got, ids)
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := build(t,
		[]Node{{ID: "a"}, {ID: "b"}, {ID: "c", Row: 1}, {ID: "d", Row: 2}, {ID: "e", Row: 1}},
		[]Edge{{"a", "c"}, {"b", "c"}, {"c", "d"}},
	)

	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"a", "b", "e"}) {
		t.Errorf("Sources() = %v, want [a b e]", got)
	}
	if got := NodeIDs(g.Sinks()); !slices.Equal(got, []string{"d", "e"}) {
		t.Errorf("Sinks() = %v, want [d e]", got)
	}
	if New().Sinks() != nil {
		t.Error("Sinks() of empty graph should be nil")
	}
}
