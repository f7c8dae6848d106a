package ocif

import "testing"

func TestNodeIndex(t *testing.T) {
	a := &Node{ID: "a"}
	b := &Node{ID: "b"}
	dup := &Node{ID: "a", Position: []float64{1, 2}}
	doc := &Document{Nodes: []*Node{a, nil, b, &Node{}, dup}}

	idx := doc.NodeIndex()
	if len(idx) != 2 {
		t.Fatalf("index size = %d, want 2", len(idx))
	}
	if idx["a"] != dup {
		t.Errorf("later duplicate should win")
	}
	if idx["b"] != b {
		t.Errorf("idx[b] = %v, want %v", idx["b"], b)
	}
}

func TestIsArrow(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"NoData", &Node{ID: "n"}, false},
		{"OtherType", &Node{Data: []map[string]any{{"type": "@ocif/node/rect"}}}, false},
		{"Arrow", &Node{Data: []map[string]any{{"type": TypeArrowNode}}}, true},
		{"ArrowSecondEntry", &Node{Data: []map[string]any{
			{"type": "@ocif/node/rect"},
			{"type": TypeArrowNode},
		}}, true},
		{"NonStringType", &Node{Data: []map[string]any{{"type": 7}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsArrow(); got != tt.want {
				t.Errorf("IsArrow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetArrowEndpoints(t *testing.T) {
	t.Run("ExistingEntry", func(t *testing.T) {
		n := &Node{Data: []map[string]any{{"type": TypeArrowNode, "strokeColor": "#000"}}}
		n.SetArrowEndpoints([]float64{1, 2}, []float64{3, 4})

		if len(n.Data) != 1 {
			t.Fatalf("data entries = %d, want 1", len(n.Data))
		}
		entry := n.Data[0]
		if entry["strokeColor"] != "#000" {
			t.Errorf("unrelated member dropped: %v", entry)
		}
		start := entry["start"].([]float64)
		if start[0] != 1 || start[1] != 2 {
			t.Errorf("start = %v, want [1 2]", start)
		}
	})

	t.Run("CreatesEntry", func(t *testing.T) {
		n := &Node{ID: "arrow1"}
		n.SetArrowEndpoints([]float64{0, 0}, []float64{10, 10})

		if !n.IsArrow() {
			t.Fatal("entry not created")
		}
		end := n.Data[0]["end"].([]float64)
		if end[0] != 10 || end[1] != 10 {
			t.Errorf("end = %v, want [10 10]", end)
		}
	})
}

func TestEdgeBinding(t *testing.T) {
	tests := []struct {
		name   string
		rel    *Relation
		want   EdgeBinding
		wantOK bool
	}{
		{
			name:   "NoData",
			rel:    &Relation{ID: "r", Source: "a", Target: "b"},
			wantOK: false,
		},
		{
			name: "Complete",
			rel: &Relation{Data: []map[string]any{{
				"type": TypeEdgeRelation, "node": "arrow1", "start": "a", "end": "b",
			}}},
			want:   EdgeBinding{ArrowID: "arrow1", StartID: "a", EndID: "b"},
			wantOK: true,
		},
		{
			name: "MissingNode",
			rel: &Relation{Data: []map[string]any{{
				"type": TypeEdgeRelation, "start": "a", "end": "b",
			}}},
			wantOK: false,
		},
		{
			name: "MissingStart",
			rel: &Relation{Data: []map[string]any{{
				"type": TypeEdgeRelation, "node": "arrow1", "end": "b",
			}}},
			wantOK: false,
		},
		{
			name: "WrongType",
			rel: &Relation{Data: []map[string]any{{
				"type": "@ocif/rel/group", "node": "arrow1", "start": "a", "end": "b",
			}}},
			wantOK: false,
		},
		{
			name: "SecondEntryBinds",
			rel: &Relation{Data: []map[string]any{
				{"type": "@ocif/rel/group"},
				{"type": TypeEdgeRelation, "node": "arrow1", "start": "a", "end": "b"},
			}},
			want:   EdgeBinding{ArrowID: "arrow1", StartID: "a", EndID: "b"},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rel.EdgeBinding()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("binding = %+v, want %+v", got, tt.want)
			}
		})
	}
}
