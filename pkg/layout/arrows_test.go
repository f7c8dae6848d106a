package layout

import (
	"testing"

	"github.com/devhelpr/ocif-generator/pkg/ocif"
)

func arrowNode(id string) *ocif.Node {
	return &ocif.Node{
		ID:   id,
		Data: []map[string]any{{"type": ocif.TypeArrowNode}},
	}
}

func edgeRelation(id, arrow, start, end string) *ocif.Relation {
	return &ocif.Relation{
		ID:     id,
		Source: start,
		Target: end,
		Data: []map[string]any{{
			"type":  ocif.TypeEdgeRelation,
			"node":  arrow,
			"start": start,
			"end":   end,
		}},
	}
}

// checkArrowConsistent verifies the derived invariants: arrow position is
// the midpoint of its endpoints, and the stored start/end coordinates are
// the literal endpoint positions.
func checkArrowConsistent(t *testing.T, doc *ocif.Document, arrowID, startID, endID string) {
	t.Helper()
	index := doc.NodeIndex()
	arrow, start, end := index[arrowID], index[startID], index[endID]

	wantX := (start.Position[0] + end.Position[0]) / 2
	wantY := (start.Position[1] + end.Position[1]) / 2
	if arrow.Position[0] != wantX || arrow.Position[1] != wantY {
		t.Errorf("arrow %q position = %v, want midpoint (%v, %v)", arrowID, arrow.Position, wantX, wantY)
	}

	var data map[string]any
	for _, entry := range arrow.Data {
		if entry["type"] == ocif.TypeArrowNode {
			data = entry
		}
	}
	if data == nil {
		t.Fatalf("arrow %q lost its extension entry", arrowID)
	}
	gotStart, _ := data["start"].([]float64)
	gotEnd, _ := data["end"].([]float64)
	if len(gotStart) != 2 || gotStart[0] != start.Position[0] || gotStart[1] != start.Position[1] {
		t.Errorf("arrow %q start = %v, want %v", arrowID, gotStart, start.Position)
	}
	if len(gotEnd) != 2 || gotEnd[0] != end.Position[0] || gotEnd[1] != end.Position[1] {
		t.Errorf("arrow %q end = %v, want %v", arrowID, gotEnd, end.Position)
	}
}

func TestLayoutDerivesArrows(t *testing.T) {
	doc := &ocif.Document{
		Nodes: []*ocif.Node{
			node("a"), node("b"), arrowNode("arrow1"),
		},
		Relations: []*ocif.Relation{
			edgeRelation("r1", "arrow1", "a", "b"),
		},
	}

	cfg := Config{}
	if err := newTestEngine(cfg).Layout(doc); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	checkInBounds(t, doc, cfg)
	checkArrowConsistent(t, doc, "arrow1", "a", "b")
}

func TestLayoutArrowChain(t *testing.T) {
	doc := &ocif.Document{
		Nodes: []*ocif.Node{
			node("a"), node("b"), node("c"),
			arrowNode("arrow1"), arrowNode("arrow2"),
		},
		Relations: []*ocif.Relation{
			edgeRelation("r1", "arrow1", "a", "b"),
			edgeRelation("r2", "arrow2", "b", "c"),
		},
	}

	if err := newTestEngine(Config{}).Layout(doc); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	checkArrowConsistent(t, doc, "arrow1", "a", "b")
	checkArrowConsistent(t, doc, "arrow2", "b", "c")
}

func TestSyncArrowsSkipsIncomplete(t *testing.T) {
	tests := []struct {
		name     string
		relation *ocif.Relation
	}{
		{"NoBinding", relation("r", "a", "b")},
		{"UnknownArrow", edgeRelation("r", "ghost", "a", "b")},
		{"UnknownStart", edgeRelation("r", "arrow1", "ghost", "b")},
		{"UnknownEnd", edgeRelation("r", "arrow1", "a", "ghost")},
		{
			"MissingEndID",
			&ocif.Relation{ID: "r", Data: []map[string]any{{
				"type": ocif.TypeEdgeRelation, "node": "arrow1", "start": "a",
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arrow := arrowNode("arrow1")
			arrow.Position = []float64{123, 456}
			doc := &ocif.Document{
				Nodes:     []*ocif.Node{nodeAt("a", 0, 0), nodeAt("b", 100, 100), arrow},
				Relations: []*ocif.Relation{tt.relation},
			}
			newTestEngine(Config{}).syncArrows(doc)

			if arrow.Position[0] != 123 || arrow.Position[1] != 456 {
				t.Errorf("arrow moved by incomplete binding: %v", arrow.Position)
			}
		})
	}
}

func TestSyncArrowsRunsAfterNormalization(t *testing.T) {
	// Endpoint coordinates derived before normalization would be stale;
	// the final stored coordinates must match the final node positions.
	doc := &ocif.Document{
		Nodes: []*ocif.Node{
			nodeAt("a", -3000, -3000),
			nodeAt("b", 3000, 3000),
			arrowNode("arrow1"),
		},
		Relations: []*ocif.Relation{
			edgeRelation("r1", "arrow1", "a", "b"),
		},
	}

	cfg := Config{}
	if err := newTestEngine(cfg).Layout(doc); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	checkInBounds(t, doc, cfg)
	checkArrowConsistent(t, doc, "arrow1", "a", "b")
}
