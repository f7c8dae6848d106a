package store

import (
	"context"
	"testing"

	"github.com/devhelpr/ocif-generator/pkg/errors"
	"github.com/devhelpr/ocif-generator/pkg/ocif"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	doc := &ocif.Document{
		OCIF: "https://canvasprotocol.org/ocif/0.3",
		Nodes: []*ocif.Node{
			{ID: "a", Position: []float64{40, 40}},
		},
	}

	id, err := s.Save(ctx, doc)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].ID != "a" {
		t.Errorf("got = %+v", got)
	}
	if got.Nodes[0].Position[0] != 40 {
		t.Errorf("position = %v", got.Nodes[0].Position)
	}

	// Saved documents are snapshots: later mutation of the original must
	// not leak into the store.
	doc.Nodes[0].Position = []float64{999, 999}
	again, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Nodes[0].Position[0] != 40 {
		t.Errorf("stored document changed after save: %v", again.Nodes[0].Position)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if errors.GetCode(err) != errors.ErrCodeDocumentNotFound {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeDocumentNotFound)
	}
}

func TestMemoryStoreUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := &ocif.Document{Nodes: []*ocif.Node{{ID: "a"}}}
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id, err := s.Save(ctx, doc)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
