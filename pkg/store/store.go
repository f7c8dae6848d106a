// Package store persists positioned canvas documents for the HTTP API.
//
// Two backends are provided:
//   - memory: in-process storage for development and testing
//   - mongo: MongoDB-backed storage for multi-instance deployments
//
// Documents are stored as their marshaled JSON so the open-ended
// extension members survive persistence byte-for-byte.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devhelpr/ocif-generator/pkg/errors"
	"github.com/devhelpr/ocif-generator/pkg/ocif"
)

// Store saves positioned documents and retrieves them by id.
type Store interface {
	// Save persists doc and returns its generated id.
	Save(ctx context.Context, doc *ocif.Document) (string, error)

	// Get retrieves a document by id. A missing id yields an error with
	// code DOCUMENT_NOT_FOUND.
	Get(ctx context.Context, id string) (*ocif.Document, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore is an in-process Store for development and testing.
// It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Save persists doc under a fresh uuid.
func (s *MemoryStore) Save(ctx context.Context, doc *ocif.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode document")
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.docs[id] = data
	s.mu.Unlock()
	return id, nil
}

// Get retrieves a document by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*ocif.Document, error) {
	s.mu.RLock()
	data, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	var doc ocif.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode document %s", id)
	}
	return &doc, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// record is the persisted shape shared by backends.
type record struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	Document  []byte    `bson:"document"`
}
