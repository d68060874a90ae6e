// Package registry provides the in-memory document table shared by all
// request handlers. Every mutating HTTP operation keeps the registry and
// the upload directory in lockstep: upload adds to both, delete and clear
// remove from both.
package registry

import (
	"sort"
	"sync"
)

// Store is a process-wide id -> document table guarded by a RWMutex so it
// is safe to share across concurrent request handlers.
type Store struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{
		docs: make(map[string]Document),
	}
}

// Put registers a document under its ID, replacing any previous entry.
func (s *Store) Put(doc Document) error {
	if doc.ID == "" {
		return ErrEmptyID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[doc.ID] = doc
	return nil
}

// Get returns the document registered under id.
// Returns ErrDocumentNotFound if the id is unknown.
func (s *Store) Get(id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return Document{}, ErrDocumentNotFound
	}
	return doc, nil
}

// List returns all registered documents ordered by upload time
// (oldest first, ID as tiebreaker for a stable order).
func (s *Store) List() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].UploadedAt.Before(docs[j].UploadedAt)
	})
	return docs
}

// Len returns the number of registered documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.docs)
}

// Delete removes the document registered under id and returns it, so the
// caller can remove the backing file. Returns ErrDocumentNotFound if the
// id is unknown.
func (s *Store) Delete(id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return Document{}, ErrDocumentNotFound
	}
	delete(s.docs, id)
	return doc, nil
}

// Clear empties the store and returns every document that was registered,
// so the caller can attempt best-effort removal of the backing files.
func (s *Store) Clear() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := make([]Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	s.docs = make(map[string]Document)
	return docs
}
