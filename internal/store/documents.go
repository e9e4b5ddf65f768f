package store

import (
	"sync"
	"time"

	"docsync/internal/models"
)

// DocumentStore owns all document state for the lifetime of the process.
// Documents are created lazily on first join and never deleted.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*models.Document
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*models.Document)}
}

// GetOrCreate is the sole creation path. A new document starts empty with
// the default title and CreatedAt == LastModified == now.
func (s *DocumentStore) GetOrCreate(id string) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.docs[id]; ok {
		return *d
	}
	now := time.Now()
	d := &models.Document{
		ID:           id,
		Content:      "",
		Title:        models.DefaultTitle,
		CreatedAt:    now,
		LastModified: now,
	}
	s.docs[id] = d
	return *d
}

func (s *DocumentStore) Get(id string) (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return models.Document{}, false
	}
	return *d, true
}

// SetContent overwrites the content unconditionally (last write by server
// arrival order wins; the supplied time is never compared against the stored
// LastModified). Returns false without touching anything when the document
// does not exist.
func (s *DocumentStore) SetContent(id, content string, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return false
	}
	d.Content = content
	if at.After(d.LastModified) {
		d.LastModified = at
	}
	return true
}

// SetTitle mirrors SetContent for the title field.
func (s *DocumentStore) SetTitle(id, title string, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return false
	}
	d.Title = title
	if at.After(d.LastModified) {
		d.LastModified = at
	}
	return true
}

func (s *DocumentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
