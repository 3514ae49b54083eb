package db

import (
	"context"
	"sync"
)

// MemStore is an in-process DocumentStore. It backs tests and the
// STORE=memory development mode.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string]Document)}
}

func (m *MemStore) Get(_ context.Context, collection string) (Document, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[collection]
	if !ok {
		return nil, false, nil
	}
	cp, err := ToDocument(doc)
	if err != nil {
		return nil, false, err
	}
	return cp, true, nil
}

func (m *MemStore) Set(_ context.Context, collection string, doc Document) error {
	cp, err := ToDocument(doc)
	if err != nil {
		return err
	}
	if cp == nil {
		cp = Document{}
	}

	m.mu.Lock()
	m.docs[collection] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemStore) Merge(_ context.Context, collection string, fields Document) error {
	cp, err := ToDocument(fields)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[collection]
	if !ok {
		doc = Document{}
		m.docs[collection] = doc
	}
	for k, v := range cp {
		doc[k] = v
	}
	return nil
}
