package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/aurapaste/aurapaste/models"
)

// MemoryStore is an in-process PasteStore. It backs tests and the ephemeral
// "memory" backend; nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	pastes map[string]models.Paste
}

// NewMemoryStore creates an empty in-memory storage backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pastes: make(map[string]models.Paste)}
}

// Insert persists a new paste, rejecting duplicate IDs.
func (m *MemoryStore) Insert(_ context.Context, paste *models.Paste) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.pastes[paste.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, paste.ID)
	}
	m.pastes[paste.ID] = *paste
	return nil
}

// Get retrieves a paste by its ID.
func (m *MemoryStore) Get(_ context.Context, id string) (*models.Paste, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pastes[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// IncrementViewCount adds 1 to the view counter under the store lock.
func (m *MemoryStore) IncrementViewCount(_ context.Context, id string) (*models.Paste, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pastes[id]
	if !ok {
		return nil, nil
	}
	p.ViewCount++
	m.pastes[id] = p
	return &p, nil
}

// ListByAuthor returns all pastes owned by authorID.
func (m *MemoryStore) ListByAuthor(_ context.Context, authorID string) ([]*models.Paste, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Paste
	for _, p := range m.pastes {
		if p.AuthorID == authorID && authorID != "" {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ListByVisibility returns all pastes with the given visibility.
func (m *MemoryStore) ListByVisibility(_ context.Context, visibility models.Visibility) ([]*models.Paste, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Paste
	for _, p := range m.pastes {
		if p.Visibility == visibility {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory backend.
func (m *MemoryStore) Close() error {
	return nil
}
