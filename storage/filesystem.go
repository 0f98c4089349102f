package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aurapaste/aurapaste/models"
)

// FilesystemStore implements PasteStore with one JSON document per paste
// under a data directory. The mutex serializes counter updates so concurrent
// views never lose an increment.
type FilesystemStore struct {
	dataDir string
	mu      sync.Mutex
}

// NewFilesystemStore creates a filesystem storage backend rooted at dataDir.
func NewFilesystemStore(dataDir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &FilesystemStore{dataDir: dataDir}, nil
}

func (f *FilesystemStore) path(id string) string {
	return filepath.Join(f.dataDir, id+".json")
}

// Insert persists a new paste. O_EXCL makes the filesystem the authority on
// identifier uniqueness.
func (f *FilesystemStore) Insert(_ context.Context, paste *models.Paste) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(paste, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}
	file, err := os.OpenFile(f.path(paste.ID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, paste.ID)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = file.Close() }()
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get retrieves a paste by its ID.
func (f *FilesystemStore) Get(_ context.Context, id string) (*models.Paste, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(id)
}

// IncrementViewCount updates the counter under the store lock: read, add 1,
// write back. The lock is what makes the sequence safe.
func (f *FilesystemStore) IncrementViewCount(_ context.Context, id string) (*models.Paste, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	paste, err := f.read(id)
	if err != nil || paste == nil {
		return nil, err
	}
	paste.ViewCount++
	data, err := json.MarshalIndent(paste, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteRejected, err)
	}
	if err := os.WriteFile(f.path(id), data, 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return paste, nil
}

// ListByAuthor scans the data directory for pastes owned by authorID.
func (f *FilesystemStore) ListByAuthor(ctx context.Context, authorID string) ([]*models.Paste, error) {
	if authorID == "" {
		return nil, nil
	}
	return f.scan(ctx, func(p *models.Paste) bool { return p.AuthorID == authorID })
}

// ListByVisibility scans the data directory for pastes with the given visibility.
func (f *FilesystemStore) ListByVisibility(ctx context.Context, visibility models.Visibility) ([]*models.Paste, error) {
	return f.scan(ctx, func(p *models.Paste) bool { return p.Visibility == visibility })
}

// Close is a no-op for the filesystem backend.
func (f *FilesystemStore) Close() error {
	return nil
}

// read loads a single paste document. Callers hold the lock.
func (f *FilesystemStore) read(id string) (*models.Paste, error) {
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var paste models.Paste
	if err := json.Unmarshal(data, &paste); err != nil {
		return nil, fmt.Errorf("corrupt paste document %s: %w", id, err)
	}
	return &paste, nil
}

// scan walks every paste document and keeps the ones matching the filter.
func (f *FilesystemStore) scan(ctx context.Context, match func(*models.Paste) bool) ([]*models.Paste, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var pastes []*models.Paste
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paste, err := f.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil || paste == nil {
			continue
		}
		if match(paste) {
			pastes = append(pastes, paste)
		}
	}
	return pastes, nil
}
