package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aurapaste/aurapaste/models"
)

func newFilesystemStore(t *testing.T) *FilesystemStore {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir)
	if err != nil {
		t.Fatalf("failed to create filesystem store: %v", err)
	}
	return store
}

func TestFilesystemRoundTrip(t *testing.T) {
	store := newFilesystemStore(t)
	ctx := context.Background()

	paste := newTestPaste("fsround1", "u1", models.VisibilityUnlisted)
	if err := store.Insert(ctx, paste); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := store.Get(ctx, "fsround1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected paste, got nil")
	}
	if got.Title != paste.Title || got.Visibility != paste.Visibility || got.URL != paste.URL {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(paste.CreatedAt) {
		t.Fatalf("created_at changed across round trip: %v != %v", got.CreatedAt, paste.CreatedAt)
	}
}

func TestFilesystemInsertDuplicate(t *testing.T) {
	store := newFilesystemStore(t)
	ctx := context.Background()

	if err := store.Insert(ctx, newTestPaste("fsdup", "u1", models.VisibilityPublic)); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := store.Insert(ctx, newTestPaste("fsdup", "u1", models.VisibilityPublic))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestFilesystemGetAbsent(t *testing.T) {
	store := newFilesystemStore(t)
	got, err := store.Get(context.Background(), "nothere")
	if err != nil || got != nil {
		t.Fatalf("absent get = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestFilesystemIncrementPersists(t *testing.T) {
	store := newFilesystemStore(t)
	ctx := context.Background()

	if err := store.Insert(ctx, newTestPaste("fsviews", "u1", models.VisibilityPublic)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	updated, err := store.IncrementViewCount(ctx, "fsviews")
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if updated.ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", updated.ViewCount)
	}

	// Re-open the directory with a fresh store; the count must be durable.
	reopened, err := NewFilesystemStore(store.dataDir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	got, err := reopened.Get(ctx, "fsviews")
	if err != nil {
		t.Fatalf("get after reopen failed: %v", err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("view count not durable: got %d", got.ViewCount)
	}
}

func TestFilesystemConcurrentIncrements(t *testing.T) {
	store := newFilesystemStore(t)
	ctx := context.Background()

	if err := store.Insert(ctx, newTestPaste("fshot", "u1", models.VisibilityPublic)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := store.IncrementViewCount(ctx, "fshot"); err != nil {
				t.Errorf("concurrent increment failed: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "fshot")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ViewCount != n {
		t.Fatalf("lost updates: view count %d after %d concurrent views", got.ViewCount, n)
	}
}

func TestFilesystemScansSkipForeignFiles(t *testing.T) {
	store := newFilesystemStore(t)
	ctx := context.Background()

	if err := store.Insert(ctx, newTestPaste("fslist", "carol", models.VisibilityPublic)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	// Unrelated files in the data dir must not break queries.
	if err := os.WriteFile(filepath.Join(store.dataDir, "README"), []byte("not a paste"), 0o644); err != nil {
		t.Fatalf("write foreign file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.dataDir, "junk.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write junk file: %v", err)
	}

	pastes, err := store.ListByAuthor(ctx, "carol")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pastes) != 1 || pastes[0].ID != "fslist" {
		t.Fatalf("unexpected listing result: %+v", pastes)
	}
}
