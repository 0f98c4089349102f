package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aurapaste/aurapaste/internal/services"
	"github.com/aurapaste/aurapaste/models"
	"github.com/aurapaste/aurapaste/storage"
)

// brokenStore fails every operation, simulating an unreachable backend.
type brokenStore struct{}

func (brokenStore) Insert(context.Context, *models.Paste) error { return storage.ErrUnavailable }
func (brokenStore) Get(context.Context, string) (*models.Paste, error) {
	return nil, storage.ErrUnavailable
}
func (brokenStore) IncrementViewCount(context.Context, string) (*models.Paste, error) {
	return nil, storage.ErrUnavailable
}
func (brokenStore) ListByAuthor(context.Context, string) ([]*models.Paste, error) {
	return nil, storage.ErrUnavailable
}
func (brokenStore) ListByVisibility(context.Context, models.Visibility) ([]*models.Paste, error) {
	return nil, storage.ErrUnavailable
}
func (brokenStore) Close() error { return nil }

type listingResponse struct {
	Pastes   []*models.Paste `json:"pastes"`
	Degraded bool            `json:"degraded"`
}

func getListing(t *testing.T, router http.Handler, path string) (int, listingResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp listingResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal listing: %v", err)
		}
	}
	return w.Code, resp
}

func TestUserPastesListing(t *testing.T) {
	router, svc := newTestRouter(storage.NewMemoryStore())
	ctx := context.Background()

	identity := &models.Identity{ID: "alice", DisplayName: "Alice"}
	for _, content := range []string{"first", "second"} {
		if _, err := svc.CreatePaste(ctx, services.CreatePasteRequest{Content: content, Visibility: models.VisibilityPrivate}, identity); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}
	if _, err := svc.CreatePaste(ctx, services.CreatePasteRequest{Content: "someone else"}, &models.Identity{ID: "bob"}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	code, resp := getListing(t, router, "/api/users/alice/pastes")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if resp.Degraded {
		t.Fatalf("healthy store reported degraded")
	}
	if len(resp.Pastes) != 2 {
		t.Fatalf("expected 2 pastes for alice, got %d", len(resp.Pastes))
	}
	for _, p := range resp.Pastes {
		if p.AuthorID != "alice" {
			t.Errorf("foreign paste %s in alice's listing", p.ID)
		}
	}
}

func TestRecentPublicListing(t *testing.T) {
	router, svc := newTestRouter(storage.NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.CreatePaste(ctx, services.CreatePasteRequest{Content: "shown"}, nil); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if _, err := svc.CreatePaste(ctx, services.CreatePasteRequest{Content: "hidden", Visibility: models.VisibilityPrivate}, nil); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if _, err := svc.CreatePaste(ctx, services.CreatePasteRequest{Content: "link only", Visibility: models.VisibilityUnlisted}, nil); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	code, resp := getListing(t, router, "/api/pastes/recent")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(resp.Pastes) != 1 {
		t.Fatalf("expected only the public paste, got %d", len(resp.Pastes))
	}
	if resp.Pastes[0].Visibility != models.VisibilityPublic {
		t.Fatalf("non-public paste in discovery listing")
	}
}

func TestRecentPublicLimitQuery(t *testing.T) {
	router, svc := newTestRouter(storage.NewMemoryStore())
	ctx := context.Background()

	for _, content := range []string{"a", "b", "c"} {
		if _, err := svc.CreatePaste(ctx, services.CreatePasteRequest{Content: content}, nil); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}

	code, resp := getListing(t, router, "/api/pastes/recent?limit=2")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(resp.Pastes) != 2 {
		t.Fatalf("limit ignored: got %d pastes", len(resp.Pastes))
	}

	code, _ = getListing(t, router, "/api/pastes/recent?limit=nope")
	if code != http.StatusBadRequest {
		t.Fatalf("bad limit: expected 400, got %d", code)
	}
}

func TestListingsDegradeOnStoreFailure(t *testing.T) {
	router, _ := newTestRouter(brokenStore{})

	for _, path := range []string{"/api/users/alice/pastes", "/api/pastes/recent"} {
		code, resp := getListing(t, router, path)
		if code != http.StatusOK {
			t.Fatalf("%s: degraded listing should still answer 200, got %d", path, code)
		}
		if !resp.Degraded {
			t.Fatalf("%s: degraded flag not set on store failure", path)
		}
		if len(resp.Pastes) != 0 {
			t.Fatalf("%s: degraded listing returned pastes", path)
		}
	}
}

func TestViewSurfacesStoreFailure(t *testing.T) {
	router, _ := newTestRouter(brokenStore{})

	// Unlike listings, a direct view must distinguish "doesn't exist" from
	// "couldn't check".
	req := httptest.NewRequest(http.MethodGet, "/paste/abc12345", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on store failure, got %d", w.Code)
	}
}
