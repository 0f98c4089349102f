// Package services implements the paste service: identifier assignment,
// persistence, view counting, and the two listing queries.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aurapaste/aurapaste/config"
	"github.com/aurapaste/aurapaste/internal/metrics"
	"github.com/aurapaste/aurapaste/internal/slug"
	"github.com/aurapaste/aurapaste/models"
	"github.com/aurapaste/aurapaste/storage"
)

// Validation errors. These never reach the store.
var (
	// ErrEmptyContent means the caller supplied no payload.
	ErrEmptyContent = errors.New("paste content is empty")
	// ErrInvalidVisibility means the caller supplied an unknown visibility value.
	ErrInvalidVisibility = errors.New("invalid visibility value")
)

// DefaultRecentLimit caps the recent-public listing when the caller does not.
const DefaultRecentLimit = 20

// maxInsertAttempts bounds identifier-collision retries. Exhausting it means
// the random space is effectively saturated and is reported as a failure.
const maxInsertAttempts = 5

// PasteService orchestrates the identifier generator and the paste store.
type PasteService struct {
	store  storage.PasteStore
	config *config.Config
	gen    *slug.Generator
	logger *zap.Logger
}

// NewPasteService creates a new paste service.
func NewPasteService(store storage.PasteStore, cfg *config.Config, logger *zap.Logger) *PasteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasteService{
		store:  store,
		config: cfg,
		gen:    slug.New(cfg.SlugLength),
		logger: logger,
	}
}

// CreatePasteRequest carries the caller-supplied fields for a new paste.
type CreatePasteRequest struct {
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Language   models.Language   `json:"language"`
	Visibility models.Visibility `json:"visibility"`
}

// CreatePaste validates the request, resolves the author from the optional
// identity, allocates an identifier, and persists exactly one record. The
// returned paste is fully populated, URL included.
func (s *PasteService) CreatePaste(ctx context.Context, req CreatePasteRequest, identity *models.Identity) (*models.Paste, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !visibility.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVisibility, req.Visibility)
	}

	authorID, authorName := models.ResolveAuthor(identity)

	paste := &models.Paste{
		Title:      req.Title,
		Content:    req.Content,
		Language:   req.Language.Normalize(),
		AuthorID:   authorID,
		AuthorName: authorName,
		Visibility: visibility,
		CreatedAt:  time.Now().UTC(),
		ViewCount:  0,
	}

	// The id is final before the single insert; the store's uniqueness
	// guarantee turns a collision into ErrDuplicateID and we try a fresh
	// token. No record is ever written twice under different ids.
	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		id, err := s.gen.GenerateLength(s.config.SlugLength + attempt/2)
		if err != nil {
			return nil, fmt.Errorf("failed to generate paste id: %w", err)
		}
		paste.ID = id
		paste.URL = s.PasteURL(id)

		err = s.store.Insert(ctx, paste)
		if err == nil {
			metrics.PastesCreated.Inc()
			s.logger.Info("paste created",
				zap.String("id", paste.ID),
				zap.String("visibility", string(paste.Visibility)),
				zap.Bool("anonymous", paste.IsAnonymous()))
			return paste, nil
		}
		if errors.Is(err, storage.ErrDuplicateID) {
			s.logger.Warn("paste id collision, retrying", zap.String("id", id))
			continue
		}
		return nil, fmt.Errorf("failed to store paste: %w", err)
	}
	return nil, fmt.Errorf("failed to allocate a unique paste id after %d attempts", maxInsertAttempts)
}

// GetPaste retrieves a paste for display, counting the view. The increment is
// store-native and atomic, so the stored counter equals the number of
// successful calls even under concurrent views. Absence is (nil, nil).
func (s *PasteService) GetPaste(ctx context.Context, id string) (*models.Paste, error) {
	paste, err := s.store.IncrementViewCount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve paste: %w", err)
	}
	if paste == nil {
		return nil, nil
	}
	metrics.PasteViews.Inc()
	return paste, nil
}

// GetPasteMeta retrieves a paste without counting a view.
func (s *PasteService) GetPasteMeta(ctx context.Context, id string) (*models.Paste, error) {
	paste, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve paste: %w", err)
	}
	return paste, nil
}

// GetUserPastes returns all pastes owned by authorID, newest first. Store
// failures propagate; the HTTP layer decides whether to degrade.
func (s *PasteService) GetUserPastes(ctx context.Context, authorID string) ([]*models.Paste, error) {
	if authorID == "" {
		return nil, nil
	}
	pastes, err := s.store.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pastes for author %s: %w", authorID, err)
	}
	sortNewestFirst(pastes)
	return pastes, nil
}

// GetRecentPublicPastes returns the most recent public pastes, newest first,
// truncated to limit (DefaultRecentLimit when limit is not positive).
// Unlisted and private pastes never appear here.
func (s *PasteService) GetRecentPublicPastes(ctx context.Context, limit int) ([]*models.Paste, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	pastes, err := s.store.ListByVisibility(ctx, models.VisibilityPublic)
	if err != nil {
		return nil, fmt.Errorf("failed to list public pastes: %w", err)
	}
	sortNewestFirst(pastes)
	if len(pastes) > limit {
		pastes = pastes[:limit]
	}
	return pastes, nil
}

// PasteURL derives the canonical locator for a paste id.
func (s *PasteService) PasteURL(id string) string {
	return fmt.Sprintf("%s/paste/%s", strings.TrimRight(s.config.BaseURL, "/"), id)
}

// sortNewestFirst orders pastes by creation time descending. The sort is
// stable so ties keep the store's order.
func sortNewestFirst(pastes []*models.Paste) {
	sort.SliceStable(pastes, func(i, j int) bool {
		return pastes[i].CreatedAt.After(pastes[j].CreatedAt)
	})
}
