package storage

import (
	"context"
	"errors"

	"github.com/aurapaste/aurapaste/models"
)

// Sentinel errors returned by PasteStore implementations. Backends map their
// native failures onto these so callers can branch without knowing the backend.
var (
	// ErrUnavailable means the backing store could not be reached.
	ErrUnavailable = errors.New("paste store unavailable")
	// ErrWriteRejected means a backend-side policy (schema, permissions)
	// refused the write. Not retried.
	ErrWriteRejected = errors.New("paste store rejected write")
	// ErrDuplicateID means an insert collided with an existing paste ID.
	ErrDuplicateID = errors.New("paste id already exists")
)

// PasteStore defines the contract for paste storage backends.
//
// Absence is never an error: Get and IncrementViewCount return (nil, nil)
// when no paste exists for the given ID.
type PasteStore interface {
	// Insert persists a new paste. It is create-only: inserting under an
	// ID that already exists fails with ErrDuplicateID.
	Insert(ctx context.Context, paste *models.Paste) error

	// Get retrieves a paste by its ID without side effects.
	Get(ctx context.Context, id string) (*models.Paste, error)

	// IncrementViewCount atomically adds 1 to the paste's view counter and
	// returns the updated record. Implementations must use a store-native
	// atomic add or serialize the update; a read-modify-write without
	// either loses counts under concurrent views.
	IncrementViewCount(ctx context.Context, id string) (*models.Paste, error)

	// ListByAuthor returns all pastes owned by authorID, in no particular order.
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Paste, error)

	// ListByVisibility returns all pastes with the given visibility, in no
	// particular order.
	ListByVisibility(ctx context.Context, visibility models.Visibility) ([]*models.Paste, error)

	// Close releases the backend connection.
	Close() error
}
