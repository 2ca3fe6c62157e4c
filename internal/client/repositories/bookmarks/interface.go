package bookmarks

import (
	"context"

	"github.com/dpetrovs/marksync/internal/client/models"
)

// Repository is the local bookmarks collection. The store works in whole
// batches: reconciliation reads the full collection and writes it back in a
// single replace, which keeps it aligned with the mobile app's persistent
// key-value storage semantics.
type Repository interface {
	// GetAll returns the full collection.
	GetAll(ctx context.Context) ([]models.Bookmark, error)

	// ReplaceAll atomically replaces the collection with items.
	ReplaceAll(ctx context.Context, items []models.Bookmark) error
}
