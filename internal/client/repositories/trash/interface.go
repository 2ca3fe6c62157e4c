package trash

import (
	"context"

	"github.com/dpetrovs/marksync/internal/client/models"
)

// Repository is the local trash collection (soft-deleted bookmarks).
type Repository interface {
	GetAll(ctx context.Context) ([]models.TrashItem, error)
	ReplaceAll(ctx context.Context, items []models.TrashItem) error
}
