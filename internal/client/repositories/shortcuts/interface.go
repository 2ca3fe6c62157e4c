package shortcuts

import (
	"context"

	"github.com/dpetrovs/marksync/internal/client/models"
)

// Repository is the local shortcuts collection. Thumbnail bytes live only
// here; they never reach the remote store.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Shortcut, error)
	ReplaceAll(ctx context.Context, items []models.Shortcut) error
}
