package schedules

import (
	"context"

	"github.com/dpetrovs/marksync/internal/client/models"
)

// Repository is the local scheduled actions collection.
type Repository interface {
	GetAll(ctx context.Context) ([]models.ScheduledAction, error)
	ReplaceAll(ctx context.Context, items []models.ScheduledAction) error
}
