package tombstones

import (
	"context"

	"github.com/dpetrovs/marksync/internal/client/models"
)

// Repository is the deletion tracker: locally recorded tombstones pending
// propagation to the remote store.
type Repository interface {
	// Record appends a pending deletion. Recording the same
	// (entity_type, entity_id) pair twice is a no-op.
	Record(ctx context.Context, entityType models.EntityType, entityID string) error

	// GetAll returns the current pending list.
	GetAll(ctx context.Context) ([]models.Tombstone, error)

	// ClearAll drops every pending deletion.
	ClearAll(ctx context.Context) error

	// ClearProcessed drops only the given entries, leaving the rest
	// pending for the next cycle.
	ClearProcessed(ctx context.Context, processed []models.Tombstone) error
}
