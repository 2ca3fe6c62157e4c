// Package client provides access to the remote store (the per-user cloud
// backend) and the wiring for the local database.
package client

import (
	"context"
	"encoding/json"

	"github.com/dpetrovs/marksync/internal/client/models"
)

// Row is one remote record of a syncable collection. EntityID is the
// device-assigned identity; the remote store may keep its own row id but it
// never crosses this interface. Payload is the type-specific projection.
type Row struct {
	EntityType models.EntityType `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Payload    json.RawMessage   `json:"payload"`
}

// Client is the remote store collaborator. All entity operations act on the
// current user's data; without an authenticated user every call fails with
// common.ErrNotAuthenticated.
type Client interface {
	Close() error

	// SetAccessToken installs (or, with "", removes) the bearer token.
	SetAccessToken(token string)

	// CurrentUser returns the authenticated user, or an error wrapping
	// common.ErrNotAuthenticated when there is none.
	CurrentUser(ctx context.Context) (*models.User, error)

	// Upsert inserts or refreshes a row keyed by
	// (user_id, entity_type, entity_id). It never fails on an existing row.
	Upsert(ctx context.Context, row Row) error

	// List returns every row of the given collection for the current user.
	List(ctx context.Context, entityType models.EntityType) ([]Row, error)

	// Delete removes the row for the current user; deleting an absent row
	// is not an error.
	Delete(ctx context.Context, entityType models.EntityType, entityID string) error

	// UpsertTombstone inserts into the remote tombstone collection with
	// ignore-duplicate semantics.
	UpsertTombstone(ctx context.Context, t models.Tombstone) error

	// ListTombstones returns the remote tombstone set for the current user.
	ListTombstones(ctx context.Context) ([]models.Tombstone, error)
}
