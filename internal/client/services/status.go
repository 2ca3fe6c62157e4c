package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/client/repositories/metadata"
)

// statusKey is the metadata key the durable sync status is stored under.
const statusKey = "sync_status"

// StatusRecorder persists the last-known sync state so UI indicators survive
// app restarts. Only reconciliation outcomes mutate it; sign-out clears it.
type StatusRecorder struct {
	meta metadata.Repository

	now func() time.Time
}

func NewStatusRecorder(meta metadata.Repository) *StatusRecorder {
	return &StatusRecorder{meta: meta, now: time.Now}
}

// Get returns the stored status, or a zero status when none was recorded.
func (r *StatusRecorder) Get(ctx context.Context) (models.SyncStatus, error) {
	var status models.SyncStatus

	raw, err := r.meta.Get(ctx, statusKey)
	if err != nil {
		return status, fmt.Errorf("failed to load sync status: %w", err)
	}
	if raw == nil {
		return status, nil
	}
	if err := json.Unmarshal(raw, &status); err != nil {
		return status, fmt.Errorf("failed to decode sync status: %w", err)
	}
	return status, nil
}

// RecordSuccess stores a successful outcome. partial marks cycles that
// finished with soft phase failures and keeps the pending flag raised.
func (r *StatusRecorder) RecordSuccess(ctx context.Context, uploaded, downloaded int, partial bool) error {
	status, err := r.Get(ctx)
	if err != nil {
		return err
	}

	at := r.now().UTC()
	status.LastSyncAt = &at
	status.LastUploaded = uploaded
	status.LastDownloaded = downloaded
	status.Pending = partial
	status.PendingReason = ""
	if partial {
		status.PendingReason = models.PendingReasonPartial
	}

	return r.save(ctx, status)
}

// RecordFailure stores a failed outcome with its reason code.
func (r *StatusRecorder) RecordFailure(ctx context.Context, reason models.PendingReason) error {
	status, err := r.Get(ctx)
	if err != nil {
		return err
	}

	at := r.now().UTC()
	status.LastFailureAt = &at
	status.Pending = true
	status.PendingReason = reason

	return r.save(ctx, status)
}

// Clear removes the stored status entirely (sign-out).
func (r *StatusRecorder) Clear(ctx context.Context) error {
	if err := r.meta.Delete(ctx, statusKey); err != nil {
		return fmt.Errorf("failed to clear sync status: %w", err)
	}
	return nil
}

func (r *StatusRecorder) save(ctx context.Context, status models.SyncStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode sync status: %w", err)
	}
	if err := r.meta.Set(ctx, statusKey, raw); err != nil {
		return fmt.Errorf("failed to store sync status: %w", err)
	}
	return nil
}
