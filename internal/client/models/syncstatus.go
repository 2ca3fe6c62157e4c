package models

import "time"

// PendingReason codes why local changes are still waiting for a sync.
type PendingReason string

const (
	PendingReasonNetwork PendingReason = "network"
	PendingReasonAuth    PendingReason = "auth"
	PendingReasonPartial PendingReason = "partial"
	PendingReasonUnknown PendingReason = "unknown"
)

// SyncStatus is the process-wide last-known sync state consumed by UI
// indicators. It is mutated only by the reconciliation outcome, persisted
// across restarts, and cleared explicitly on sign-out.
type SyncStatus struct {
	LastSyncAt     *time.Time    `json:"last_sync_at,omitempty"`
	LastUploaded   int           `json:"last_uploaded"`
	LastDownloaded int           `json:"last_downloaded"`
	Pending        bool          `json:"pending"`
	PendingReason  PendingReason `json:"pending_reason,omitempty"`
	LastFailureAt  *time.Time    `json:"last_failure_at,omitempty"`
}

// User is the opaque current-user identity supplied by the auth collaborator.
type User struct {
	Id string
}
