// Package scheduler defines the optional platform trigger capability used
// to (re)install alarms for downloaded scheduled actions. Platforms without
// native scheduling inject Noop.
package scheduler

import (
	"context"
	"time"

	"github.com/dpetrovs/marksync/internal/client/models"
)

// Port installs and removes platform-level triggers. Implementations are
// best-effort collaborators: sync treats their failures as log-only.
type Port interface {
	// Schedule installs (or replaces) the trigger for a scheduled action.
	Schedule(ctx context.Context, id string, name string, at time.Time, recurrence models.Recurrence) error

	// Cancel removes a previously installed trigger. Cancelling an
	// unknown id is not an error.
	Cancel(ctx context.Context, id string) error
}

// Noop is the Port implementation for platforms without native scheduling.
type Noop struct{}

func (Noop) Schedule(ctx context.Context, id string, name string, at time.Time, recurrence models.Recurrence) error {
	return nil
}

func (Noop) Cancel(ctx context.Context, id string) error {
	return nil
}
