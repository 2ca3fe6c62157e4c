package services

import (
	"context"
	"errors"
	"time"

	"github.com/dpetrovs/marksync/internal/client/client"
	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/client/scheduler"
	"github.com/dpetrovs/marksync/internal/common"
	"github.com/dpetrovs/marksync/internal/logging"
)

// Result is what a guarded sync attempt reports back to its caller.
// Uploaded and Downloaded count entities that were new to the remote and to
// the local store respectively; a repeat cycle with nothing changed reports
// zero for both. Blocked means the guard denied admission; that is a policy
// decision, not a failure, and the engine was never touched.
type Result struct {
	Success     bool
	Uploaded    int
	Downloaded  int
	Blocked     bool
	BlockReason string
	Err         error
}

// SyncService is the only public surface of the sync engine. Every
// operation passes admission control, records the durable status and always
// releases the guard, whatever path it exits on.
type SyncService interface {
	// Sync runs a full bidirectional cycle.
	Sync(ctx context.Context, trigger Trigger) Result

	// Upload runs the recovery-only upload direction.
	Upload(ctx context.Context) Result

	// Download runs the recovery-only download direction.
	Download(ctx context.Context) Result

	// Status returns the last-known durable sync state.
	Status(ctx context.Context) (models.SyncStatus, error)

	// ClearStatus drops the durable state (sign-out).
	ClearStatus(ctx context.Context) error
}

type syncService struct {
	guard  *Guard
	status *StatusRecorder
	engine *engine
	logger logging.Logger
}

// NewSyncService wires the reconciliation engine behind its guard and
// status recorder. minAutoInterval throttles daily_auto triggers.
func NewSyncService(remote client.Client, repos *client.Repositories, sched scheduler.Port, logger logging.Logger, minAutoInterval time.Duration) SyncService {
	return &syncService{
		guard:  NewGuard(minAutoInterval),
		status: NewStatusRecorder(repos.Metadata),
		engine: &engine{
			remote: remote,
			repos:  repos,
			sched:  sched,
			logger: logger,
			now:    time.Now,
		},
		logger: logger,
	}
}

func (s *syncService) Sync(ctx context.Context, trigger Trigger) Result {
	return s.run(ctx, trigger, s.engine.bidirectionalSync)
}

func (s *syncService) Upload(ctx context.Context) Result {
	return s.run(ctx, TriggerRecoveryUpload, s.engine.uploadAll)
}

func (s *syncService) Download(ctx context.Context) Result {
	return s.run(ctx, TriggerRecoveryDownload, s.engine.downloadAll)
}

func (s *syncService) Status(ctx context.Context) (models.SyncStatus, error) {
	return s.status.Get(ctx)
}

func (s *syncService) ClearStatus(ctx context.Context) error {
	return s.status.Clear(ctx)
}

// run is the guarded wrapper around one engine composite. The guard is
// released in a defer: an error or panic mid-cycle must never leave the
// in-progress flag set, or every future attempt stays blocked.
func (s *syncService) run(ctx context.Context, trigger Trigger, op func(context.Context) (totals, error)) Result {
	if d := s.guard.TryBegin(trigger); !d.Allowed {
		s.logger.Info(ctx, "sync attempt blocked", "trigger", trigger, "reason", d.Reason)
		return Result{Blocked: true, BlockReason: d.Reason}
	}

	success := false
	defer func() { s.guard.MarkCompleted(trigger, success) }()

	s.logger.Info(ctx, "sync started", "trigger", trigger)

	t, err := op(ctx)
	if err != nil {
		s.logger.Error(ctx, "sync failed", "trigger", trigger, "error", err)
		if recErr := s.status.RecordFailure(ctx, failureReason(err)); recErr != nil {
			s.logger.Error(ctx, "failed to record sync status", "error", recErr)
		}
		return Result{Uploaded: t.uploaded, Downloaded: t.downloaded, Err: err}
	}

	success = true
	if recErr := s.status.RecordSuccess(ctx, t.uploaded, t.downloaded, t.partial); recErr != nil {
		s.logger.Error(ctx, "failed to record sync status", "error", recErr)
	}

	s.logger.Info(ctx, "sync completed",
		"trigger", trigger, "uploaded", t.uploaded, "downloaded", t.downloaded, "partial", t.partial)
	return Result{Success: true, Uploaded: t.uploaded, Downloaded: t.downloaded}
}

func failureReason(err error) models.PendingReason {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return models.PendingReasonAuth
	case errors.Is(err, common.ErrRemoteUnavailable):
		return models.PendingReasonNetwork
	default:
		return models.PendingReasonUnknown
	}
}
