package services

import (
	"fmt"
	"sync"
	"time"
)

// Trigger categorizes what initiated a sync attempt.
type Trigger string

const (
	TriggerManual           Trigger = "manual"
	TriggerDailyAuto        Trigger = "daily_auto"
	TriggerRecoveryUpload   Trigger = "recovery_upload"
	TriggerRecoveryDownload Trigger = "recovery_download"
)

// Decision is the outcome of admission control for one sync attempt.
type Decision struct {
	Allowed bool
	Reason  string
	RetryIn time.Duration
}

// Guard serializes sync attempts and throttles automatic ones. It owns the
// in-progress flag and the per-trigger last-attempt clock; the guarded entry
// points are its only callers. State lives on the struct, constructed once
// per process, never in package globals.
type Guard struct {
	mu              sync.Mutex
	inProgress      bool
	lastAttempt     map[Trigger]time.Time
	minAutoInterval time.Duration

	// now is an injectable clock for tests.
	now func() time.Time
}

// NewGuard creates a Guard. minAutoInterval is the minimum spacing enforced
// for daily_auto attempts; explicit user triggers bypass it.
func NewGuard(minAutoInterval time.Duration) *Guard {
	return &Guard{
		lastAttempt:     make(map[Trigger]time.Time),
		minAutoInterval: minAutoInterval,
		now:             time.Now,
	}
}

// Validate evaluates the admission rules for trigger without changing any
// state. Rules, in order: a sync already in progress denies every trigger;
// daily_auto is additionally denied while the most recent attempt by any
// trigger is younger than the minimum interval.
func (g *Guard) Validate(trigger Trigger) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.validateLocked(trigger)
}

func (g *Guard) validateLocked(trigger Trigger) Decision {
	if g.inProgress {
		return Decision{Reason: "sync_in_progress"}
	}

	if trigger == TriggerDailyAuto {
		last := g.latestAttemptLocked()
		if !last.IsZero() {
			elapsed := g.now().Sub(last)
			if elapsed < g.minAutoInterval {
				remaining := g.minAutoInterval - elapsed
				return Decision{
					Reason:  fmt.Sprintf("synced %s ago, next auto sync in %s", elapsed.Round(time.Second), remaining.Round(time.Second)),
					RetryIn: remaining,
				}
			}
		}
	}

	return Decision{Allowed: true}
}

// TryBegin atomically validates the attempt and, when allowed, marks the
// sync as started. Validation and the state change happen under one lock so
// two concurrent attempts can never both be admitted.
func (g *Guard) TryBegin(trigger Trigger) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	d := g.validateLocked(trigger)
	if !d.Allowed {
		return d
	}

	g.inProgress = true
	g.lastAttempt[trigger] = g.now()
	return d
}

// MarkCompleted clears the in-progress flag. Callers must invoke it on every
// exit path (deferred), otherwise all future attempts stay blocked.
func (g *Guard) MarkCompleted(trigger Trigger, success bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.inProgress = false
	g.lastAttempt[trigger] = g.now()
}

func (g *Guard) latestAttemptLocked() time.Time {
	var latest time.Time
	for _, at := range g.lastAttempt {
		if at.After(latest) {
			latest = at
		}
	}
	return latest
}
