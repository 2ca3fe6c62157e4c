package models

import (
	"fmt"
	"time"
)

// Recurrence is the repeat policy of a scheduled action.
type Recurrence string

const (
	RecurrenceOnce   Recurrence = "once"
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
	RecurrenceYearly Recurrence = "yearly"
)

// DestinationKind classifies what a scheduled action opens when it fires.
type DestinationKind string

const (
	DestinationFile    DestinationKind = "file"
	DestinationURL     DestinationKind = "url"
	DestinationContact DestinationKind = "contact"
)

// Destination is a tagged union: exactly one of Path, URL or Phone is set,
// selected by Kind. File destinations reference device-local content and
// are not restorable on another device.
type Destination struct {
	Kind  DestinationKind `json:"kind"`
	Path  string          `json:"path,omitempty"`
	URL   string          `json:"url,omitempty"`
	Phone string          `json:"phone,omitempty"`
}

// Validate checks that the field matching Kind is populated.
func (d Destination) Validate() error {
	switch d.Kind {
	case DestinationFile:
		if d.Path == "" {
			return fmt.Errorf("file destination requires a path")
		}
	case DestinationURL:
		if d.URL == "" {
			return fmt.Errorf("url destination requires a url")
		}
	case DestinationContact:
		if d.Phone == "" {
			return fmt.Errorf("contact destination requires a phone")
		}
	default:
		return fmt.Errorf("unknown destination kind: %q", d.Kind)
	}
	return nil
}

// ScheduledAction fires a platform trigger at TriggerAt and opens its
// destination. Anchor, when set, is the reference point recurring
// occurrences are computed from; otherwise TriggerAt itself anchors the
// series.
type ScheduledAction struct {
	Id          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Destination Destination `json:"destination"`
	TriggerAt   time.Time   `json:"trigger_at"`
	Recurrence  Recurrence  `json:"recurrence"`
	Anchor      *time.Time  `json:"anchor,omitempty"`
	Enabled     bool        `json:"enabled"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NextOccurrence returns the first occurrence of the series strictly after
// now. For RecurrenceOnce it returns TriggerAt unchanged.
func (a ScheduledAction) NextOccurrence(now time.Time) time.Time {
	if a.Recurrence == RecurrenceOnce {
		return a.TriggerAt
	}

	next := a.TriggerAt
	if a.Anchor != nil {
		next = *a.Anchor
	}

	for !next.After(now) {
		switch a.Recurrence {
		case RecurrenceDaily:
			next = next.AddDate(0, 0, 1)
		case RecurrenceWeekly:
			next = next.AddDate(0, 0, 7)
		case RecurrenceYearly:
			next = next.AddDate(1, 0, 0)
		default:
			return a.TriggerAt
		}
	}
	return next
}

// PastDue reports whether the trigger time has already elapsed.
func (a ScheduledAction) PastDue(now time.Time) bool {
	return !a.TriggerAt.After(now)
}
