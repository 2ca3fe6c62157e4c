package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextOccurrence_WeeklyPastDue(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	a := ScheduledAction{
		TriggerAt:  anchor,
		Recurrence: RecurrenceWeekly,
		Anchor:     &anchor,
	}

	next := a.NextOccurrence(now)
	require.True(t, next.After(now))
	require.Equal(t, time.Date(2025, 6, 24, 9, 0, 0, 0, time.UTC), next)
	// weekday and time of day must be preserved
	require.Equal(t, anchor.Weekday(), next.Weekday())
}

func TestNextOccurrence_DailyWithoutAnchor(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	trigger := time.Date(2025, 6, 18, 8, 30, 0, 0, time.UTC)

	a := ScheduledAction{TriggerAt: trigger, Recurrence: RecurrenceDaily}

	next := a.NextOccurrence(now)
	require.Equal(t, time.Date(2025, 6, 21, 8, 30, 0, 0, time.UTC), next)
}

func TestNextOccurrence_FutureTriggerUnchangedSeriesStart(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	trigger := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	a := ScheduledAction{TriggerAt: trigger, Recurrence: RecurrenceWeekly}
	require.Equal(t, trigger, a.NextOccurrence(now))
}

func TestNextOccurrence_OnceReturnsTrigger(t *testing.T) {
	now := time.Now().UTC()
	trigger := now.Add(-time.Hour)

	a := ScheduledAction{TriggerAt: trigger, Recurrence: RecurrenceOnce}
	require.Equal(t, trigger, a.NextOccurrence(now))
	require.True(t, a.PastDue(now))
}

func TestDestination_Validate(t *testing.T) {
	require.NoError(t, Destination{Kind: DestinationURL, URL: "https://example.com"}.Validate())
	require.NoError(t, Destination{Kind: DestinationContact, Phone: "+371000000"}.Validate())
	require.Error(t, Destination{Kind: DestinationFile}.Validate())
	require.Error(t, Destination{Kind: "email"}.Validate())
}
