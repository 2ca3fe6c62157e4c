package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dpetrovs/marksync/internal/client/client"
	"github.com/dpetrovs/marksync/internal/client/models"
	"github.com/dpetrovs/marksync/internal/client/scheduler"
	"github.com/dpetrovs/marksync/internal/logging"
)

// engine holds the per-entity reconciliation routines. It is unexported on
// purpose: every real sync must pass through the guarded entry points in
// SyncService, which own admission control and status recording.
//
// Conflict policy: local entity ids are canonical. Uploads always upsert on
// (user_id, entity_type, entity_id) and refresh remote fields from local;
// downloads only add entities absent both locally and from the tombstone
// set. Nothing ever overwrites or merges an existing local entity.
type engine struct {
	remote client.Client
	repos  *client.Repositories
	sched  scheduler.Port
	logger logging.Logger

	now func() time.Time
}

// totals aggregates one cycle. uploaded and downloaded count entities that
// changed sides: rows new to the remote and rows new to the local store.
// Refreshing an already-present remote row is not progress, so a cycle with
// no intervening mutations converges to zero counts. partial is raised
// whenever a non-pivot phase or a single item failed while the cycle as a
// whole kept going.
type totals struct {
	uploaded   int
	downloaded int
	partial    bool
}

// remoteIDs snapshots the entity ids the remote currently holds for the
// type. Upload phases take it before upserting so the uploaded count
// reflects only rows the remote did not have yet.
func (e *engine) remoteIDs(ctx context.Context, entityType models.EntityType) (map[string]struct{}, error) {
	rows, err := e.remote.List(ctx, entityType)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		ids[row.EntityID] = struct{}{}
	}
	return ids, nil
}

// uploadRows upserts the prepared rows one by one. Every row is sent (the
// upsert refreshes remote fields from local), but only rows absent from the
// pre-upload remote snapshot count as uploaded. Item failures are logged
// and skipped; the phase keeps going.
func (e *engine) uploadRows(ctx context.Context, entityType models.EntityType, rows []client.Row, existing map[string]struct{}) (int, bool) {
	uploaded := 0
	partial := false
	for _, row := range rows {
		if err := e.remote.Upsert(ctx, row); err != nil {
			e.logger.Warn(ctx, "entity upload failed",
				"entity_type", entityType, "entity_id", row.EntityID, "error", err)
			partial = true
			continue
		}
		if _, ok := existing[row.EntityID]; !ok {
			uploaded++
		}
	}
	return uploaded, partial
}

func (e *engine) uploadBookmarks(ctx context.Context) (int, bool, error) {
	items, err := e.repos.Bookmarks.GetAll(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read local bookmarks: %w", err)
	}
	existing, err := e.remoteIDs(ctx, models.EntityTypeBookmark)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list remote bookmarks: %w", err)
	}

	rows := make([]client.Row, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			e.logger.Warn(ctx, "bookmark projection failed", "entity_id", item.Id, "error", err)
			continue
		}
		rows = append(rows, client.Row{EntityType: models.EntityTypeBookmark, EntityID: item.Id, Payload: payload})
	}

	n, partial := e.uploadRows(ctx, models.EntityTypeBookmark, rows, existing)
	return n, partial, nil
}

func (e *engine) uploadTrash(ctx context.Context) (int, bool, error) {
	items, err := e.repos.Trash.GetAll(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read local trash: %w", err)
	}
	existing, err := e.remoteIDs(ctx, models.EntityTypeTrash)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list remote trash: %w", err)
	}

	rows := make([]client.Row, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			e.logger.Warn(ctx, "trash projection failed", "entity_id", item.Id, "error", err)
			continue
		}
		rows = append(rows, client.Row{EntityType: models.EntityTypeTrash, EntityID: item.Id, Payload: payload})
	}

	n, partial := e.uploadRows(ctx, models.EntityTypeTrash, rows, existing)
	return n, partial, nil
}

// uploadShortcuts uploads the cloud projection: thumbnail bytes stay on the
// device, the remote row carries the kind-derived icon instead.
func (e *engine) uploadShortcuts(ctx context.Context) (int, bool, error) {
	items, err := e.repos.Shortcuts.GetAll(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read local shortcuts: %w", err)
	}
	existing, err := e.remoteIDs(ctx, models.EntityTypeShortcut)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list remote shortcuts: %w", err)
	}

	rows := make([]client.Row, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item.CloudFields())
		if err != nil {
			e.logger.Warn(ctx, "shortcut projection failed", "entity_id", item.Id, "error", err)
			continue
		}
		rows = append(rows, client.Row{EntityType: models.EntityTypeShortcut, EntityID: item.Id, Payload: payload})
	}

	n, partial := e.uploadRows(ctx, models.EntityTypeShortcut, rows, existing)
	return n, partial, nil
}

func (e *engine) uploadSchedules(ctx context.Context) (int, bool, error) {
	items, err := e.repos.Schedules.GetAll(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read local scheduled actions: %w", err)
	}
	existing, err := e.remoteIDs(ctx, models.EntityTypeSchedule)
	if err != nil {
		return 0, false, fmt.Errorf("failed to list remote scheduled actions: %w", err)
	}

	rows := make([]client.Row, 0, len(items))
	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			e.logger.Warn(ctx, "scheduled action projection failed", "entity_id", item.Id, "error", err)
			continue
		}
		rows = append(rows, client.Row{EntityType: models.EntityTypeSchedule, EntityID: item.Id, Payload: payload})
	}

	n, partial := e.uploadRows(ctx, models.EntityTypeSchedule, rows, existing)
	return n, partial, nil
}

func (e *engine) downloadBookmarks(ctx context.Context, deleted models.DeletedSet) (int, error) {
	rows, err := e.remote.List(ctx, models.EntityTypeBookmark)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote bookmarks: %w", err)
	}
	local, err := e.repos.Bookmarks.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read local bookmarks: %w", err)
	}

	existing := make(map[string]struct{}, len(local))
	for _, item := range local {
		existing[item.Id] = struct{}{}
	}

	var added []models.Bookmark
	for _, row := range rows {
		if _, ok := existing[row.EntityID]; ok {
			continue
		}
		// The tombstone check must happen before the insert, or a
		// deleted entity resurrects from a stale remote row.
		if deleted.Contains(models.EntityTypeBookmark, row.EntityID) {
			continue
		}
		var item models.Bookmark
		if err := json.Unmarshal(row.Payload, &item); err != nil {
			e.logger.Warn(ctx, "bookmark reconstruction failed", "entity_id", row.EntityID, "error", err)
			continue
		}
		item.Id = row.EntityID
		added = append(added, item)
	}

	if len(added) == 0 {
		return 0, nil
	}
	if err := e.repos.Bookmarks.ReplaceAll(ctx, append(local, added...)); err != nil {
		return 0, fmt.Errorf("failed to store downloaded bookmarks: %w", err)
	}
	return len(added), nil
}

func (e *engine) downloadTrash(ctx context.Context, deleted models.DeletedSet) (int, error) {
	rows, err := e.remote.List(ctx, models.EntityTypeTrash)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote trash: %w", err)
	}
	local, err := e.repos.Trash.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read local trash: %w", err)
	}

	existing := make(map[string]struct{}, len(local))
	for _, item := range local {
		existing[item.Id] = struct{}{}
	}

	var added []models.TrashItem
	for _, row := range rows {
		if _, ok := existing[row.EntityID]; ok {
			continue
		}
		if deleted.Contains(models.EntityTypeTrash, row.EntityID) {
			continue
		}
		var item models.TrashItem
		if err := json.Unmarshal(row.Payload, &item); err != nil {
			e.logger.Warn(ctx, "trash reconstruction failed", "entity_id", row.EntityID, "error", err)
			continue
		}
		item.Id = row.EntityID
		added = append(added, item)
	}

	if len(added) == 0 {
		return 0, nil
	}
	if err := e.repos.Trash.ReplaceAll(ctx, append(local, added...)); err != nil {
		return 0, fmt.Errorf("failed to store downloaded trash: %w", err)
	}
	return len(added), nil
}

// downloadShortcuts reconstructs shortcuts from their cloud projection.
// File-backed kinds arrive without their binary and come up dormant.
func (e *engine) downloadShortcuts(ctx context.Context, deleted models.DeletedSet) (int, error) {
	rows, err := e.remote.List(ctx, models.EntityTypeShortcut)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote shortcuts: %w", err)
	}
	local, err := e.repos.Shortcuts.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read local shortcuts: %w", err)
	}

	existing := make(map[string]struct{}, len(local))
	for _, item := range local {
		existing[item.Id] = struct{}{}
	}

	var added []models.Shortcut
	for _, row := range rows {
		if _, ok := existing[row.EntityID]; ok {
			continue
		}
		if deleted.Contains(models.EntityTypeShortcut, row.EntityID) {
			continue
		}
		var cloud models.CloudShortcut
		if err := json.Unmarshal(row.Payload, &cloud); err != nil {
			e.logger.Warn(ctx, "shortcut reconstruction failed", "entity_id", row.EntityID, "error", err)
			continue
		}
		item := cloud.FromCloud()
		item.Id = row.EntityID
		added = append(added, item)
	}

	if len(added) == 0 {
		return 0, nil
	}
	if err := e.repos.Shortcuts.ReplaceAll(ctx, append(local, added...)); err != nil {
		return 0, fmt.Errorf("failed to store downloaded shortcuts: %w", err)
	}
	return len(added), nil
}

// downloadSchedules reconstructs scheduled actions. Past-due recurring
// triggers are advanced to their next occurrence; past-due one-time actions
// and actions with a file destination (not restorable on this device)
// arrive disabled. Platform triggers are re-installed best-effort.
func (e *engine) downloadSchedules(ctx context.Context, deleted models.DeletedSet) (int, error) {
	rows, err := e.remote.List(ctx, models.EntityTypeSchedule)
	if err != nil {
		return 0, fmt.Errorf("failed to list remote scheduled actions: %w", err)
	}
	local, err := e.repos.Schedules.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read local scheduled actions: %w", err)
	}

	existing := make(map[string]struct{}, len(local))
	for _, item := range local {
		existing[item.Id] = struct{}{}
	}

	now := e.now()
	var added []models.ScheduledAction
	for _, row := range rows {
		if _, ok := existing[row.EntityID]; ok {
			continue
		}
		if deleted.Contains(models.EntityTypeSchedule, row.EntityID) {
			continue
		}
		var item models.ScheduledAction
		if err := json.Unmarshal(row.Payload, &item); err != nil {
			e.logger.Warn(ctx, "scheduled action reconstruction failed", "entity_id", row.EntityID, "error", err)
			continue
		}
		item.Id = row.EntityID

		if item.Destination.Kind == models.DestinationFile {
			// file content does not exist on this device
			item.Enabled = false
		}
		if item.PastDue(now) {
			if item.Recurrence == models.RecurrenceOnce {
				item.Enabled = false
			} else {
				item.TriggerAt = item.NextOccurrence(now)
			}
		}
		added = append(added, item)
	}

	if len(added) == 0 {
		return 0, nil
	}
	if err := e.repos.Schedules.ReplaceAll(ctx, append(local, added...)); err != nil {
		return 0, fmt.Errorf("failed to store downloaded scheduled actions: %w", err)
	}

	for _, item := range added {
		if !item.Enabled {
			continue
		}
		if err := e.sched.Schedule(ctx, item.Id, item.Name, item.TriggerAt, item.Recurrence); err != nil {
			e.logger.Warn(ctx, "trigger installation failed", "entity_id", item.Id, "error", err)
		}
	}
	return len(added), nil
}

// uploadDeletions propagates pending tombstones: each is inserted into the
// remote tombstone collection and its entity row deleted. Only entries
// confirmed on the remote side leave the local pending list; a failed item
// stays pending for the next cycle. Returns false when some items remain.
func (e *engine) uploadDeletions(ctx context.Context) (bool, error) {
	pending, err := e.repos.Tombstones.GetAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read pending deletions: %w", err)
	}
	if len(pending) == 0 {
		return true, nil
	}

	processed := make([]models.Tombstone, 0, len(pending))
	for _, t := range pending {
		if err := e.remote.UpsertTombstone(ctx, t); err != nil {
			e.logger.Warn(ctx, "tombstone upload failed",
				"entity_type", t.EntityType, "entity_id", t.EntityID, "error", err)
			continue
		}
		if err := e.remote.Delete(ctx, t.EntityType, t.EntityID); err != nil {
			e.logger.Warn(ctx, "remote entity delete failed",
				"entity_type", t.EntityType, "entity_id", t.EntityID, "error", err)
			continue
		}
		processed = append(processed, t)
	}

	if err := e.repos.Tombstones.ClearProcessed(ctx, processed); err != nil {
		return false, err
	}
	return len(processed) == len(pending), nil
}

// fetchDeletedEntitySet loads the remote tombstone set used as the
// exclusion set for every download phase of the same cycle.
func (e *engine) fetchDeletedEntitySet(ctx context.Context) (models.DeletedSet, error) {
	tombstones, err := e.remote.ListTombstones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote tombstones: %w", err)
	}

	set := make(models.DeletedSet)
	for _, t := range tombstones {
		set.Add(t.EntityType, t.EntityID)
	}
	return set, nil
}

// reconcileLocalDeletions removes local entities that another device
// tombstoned. Returns true when any collection could not be reconciled.
func (e *engine) reconcileLocalDeletions(ctx context.Context, deleted models.DeletedSet) bool {
	partial := false

	if local, err := e.repos.Bookmarks.GetAll(ctx); err != nil {
		e.logger.Warn(ctx, "bookmark deletion reconciliation failed", "error", err)
		partial = true
	} else {
		keep := local[:0:0]
		for _, item := range local {
			if !deleted.Contains(models.EntityTypeBookmark, item.Id) {
				keep = append(keep, item)
			}
		}
		if len(keep) != len(local) {
			if err := e.repos.Bookmarks.ReplaceAll(ctx, keep); err != nil {
				e.logger.Warn(ctx, "bookmark deletion reconciliation failed", "error", err)
				partial = true
			}
		}
	}

	if local, err := e.repos.Trash.GetAll(ctx); err != nil {
		e.logger.Warn(ctx, "trash deletion reconciliation failed", "error", err)
		partial = true
	} else {
		keep := local[:0:0]
		for _, item := range local {
			if !deleted.Contains(models.EntityTypeTrash, item.Id) {
				keep = append(keep, item)
			}
		}
		if len(keep) != len(local) {
			if err := e.repos.Trash.ReplaceAll(ctx, keep); err != nil {
				e.logger.Warn(ctx, "trash deletion reconciliation failed", "error", err)
				partial = true
			}
		}
	}

	if local, err := e.repos.Shortcuts.GetAll(ctx); err != nil {
		e.logger.Warn(ctx, "shortcut deletion reconciliation failed", "error", err)
		partial = true
	} else {
		keep := local[:0:0]
		for _, item := range local {
			if !deleted.Contains(models.EntityTypeShortcut, item.Id) {
				keep = append(keep, item)
			}
		}
		if len(keep) != len(local) {
			if err := e.repos.Shortcuts.ReplaceAll(ctx, keep); err != nil {
				e.logger.Warn(ctx, "shortcut deletion reconciliation failed", "error", err)
				partial = true
			}
		}
	}

	if local, err := e.repos.Schedules.GetAll(ctx); err != nil {
		e.logger.Warn(ctx, "scheduled action deletion reconciliation failed", "error", err)
		partial = true
	} else {
		keep := local[:0:0]
		var removed []models.ScheduledAction
		for _, item := range local {
			if deleted.Contains(models.EntityTypeSchedule, item.Id) {
				removed = append(removed, item)
				continue
			}
			keep = append(keep, item)
		}
		if len(removed) > 0 {
			if err := e.repos.Schedules.ReplaceAll(ctx, keep); err != nil {
				e.logger.Warn(ctx, "scheduled action deletion reconciliation failed", "error", err)
				partial = true
			} else {
				for _, item := range removed {
					if err := e.sched.Cancel(ctx, item.Id); err != nil {
						e.logger.Warn(ctx, "trigger cancellation failed", "entity_id", item.Id, "error", err)
					}
				}
			}
		}
	}

	return partial
}

// bidirectionalSync runs a full cycle: upload all four collections in fixed
// order, propagate deletions, fetch the tombstone set, download all four
// collections, then reconcile remote deletions locally. Bookmarks are the
// pivot entity: their phase failure aborts the cycle; the other collections
// fail softly so the cycle preserves overall progress.
func (e *engine) bidirectionalSync(ctx context.Context) (totals, error) {
	var t totals

	if _, err := e.remote.CurrentUser(ctx); err != nil {
		return t, err
	}

	n, partial, err := e.uploadBookmarks(ctx)
	t.uploaded += n
	t.partial = t.partial || partial
	if err != nil {
		return t, fmt.Errorf("bookmark upload phase: %w", err)
	}
	t.softUpload(ctx, e, "trash", e.uploadTrash)
	t.softUpload(ctx, e, "shortcuts", e.uploadShortcuts)
	t.softUpload(ctx, e, "scheduled actions", e.uploadSchedules)

	if complete, err := e.uploadDeletions(ctx); err != nil {
		e.logger.Warn(ctx, "deletion upload phase failed", "error", err)
		t.partial = true
	} else if !complete {
		t.partial = true
	}

	// The tombstone set must be in hand before any download runs.
	deleted, err := e.fetchDeletedEntitySet(ctx)
	if err != nil {
		return t, err
	}

	n, err = e.downloadBookmarks(ctx, deleted)
	t.downloaded += n
	if err != nil {
		return t, fmt.Errorf("bookmark download phase: %w", err)
	}
	t.softDownload(ctx, e, "trash", deleted, e.downloadTrash)
	t.softDownload(ctx, e, "shortcuts", deleted, e.downloadShortcuts)
	t.softDownload(ctx, e, "scheduled actions", deleted, e.downloadSchedules)

	if e.reconcileLocalDeletions(ctx, deleted) {
		t.partial = true
	}

	return t, nil
}

// uploadAll is the recovery-only upload direction: all four collections plus
// the deletion upload, no downloads.
func (e *engine) uploadAll(ctx context.Context) (totals, error) {
	var t totals

	if _, err := e.remote.CurrentUser(ctx); err != nil {
		return t, err
	}

	n, partial, err := e.uploadBookmarks(ctx)
	t.uploaded += n
	t.partial = t.partial || partial
	if err != nil {
		return t, fmt.Errorf("bookmark upload phase: %w", err)
	}
	t.softUpload(ctx, e, "trash", e.uploadTrash)
	t.softUpload(ctx, e, "shortcuts", e.uploadShortcuts)
	t.softUpload(ctx, e, "scheduled actions", e.uploadSchedules)

	if complete, err := e.uploadDeletions(ctx); err != nil {
		e.logger.Warn(ctx, "deletion upload phase failed", "error", err)
		t.partial = true
	} else if !complete {
		t.partial = true
	}

	return t, nil
}

// downloadAll is the recovery-only download direction: tombstone fetch, all
// four collection downloads, local deletion reconciliation, no uploads.
func (e *engine) downloadAll(ctx context.Context) (totals, error) {
	var t totals

	if _, err := e.remote.CurrentUser(ctx); err != nil {
		return t, err
	}

	deleted, err := e.fetchDeletedEntitySet(ctx)
	if err != nil {
		return t, err
	}

	n, err := e.downloadBookmarks(ctx, deleted)
	t.downloaded += n
	if err != nil {
		return t, fmt.Errorf("bookmark download phase: %w", err)
	}
	t.softDownload(ctx, e, "trash", deleted, e.downloadTrash)
	t.softDownload(ctx, e, "shortcuts", deleted, e.downloadShortcuts)
	t.softDownload(ctx, e, "scheduled actions", deleted, e.downloadSchedules)

	if e.reconcileLocalDeletions(ctx, deleted) {
		t.partial = true
	}

	return t, nil
}

// softUpload runs a non-pivot upload phase, folding failures into partial.
func (t *totals) softUpload(ctx context.Context, e *engine, name string, phase func(context.Context) (int, bool, error)) {
	n, partial, err := phase(ctx)
	t.uploaded += n
	if err != nil {
		e.logger.Warn(ctx, "upload phase failed", "phase", name, "error", err)
		t.partial = true
		return
	}
	t.partial = t.partial || partial
}

// softDownload runs a non-pivot download phase, folding failures into partial.
func (t *totals) softDownload(ctx context.Context, e *engine, name string, deleted models.DeletedSet, phase func(context.Context, models.DeletedSet) (int, error)) {
	n, err := phase(ctx, deleted)
	t.downloaded += n
	if err != nil {
		e.logger.Warn(ctx, "download phase failed", "phase", name, "error", err)
		t.partial = true
	}
}
