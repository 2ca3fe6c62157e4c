// Package models defines client-side data models for the marksync engine.
package models

// EntityType names one of the four syncable collections. It is half of the
// cross-boundary identity key: the remote store enforces uniqueness on
// (user_id, entity_type, entity_id).
type EntityType string

const (
	EntityTypeBookmark EntityType = "bookmark"
	EntityTypeTrash    EntityType = "trash"
	EntityTypeShortcut EntityType = "shortcut"
	EntityTypeSchedule EntityType = "schedule"
)

// EntityTypes lists all syncable collections in the fixed reconciliation
// order: bookmarks first (pivot), then trash, shortcuts, schedules.
var EntityTypes = []EntityType{
	EntityTypeBookmark,
	EntityTypeTrash,
	EntityTypeShortcut,
	EntityTypeSchedule,
}

// Tombstone records the permanent deletion of an entity. It is created
// locally at delete time and mirrored to the remote tombstone collection on
// the next sync so that a stale remote row cannot resurrect the entity.
type Tombstone struct {
	EntityType EntityType
	EntityID   string
}

// DeletedSet maps each entity type to the set of tombstoned entity ids for
// the current user. It is fetched once per cycle and consulted before every
// download insert.
type DeletedSet map[EntityType]map[string]struct{}

// Contains reports whether the given entity id is tombstoned for the type.
func (s DeletedSet) Contains(t EntityType, id string) bool {
	ids, ok := s[t]
	if !ok {
		return false
	}
	_, ok = ids[id]
	return ok
}

// Add records an id in the set, creating the per-type map on first use.
func (s DeletedSet) Add(t EntityType, id string) {
	ids, ok := s[t]
	if !ok {
		ids = make(map[string]struct{})
		s[t] = ids
	}
	ids[id] = struct{}{}
}
