package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ShortcutKind classifies a home-screen shortcut.
type ShortcutKind string

const (
	ShortcutKindFile      ShortcutKind = "file"
	ShortcutKindLink      ShortcutKind = "link"
	ShortcutKindContact   ShortcutKind = "contact"
	ShortcutKindSlideshow ShortcutKind = "slideshow"
	ShortcutKindText      ShortcutKind = "text"
)

// Shortcut is a typed union over its kind-specific payloads, carried as raw
// JSON in Details. Thumbnail holds local binary icon data and is never
// uploaded; the cloud projection substitutes a kind-derived emoji instead.
//
// Dormant is true when a file-backed payload cannot currently be resolved,
// typically after the shortcut arrived from another device without its
// underlying binary.
type Shortcut struct {
	Id        string          `json:"id"`
	Kind      ShortcutKind    `json:"kind"`
	Label     string          `json:"label"`
	Details   json.RawMessage `json:"details"`
	Dormant   bool            `json:"dormant,omitempty"`
	Thumbnail []byte          `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

// FileShortcut opens a file by content reference.
type FileShortcut struct {
	ContentRef string `json:"content_ref"`
	FileType   string `json:"file_type,omitempty"`
}

// LinkShortcut opens a URL.
type LinkShortcut struct {
	URL string `json:"url"`
}

// ContactShortcut dials or messages a contact.
type ContactShortcut struct {
	Phone         string   `json:"phone"`
	QuickMessages []string `json:"quick_messages,omitempty"`
}

// SlideshowShortcut cycles through a list of images.
type SlideshowShortcut struct {
	Images          []string `json:"images"`
	AdvanceInterval int      `json:"advance_interval,omitempty"`
}

// TextShortcut shows a free-text note.
type TextShortcut struct {
	Content string `json:"content"`
}

// WrapShortcut marshals a kind payload into a Shortcut envelope.
func WrapShortcut[T any](kind ShortcutKind, label string, v T) (Shortcut, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Shortcut{}, err
	}
	return Shortcut{Kind: kind, Label: label, Details: b}, nil
}

// Unwrap decodes Details into the payload type matching Kind. The switch is
// exhaustive over ShortcutKind; an unknown kind is an error so that corrupt
// or future remote rows fail loudly instead of producing a half-built value.
func (s Shortcut) Unwrap() (any, error) {
	switch s.Kind {
	case ShortcutKindFile:
		var v FileShortcut
		return v, json.Unmarshal(s.Details, &v)
	case ShortcutKindLink:
		var v LinkShortcut
		return v, json.Unmarshal(s.Details, &v)
	case ShortcutKindContact:
		var v ContactShortcut
		return v, json.Unmarshal(s.Details, &v)
	case ShortcutKindSlideshow:
		var v SlideshowShortcut
		return v, json.Unmarshal(s.Details, &v)
	case ShortcutKindText:
		var v TextShortcut
		return v, json.Unmarshal(s.Details, &v)
	default:
		return nil, fmt.Errorf("unknown shortcut kind: %q", s.Kind)
	}
}

// RequiresFile reports whether the kind depends on a locally resolvable
// file reference.
func (k ShortcutKind) RequiresFile() bool {
	return k == ShortcutKindFile || k == ShortcutKindSlideshow
}

// Icon returns the cloud-safe fallback icon for the kind.
func (k ShortcutKind) Icon() string {
	switch k {
	case ShortcutKindFile:
		return "📄"
	case ShortcutKindLink:
		return "🔗"
	case ShortcutKindContact:
		return "💬"
	case ShortcutKindSlideshow:
		return "🖼️"
	case ShortcutKindText:
		return "📝"
	default:
		return "⭐"
	}
}

// CloudShortcut is the remote projection of a Shortcut: binary thumbnail
// data is stripped and replaced by the kind's emoji icon.
type CloudShortcut struct {
	Id        string          `json:"id"`
	Kind      ShortcutKind    `json:"kind"`
	Label     string          `json:"label"`
	Details   json.RawMessage `json:"details"`
	Icon      string          `json:"icon"`
	CreatedAt time.Time       `json:"created_at"`
}

// CloudFields builds the upload projection.
func (s Shortcut) CloudFields() CloudShortcut {
	return CloudShortcut{
		Id:        s.Id,
		Kind:      s.Kind,
		Label:     s.Label,
		Details:   s.Details,
		Icon:      s.Kind.Icon(),
		CreatedAt: s.CreatedAt,
	}
}

// FromCloud reconstructs a local Shortcut from its remote projection. A
// kind that requires a file arrives without the underlying binary, so the
// result is dormant until the file reference resolves again.
func (c CloudShortcut) FromCloud() Shortcut {
	return Shortcut{
		Id:        c.Id,
		Kind:      c.Kind,
		Label:     c.Label,
		Details:   c.Details,
		Dormant:   c.Kind.RequiresFile(),
		CreatedAt: c.CreatedAt,
	}
}
