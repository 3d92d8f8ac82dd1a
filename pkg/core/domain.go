// Package core holds the casebook domain: records, the storage ports they are
// persisted through, and the record store that sits on top of those ports.
package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind names a collection of records sharing one storage key.
type Kind string

const (
	KindCases Kind = "cases"
	KindNotes Kind = "notes"
)

// Storage keys. The names match the layout the browser build wrote to localStorage,
// so a store exported from a browser profile can be opened as-is.
const (
	KeyCases         = "userCases"
	KeyNotes         = "userNotes"
	KeyCurrentUpload = "analyzedImage"
	KeyIdentity      = "userId"
	KeyDisplayName   = "username"
)

// Key returns the storage key a kind is persisted under.
func (k Kind) Key() (string, error) {
	switch k {
	case KindCases:
		return KeyCases, nil
	case KindNotes:
		return KeyNotes, nil
	default:
		return "", fmt.Errorf("%w: unknown record kind %q", ErrValidation, string(k))
	}
}

// Kinds lists every record kind known to the store.
func Kinds() []Kind {
	return []Kind{KindCases, KindNotes}
}

// Record is one serialized entry of a collection.
type Record = json.RawMessage

// DefaultNoteTitle is used when a note is created with a blank title.
const DefaultNoteTitle = "Untitled Note"

// Case is the persisted outcome of analyzing one image.
// Cases are immutable once created; they are only ever deleted.
type Case struct {
	ID              string    `json:"id" yaml:"id" validate:"required"`
	OwnerID         string    `json:"userId" yaml:"userId" validate:"required"`
	Name            string    `json:"caseName" yaml:"caseName"`
	ImageRef        string    `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	DetectedObjects []string  `json:"detectedObjects" yaml:"detectedObjects"`
	Description     string    `json:"description" yaml:"description"`
	CreatedAt       time.Time `json:"createdAt" yaml:"createdAt" validate:"required"`
}

// Note is a free-form annotation owned by a user.
type Note struct {
	ID        string    `json:"id" yaml:"id" validate:"required"`
	OwnerID   string    `json:"userId" yaml:"userId" validate:"required"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content" validate:"required"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt" validate:"required"`
}

// Detection is what a Detector reports for one image.
type Detection struct {
	Objects     []string `json:"detectedObjects" yaml:"detectedObjects"`
	Description string   `json:"description" yaml:"description"`
}

// EventType represents the type of change observed in a store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports a change to a storage key observed by a watcher.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
