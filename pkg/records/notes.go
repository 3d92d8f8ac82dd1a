package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/typed"
)

// NoteManager creates, lists and deletes notes.
type NoteManager struct {
	notes  *typed.Collection[core.Note]
	config Config
}

// NewNoteManager creates a NoteManager over the notes collection of store.
func NewNoteManager(store core.RecordStore, config Config) *NoteManager {
	config = config.withDefaults()
	return &NoteManager{
		notes: typed.NewCollection[core.Note](store, core.KindNotes, typed.Config{
			Strict: config.Strict,
			Logger: config.Logger,
		}),
		config: config,
	}
}

// Create stores a new note in front of the existing ones.
// Empty or whitespace-only content is rejected with core.ErrValidation and
// nothing is written.
func (m *NoteManager) Create(ctx context.Context, ownerID, title, content string) (core.Note, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.Note{}, fmt.Errorf("%w: note owner is required", core.ErrValidation)
	}
	if strings.TrimSpace(content) == "" {
		return core.Note{}, fmt.Errorf("%w: note content cannot be empty", core.ErrValidation)
	}
	if strings.TrimSpace(title) == "" {
		title = core.DefaultNoteTitle
	}

	id, err := m.config.NewID()
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to generate note id: %w", err)
	}

	n := core.Note{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: m.config.now(),
	}
	if err := m.notes.Prepend(ctx, n); err != nil {
		return core.Note{}, err
	}
	return n, nil
}

// ListFor returns the notes owned by ownerID, newest first.
func (m *NoteManager) ListFor(ctx context.Context, ownerID string) ([]core.Note, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner is required", core.ErrValidation)
	}

	all, err := m.notes.Load(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]core.Note, 0, len(all))
	for _, n := range all {
		if n.OwnerID == ownerID {
			owned = append(owned, n)
		}
	}
	return owned, nil
}

// DeleteByID removes the note with the given id. Deleting a missing note is a no-op.
func (m *NoteManager) DeleteByID(ctx context.Context, id string) error {
	_, err := m.notes.RemoveFunc(ctx, func(n core.Note) bool { return n.ID == id })
	return err
}
