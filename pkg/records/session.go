package records

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/casebook/pkg/core"
)

// Identity is the signed-in user.
type Identity struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
}

// Session remembers which identity is signed in. It does not authenticate.
type Session struct {
	store  core.RecordStore
	logger *slog.Logger
}

// NewSession creates a Session backed by store. A nil logger discards output.
func NewSession(store core.RecordStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{store: store, logger: logger}
}

// SignIn records id as the current identity. displayName defaults to id.
func (s *Session) SignIn(ctx context.Context, id, displayName string) (Identity, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Identity{}, fmt.Errorf("%w: identity is required", core.ErrValidation)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = id
	}

	prevName, hadName, err := s.store.GetValue(ctx, core.KeyDisplayName)
	if err != nil {
		return Identity{}, err
	}

	// The identity key is written last: a session only exists once it is set.
	if err := s.store.SetValue(ctx, core.KeyDisplayName, displayName); err != nil {
		return Identity{}, err
	}
	if err := s.store.SetValue(ctx, core.KeyIdentity, id); err != nil {
		s.restoreDisplayName(ctx, prevName, hadName)
		return Identity{}, err
	}
	return Identity{ID: id, DisplayName: displayName}, nil
}

// Current returns the signed-in identity or core.ErrNoSession.
func (s *Session) Current(ctx context.Context) (Identity, error) {
	id, ok, err := s.store.GetValue(ctx, core.KeyIdentity)
	if err != nil {
		return Identity{}, err
	}
	if !ok || strings.TrimSpace(id) == "" {
		return Identity{}, core.ErrNoSession
	}

	name, ok, err := s.store.GetValue(ctx, core.KeyDisplayName)
	if err != nil {
		return Identity{}, err
	}
	if !ok || name == "" {
		name = id
	}
	return Identity{ID: id, DisplayName: name}, nil
}

// SignOut forgets the current identity and the pending upload, which is not
// owned by anyone and must not carry over to the next identity. Records are kept.
func (s *Session) SignOut(ctx context.Context) error {
	for _, key := range []string{core.KeyIdentity, core.KeyDisplayName, core.KeyCurrentUpload} {
		if err := s.store.DeleteValue(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// restoreDisplayName puts back the name a failed SignIn replaced. The old value
// fit before, so this only fails if the backend itself is failing.
func (s *Session) restoreDisplayName(ctx context.Context, name string, existed bool) {
	var err error
	if existed {
		err = s.store.SetValue(ctx, core.KeyDisplayName, name)
	} else {
		err = s.store.DeleteValue(ctx, core.KeyDisplayName)
	}
	if err != nil {
		s.logger.Error("failed to restore display name", "error", err)
	}
}
