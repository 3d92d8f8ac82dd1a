// Package records implements the casebook use cases: creating, listing and
// deleting cases and notes per owner, the signed-in session, and the
// upload-then-analyze flow that turns a detection into a case.
package records

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/casebook/pkg/core"
	"github.com/aretw0/casebook/pkg/detect"
)

// Config holds the collaborators shared by the managers.
type Config struct {
	// Clock stamps CreatedAt. Defaults to time.Now.
	Clock func() time.Time
	// NewID generates record IDs. Defaults to time-ordered UUIDv7 strings.
	NewID func() (string, error)
	// Detector analyzes uploads. Defaults to detect.NewStub(0).
	Detector core.Detector
	// Strict reports malformed stored records instead of dropping them.
	Strict bool
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.NewID == nil {
		c.NewID = newUUIDv7
	}
	if c.Detector == nil {
		c.Detector = detect.NewStub(0)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

func (c Config) now() time.Time {
	return c.Clock().UTC()
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
