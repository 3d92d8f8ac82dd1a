// Package detect provides Detector implementations and the single-shot async
// runner the analyze flow uses.
package detect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/casebook/pkg/core"
)

// StubDescription is the scene description the stub reports for every image.
const StubDescription = "The image shows what appears to be an indoor scene. " +
	"There is a white cup of coffee or beverage spotted. " +
	"The coffee cup is on a wooden table."

// StubObjects returns the objects the stub reports for every image.
func StubObjects() []string {
	return []string{"Coffee cup", "Table"}
}

// Stub is a Detector that ignores the image and returns a fixed Detection,
// optionally after a delay to mimic a remote call.
type Stub struct {
	Delay  time.Duration
	Result core.Detection
}

// NewStub creates a Stub returning the default mock result.
func NewStub(delay time.Duration) *Stub {
	return &Stub{
		Delay: delay,
		Result: core.Detection{
			Objects:     StubObjects(),
			Description: StubDescription,
		},
	}
}

// Detect implements core.Detector.
func (s *Stub) Detect(ctx context.Context, imageRef string) (core.Detection, error) {
	if strings.TrimSpace(imageRef) == "" {
		return core.Detection{}, fmt.Errorf("%w: no image to analyze", core.ErrDetection)
	}

	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return core.Detection{}, fmt.Errorf("%w: %v", core.ErrDetection, ctx.Err())
		case <-timer.C:
		}
	}

	return core.Detection{
		Objects:     append([]string(nil), s.Result.Objects...),
		Description: s.Result.Description,
	}, nil
}

var _ core.Detector = (*Stub)(nil)
