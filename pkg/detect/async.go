package detect

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/casebook/pkg/core"
)

// Result is the single value delivered by Async.
type Result struct {
	Detection core.Detection
	Err       error
}

// Async runs d in its own goroutine. The returned channel yields exactly one
// Result and is then closed. Errors are wrapped with core.ErrDetection.
func Async(ctx context.Context, d core.Detector, imageRef string) <-chan Result {
	out := make(chan Result, 1)
	delivered := false

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer func() {
			if !delivered {
				out <- Result{Err: fmt.Errorf("%w: detector stopped without a result", core.ErrDetection)}
			}
			close(out)
		}()

		detection, err := d.Detect(ctx, imageRef)
		if err != nil && !errors.Is(err, core.ErrDetection) {
			err = fmt.Errorf("%w: %v", core.ErrDetection, err)
		}
		out <- Result{Detection: detection, Err: err}
		delivered = true
		return nil
	})

	return out
}

// Run is the blocking form of Async.
func Run(ctx context.Context, d core.Detector, imageRef string) (core.Detection, error) {
	select {
	case res := <-Async(ctx, d, imageRef):
		return res.Detection, res.Err
	case <-ctx.Done():
		return core.Detection{}, fmt.Errorf("%w: %v", core.ErrDetection, ctx.Err())
	}
}
