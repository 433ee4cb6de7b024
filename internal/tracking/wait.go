package tracking

import (
	"context"
	"time"

	"eyetrack/internal/facility"
	"eyetrack/internal/logging"
	"eyetrack/internal/services"
)

// Wait calls Fetch until the result is ready or ctx is done. Between calls it
// sleeps for interval, waking early when the job's output tree changes.
func (r *Retriever) Wait(ctx context.Context, session Session, interval time.Duration) (Result, error) {
	if interval <= 0 {
		interval = time.Minute
	}
	logger := logging.WithContext(services.WithSession(ctx, session.Name), r.logger)

	var changes <-chan struct{}
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := r.Fetch(ctx, session)
		if err != nil {
			return Result{}, err
		}
		if result.Ready() {
			return result, nil
		}

		if changes == nil {
			root, err := r.OutputRoot(ctx, session)
			if err == nil && root != "" {
				ch, watchErr := facility.Watch(watchCtx, root, r.logger)
				if watchErr != nil {
					logger.Debug("output watch unavailable; polling only", logging.Error(watchErr))
				} else {
					changes = ch
				}
			}
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		case _, ok := <-changes:
			if !ok {
				changes = nil
			}
		}
	}
}
