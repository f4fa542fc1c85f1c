// Package worker contains the periodic background workers: catalog sync,
// deal polling and wishlist matching. Each worker owns one concern, runs
// one cycle at a time and never blocks the others; errors are logged at
// the cycle boundary and the worker waits for its next tick.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one schedulable periodic task. Run executes a single cycle and
// handles its own failures.
type Job interface {
	Name() string
	Run(ctx context.Context)
}

// Schedule runs job immediately and then on every tick of interval until
// ctx is cancelled.
func Schedule(ctx context.Context, job Job, interval time.Duration, log zerolog.Logger) {
	log.Info().Str("job", job.Name()).Dur("interval", interval).Msg("worker started")

	job.Run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("job", job.Name()).Msg("worker stopped")
			return
		case <-ticker.C:
			job.Run(ctx)
		}
	}
}
