package chat

import (
	"context"
	"math/rand/v2"
	"time"
)

// Delay is the injectable "bot is thinking" pause applied before a canned
// reply is persisted. Tests substitute NoDelay to stay deterministic.
type Delay interface {
	Wait(ctx context.Context, min, max time.Duration)
}

// UniformDelay sleeps for a duration drawn uniformly from [min, max].
type UniformDelay struct{}

// Wait blocks until the drawn duration elapses or ctx is cancelled.
func (UniformDelay) Wait(ctx context.Context, min, max time.Duration) {
	d := min
	if max > min {
		d += time.Duration(rand.Int64N(int64(max - min + 1)))
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// NoDelay returns immediately.
type NoDelay struct{}

// Wait is a no-op.
func (NoDelay) Wait(context.Context, time.Duration, time.Duration) {}
