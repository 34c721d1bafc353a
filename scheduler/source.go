package scheduler

import (
	"context"
	"time"
)

// RefreshSource calls tick once per display refresh until it stops or ctx
// is done. tick always runs on the goroutine that called Drive.
type RefreshSource interface {
	Drive(ctx context.Context, tick func()) error
}

// SourceFunc adapts a function to RefreshSource.
type SourceFunc func(ctx context.Context, tick func()) error

// Drive calls f.
func (f SourceFunc) Drive(ctx context.Context, tick func()) error {
	return f(ctx, tick)
}

// Ticker paces ticks with a time.Ticker. Limit > 0 stops after that many
// ticks. Ticks missed while a frame is running are dropped by the ticker,
// never queued, so frames cannot overlap or pile up.
type Ticker struct {
	Interval time.Duration
	Limit    int
}

// TickerForFPS returns a ticker for the given target rate.
func TickerForFPS(fps int) Ticker {
	if fps <= 0 {
		fps = 60
	}
	return Ticker{Interval: time.Second / time.Duration(fps)}
}

// Drive runs the ticker loop.
func (t Ticker) Drive(ctx context.Context, tick func()) error {
	tk := time.NewTicker(t.Interval)
	defer tk.Stop()

	for n := 0; t.Limit <= 0 || n < t.Limit; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
			tick()
		}
	}
	return nil
}

// Frames runs N ticks back to back with no pacing.
type Frames struct {
	N int
}

// Drive runs the ticks.
func (f Frames) Drive(ctx context.Context, tick func()) error {
	for i := 0; i < f.N; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tick()
	}
	return nil
}
