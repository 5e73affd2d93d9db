package render

import (
	"context"
	"errors"
	"time"
)

// Default chunking used by the live feed
const (
	DefaultChunkSize     = 5
	DefaultYieldInterval = 50 * time.Millisecond
)

// ErrInvalidChunkSize is returned when a scheduler is built with a size below 1
var ErrInvalidChunkSize = errors.New("chunk size must be at least 1")

// Scheduler walks an index range in fixed-size chunks and sleeps for
// Interval between consecutive chunks
type Scheduler struct {
	Size     int
	Interval time.Duration
}

// NewScheduler validates and returns a Scheduler
func NewScheduler(size int, interval time.Duration) (Scheduler, error) {
	if size < 1 {
		return Scheduler{}, ErrInvalidChunkSize
	}
	if interval < 0 {
		interval = 0
	}
	return Scheduler{Size: size, Interval: interval}, nil
}

// Run calls fn with the half-open range [start, end) of each chunk. The last
// chunk may be shorter than Size. There is no pause after the final chunk.
// Cancellation is observed while yielding.
func (s Scheduler) Run(ctx context.Context, total int, fn func(start, end int) error) error {
	if s.Size < 1 {
		return ErrInvalidChunkSize
	}

	for start := 0; start < total; start += s.Size {
		end := start + s.Size
		if end > total {
			end = total
		}

		if err := fn(start, end); err != nil {
			return err
		}

		if end < total {
			if err := s.yield(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Scheduler) yield(ctx context.Context) error {
	if s.Interval <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
