package render

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// BatchRenderer inserts pre-formatted fragments into a sink chunk by chunk
type BatchRenderer struct {
	sched Scheduler
	sink  Sink
	log   zerolog.Logger
}

// NewBatchRenderer creates a BatchRenderer writing to sink
func NewBatchRenderer(sched Scheduler, sink Sink, log zerolog.Logger) *BatchRenderer {
	return &BatchRenderer{
		sched: sched,
		sink:  sink,
		log:   log.With().Str("component", "batch_renderer").Logger(),
	}
}

// Render appends fragments in order and publishes progress after every
// chunk, then shows the tracker summary. It returns the number of fragments
// inserted, which is less than len(fragments) only when an error stops it.
func (r *BatchRenderer) Render(ctx context.Context, fragments []string, tracker *MaxTracker) (int, error) {
	total := len(fragments)
	inserted := 0

	err := r.sched.Run(ctx, total, func(start, end int) error {
		for _, fragment := range fragments[start:end] {
			if err := r.sink.Append(fragment); err != nil {
				return fmt.Errorf("append fragment %d: %w", inserted, err)
			}
			inserted++
		}

		if err := r.sink.SetProgress(Progress(end, total)); err != nil {
			return fmt.Errorf("set progress: %w", err)
		}

		r.log.Debug().
			Int("inserted", inserted).
			Int("total", total).
			Msg("Chunk inserted")
		return nil
	})
	if err != nil {
		return inserted, err
	}

	if tracker != nil {
		if err := tracker.Show(r.sink); err != nil {
			return inserted, fmt.Errorf("show summary: %w", err)
		}
	}

	return inserted, nil
}

// Progress returns the fraction of fragments inserted. Callers only invoke
// it after at least one chunk, so total is never zero in practice; a zero
// total reports completion.
func Progress(inserted, total int) float64 {
	if total <= 0 {
		return 1
	}
	return float64(inserted) / float64(total)
}
