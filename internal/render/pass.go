package render

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/livechat-history-viewer/internal/models"
	"github.com/rs/zerolog"
)

// Pass is one rendering pass over a collection of sessions. It owns the
// running maximum for that pass and must not be reused.
type Pass struct {
	ID        string
	formatter *Formatter
	tracker   *MaxTracker
	renderer  *BatchRenderer
	log       zerolog.Logger
}

// NewPass creates a pass writing into sink
func NewPass(sched Scheduler, sink Sink, log zerolog.Logger) *Pass {
	id := uuid.New().String()
	passLog := log.With().Str("pass_id", id).Logger()
	return &Pass{
		ID:        id,
		formatter: NewFormatter(),
		tracker:   &MaxTracker{},
		renderer:  NewBatchRenderer(sched, sink, passLog),
		log:       passLog,
	}
}

// Run sorts sessions by date, formats each one, and inserts the fragments.
// The returned result is populated even when an error stops the pass.
func (p *Pass) Run(ctx context.Context, sessions []models.Session) (*models.PassResult, error) {
	start := time.Now()
	result := &models.PassResult{
		ID:           p.ID,
		Status:       models.PassStatusRunning,
		SessionCount: len(sessions),
		StartedAt:    start,
	}

	p.log.Info().Int("sessions", len(sessions)).Msg("Rendering pass started")

	ordered := SortSessions(sessions)
	fragments := make([]string, 0, len(ordered))
	for _, s := range ordered {
		fragment, err := p.formatter.Format(s)
		if err != nil {
			// keep whatever was rendered before the template failed
			p.log.Warn().Err(err).Str("session_id", s.ID).Msg("Session rendered with errors")
		}
		fragments = append(fragments, fragment)
		p.tracker.CompareSize(len(s.Comments), s.ID)
		result.CommentCount += len(s.Comments)
	}
	result.FragmentCount = len(fragments)

	inserted, err := p.renderer.Render(ctx, fragments, p.tracker)
	result.InsertedCount = inserted
	result.MaxCount, result.MaxSessionID = p.tracker.Max()

	completedAt := time.Now()
	result.CompletedAt = &completedAt
	result.DurationMs = completedAt.Sub(start).Milliseconds()

	switch {
	case err == nil:
		result.Status = models.PassStatusCompleted
		p.log.Info().
			Int("fragments", result.FragmentCount).
			Int("max_comments", result.MaxCount).
			Str("max_session_id", result.MaxSessionID).
			Int64("duration_ms", result.DurationMs).
			Msg("Rendering pass completed")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		result.Status = models.PassStatusCancelled
		result.Error = err.Error()
		p.log.Warn().Int("inserted", inserted).Msg("Rendering pass cancelled")
	default:
		result.Status = models.PassStatusFailed
		result.Error = err.Error()
		p.log.Error().Err(err).Int("inserted", inserted).Msg("Rendering pass failed")
	}

	return result, err
}

// SortSessions returns a copy of sessions in ascending date order. Sessions
// with equal dates keep their delivery order.
func SortSessions(sessions []models.Session) []models.Session {
	ordered := make([]models.Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}
