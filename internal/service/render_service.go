package service

import (
	"context"
	"sync"

	"github.com/livechat-history-viewer/internal/feed"
	"github.com/livechat-history-viewer/internal/metrics"
	"github.com/livechat-history-viewer/internal/models"
	"github.com/livechat-history-viewer/internal/render"
	"github.com/rs/zerolog"
)

// activePass tracks the live pass so a newer delivery can supersede it
type activePass struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

// renderService is the concrete implementation of RenderService
type renderService struct {
	doc     *feed.Document
	sched   render.Scheduler
	metrics *metrics.Metrics
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	active  *activePass
	last    *models.PassResult
	stopped bool
}

// newRenderService creates a RenderService that owns doc
func newRenderService(doc *feed.Document, sched render.Scheduler, m *metrics.Metrics, log zerolog.Logger) *renderService {
	ctx, cancel := context.WithCancel(context.Background())
	return &renderService{
		doc:     doc,
		sched:   sched,
		metrics: m,
		log:     log.With().Str("service", "render").Logger(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Deliver starts a live pass. A pass already running is cancelled and
// awaited before the document is reset, so two passes never write into the
// document at the same time.
func (s *renderService) Deliver(sessions []models.Session) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.log.Warn().Int("sessions", len(sessions)).Msg("Delivery ignored, service stopped")
		return ""
	}

	pass := render.NewPass(s.sched, s.doc, s.log)
	ctx, cancel := context.WithCancel(s.ctx)
	current := &activePass{id: pass.ID, cancel: cancel, done: make(chan struct{})}
	previous := s.active
	s.active = current

	if previous != nil {
		s.log.Info().
			Str("pass_id", previous.id).
			Str("superseded_by", pass.ID).
			Msg("Cancelling running pass")
		previous.cancel()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(current.done)
		defer cancel()

		// Panic recovery keeps a bad record from taking the server down
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().
					Interface("panic", r).
					Str("pass_id", current.id).
					Msg("Rendering pass panicked - recovered")
			}
		}()

		if previous != nil {
			<-previous.done
		}
		if ctx.Err() != nil {
			// superseded before it started
			s.clearActive(current, nil)
			return
		}

		s.doc.Reset(pass.ID)
		result, _ := pass.Run(ctx, sessions)
		s.metrics.ObservePass(result)
		s.clearActive(current, result)
	}()

	return pass.ID
}

func (s *renderService) clearActive(p *activePass, result *models.PassResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result != nil {
		s.last = result
	}
	if s.active == p {
		s.active = nil
	}
}

// Render runs a pass synchronously against sink
func (s *renderService) Render(ctx context.Context, sessions []models.Session, sink render.Sink) (*models.PassResult, error) {
	pass := render.NewPass(s.sched, sink, s.log)
	result, err := pass.Run(ctx, sessions)
	s.metrics.ObservePass(result)
	return result, err
}

// LastPass returns a copy of the most recent live pass result
func (s *renderService) LastPass() *models.PassResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return nil
	}
	last := *s.last
	return &last
}

// Wait blocks until every started pass has exited
func (s *renderService) Wait() {
	s.wg.Wait()
}

// Stop cancels the running pass and waits for it
func (s *renderService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info().Msg("Render service stopped")
}
