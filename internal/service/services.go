package service

import (
	"context"
	"fmt"

	"github.com/livechat-history-viewer/internal/bridge"
	"github.com/livechat-history-viewer/internal/config"
	"github.com/livechat-history-viewer/internal/feed"
	"github.com/livechat-history-viewer/internal/metrics"
	"github.com/livechat-history-viewer/internal/models"
	"github.com/livechat-history-viewer/internal/render"
	"github.com/rs/zerolog"
)

// RenderService defines the interface for rendering passes
type RenderService interface {
	// Deliver is the inbound bridge callback. It starts a pass on the live
	// document and returns its id without waiting for it.
	Deliver(sessions []models.Session) string
	// Render runs a pass synchronously against sink
	Render(ctx context.Context, sessions []models.Session, sink render.Sink) (*models.PassResult, error)
	// LastPass returns the most recently finished live pass, or nil
	LastPass() *models.PassResult
	// Wait blocks until no live pass is running
	Wait()
	// Stop cancels the running pass and waits for it
	Stop()
}

// BridgeService defines the interface for outbound bridge requests
type BridgeService interface {
	// Request asks the bridge for the sessions under path. Failures are
	// logged, never returned.
	Request(path string)
	// Wait blocks until in-flight requests have finished
	Wait()
	// Stop cancels in-flight requests and waits for them
	Stop()
}

// Services holds all service interfaces
type Services struct {
	Render   RenderService
	Bridge   BridgeService
	Document *feed.Document
	Metrics  *metrics.Metrics
}

// NewServices creates all services
func NewServices(cfg *config.Config, log zerolog.Logger) (*Services, error) {
	sched, err := render.NewScheduler(cfg.Render.ChunkSize, cfg.Render.YieldInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid render configuration: %w", err)
	}

	doc := feed.NewDocument(cfg.Render.SubscriberBuffer, log)
	m := metrics.New()
	renderSvc := newRenderService(doc, sched, m, log)

	// Wire the bridge back into the render service's inbound callback
	b, err := bridge.New(&cfg.Bridge, renderSvc, log)
	if err != nil {
		return nil, err
	}
	bridgeSvc := newBridgeService(b, cfg.Bridge.Timeout, m, log)

	return &Services{
		Render:   renderSvc,
		Bridge:   bridgeSvc,
		Document: doc,
		Metrics:  m,
	}, nil
}

// Stop shuts down background work
func (s *Services) Stop() {
	s.Bridge.Stop()
	s.Render.Stop()
}
