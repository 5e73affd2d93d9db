package service

import (
	"context"
	"sync"
	"time"

	"github.com/livechat-history-viewer/internal/bridge"
	"github.com/livechat-history-viewer/internal/metrics"
	"github.com/rs/zerolog"
)

// bridgeService is the concrete implementation of BridgeService
type bridgeService struct {
	bridge  bridge.Bridge
	timeout time.Duration
	metrics *metrics.Metrics
	log     zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// newBridgeService creates a BridgeService around b
func newBridgeService(b bridge.Bridge, timeout time.Duration, m *metrics.Metrics, log zerolog.Logger) *bridgeService {
	ctx, cancel := context.WithCancel(context.Background())
	return &bridgeService{
		bridge:  b,
		timeout: timeout,
		metrics: m,
		log:     log.With().Str("service", "bridge").Logger(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Request sends the request in the background. Requests made after Stop
// are dropped.
func (s *bridgeService) Request(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.log.Warn().Str("path", path).Msg("Request ignored, service stopped")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx := s.ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(s.ctx, s.timeout)
			defer cancel()
		}

		s.log.Info().Str("path", path).Msg("Requesting sessions from bridge")
		err := s.bridge.Request(ctx, path)
		s.metrics.ObserveBridgeRequest(err)
		if err != nil {
			s.log.Error().Err(err).Str("path", path).Msg("Bridge request failed")
		}
	}()
}

// Wait blocks until in-flight requests have finished
func (s *bridgeService) Wait() {
	s.wg.Wait()
}

// Stop cancels in-flight requests and waits for them
func (s *bridgeService) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
}
