package mocks

import (
	"context"
	"sync"

	"github.com/livechat-history-viewer/internal/models"
	"github.com/livechat-history-viewer/internal/render"
	"github.com/livechat-history-viewer/internal/service"
)

// MockRenderService is a mock implementation of RenderService
type MockRenderService struct {
	DeliverFunc func(sessions []models.Session) string
	RenderFunc  func(ctx context.Context, sessions []models.Session, sink render.Sink) (*models.PassResult, error)
	Delivered   [][]models.Session
	Last        *models.PassResult
	Stopped     bool

	mu sync.Mutex
}

// Verify interface compliance
var _ service.RenderService = (*MockRenderService)(nil)

func NewMockRenderService() *MockRenderService {
	return &MockRenderService{
		Delivered: make([][]models.Session, 0),
	}
}

func (m *MockRenderService) Deliver(sessions []models.Session) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeliverFunc != nil {
		return m.DeliverFunc(sessions)
	}
	m.Delivered = append(m.Delivered, sessions)
	return "test-pass-id"
}

func (m *MockRenderService) Render(ctx context.Context, sessions []models.Session, sink render.Sink) (*models.PassResult, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, sessions, sink)
	}
	return &models.PassResult{
		ID:           "test-pass-id",
		Status:       models.PassStatusCompleted,
		SessionCount: len(sessions),
	}, nil
}

func (m *MockRenderService) LastPass() *models.PassResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Last
}

func (m *MockRenderService) Wait() {}

func (m *MockRenderService) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stopped = true
}

// DeliveredCount returns how many deliveries were received
func (m *MockRenderService) DeliveredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Delivered)
}

// MockBridgeService is a mock implementation of BridgeService
type MockBridgeService struct {
	Requests []string
	Stopped  bool

	mu sync.Mutex
}

// Verify interface compliance
var _ service.BridgeService = (*MockBridgeService)(nil)

func NewMockBridgeService() *MockBridgeService {
	return &MockBridgeService{
		Requests: make([]string, 0),
	}
}

func (m *MockBridgeService) Request(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, path)
}

// RequestedPaths returns a copy of the requested paths
func (m *MockBridgeService) RequestedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Requests...)
}

func (m *MockBridgeService) Wait() {}

func (m *MockBridgeService) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stopped = true
}
