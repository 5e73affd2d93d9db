package models

import (
	"time"
)

// PassStatus represents the state of a rendering pass
type PassStatus string

const (
	PassStatusRunning   PassStatus = "running"
	PassStatusCompleted PassStatus = "completed"
	PassStatusFailed    PassStatus = "failed"
	PassStatusCancelled PassStatus = "cancelled"
)

// PassResult summarises one rendering pass
type PassResult struct {
	ID            string     `json:"pass_id"`
	Status        PassStatus `json:"status"`
	SessionCount  int        `json:"sessions"`
	FragmentCount int        `json:"fragments"`
	InsertedCount int        `json:"inserted"`
	CommentCount  int        `json:"comments"`
	MaxCount      int        `json:"max_comments"`
	MaxSessionID  string     `json:"max_session_id,omitempty"`
	Error         string     `json:"error,omitempty"`
	DurationMs    int64      `json:"duration_ms"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// BridgeRequest is the outbound request a UI action sends to the bridge
type BridgeRequest struct {
	Path string `json:"path"`
}
