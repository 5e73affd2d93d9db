// Package bridge talks to the backend that turns chat exports into session
// records. The backend is asked for a directory; the sessions come back
// through the inbound callback.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/livechat-history-viewer/internal/config"
	"github.com/livechat-history-viewer/internal/models"
	"github.com/rs/zerolog"
)

var (
	// ErrArchiveNotFound is returned when the requested directory has no archive
	ErrArchiveNotFound = errors.New("session archive not found")
	// ErrNotDelivered is returned when the receiver refused the sessions
	ErrNotDelivered = errors.New("sessions not delivered")
)

// Bridge requests session data for a user-supplied path
type Bridge interface {
	Request(ctx context.Context, path string) error
}

// Receiver is the inbound side: it accepts the sessions for one pass
type Receiver interface {
	Deliver(sessions []models.Session) string
}

// New builds the bridge selected by cfg.Mode
func New(cfg *config.BridgeConfig, receiver Receiver, log zerolog.Logger) (Bridge, error) {
	switch cfg.Mode {
	case config.BridgeModeFile:
		return NewFileBridge(cfg.ArchiveFile, receiver, log), nil
	case config.BridgeModeHTTP:
		return NewHTTPBridge(cfg.URL, cfg.Timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown bridge mode: %s", cfg.Mode)
	}
}

// HTTPBridge posts the path to an external backend, which later calls the
// inbound endpoint with the sessions
type HTTPBridge struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewHTTPBridge creates an HTTPBridge
func NewHTTPBridge(url string, timeout time.Duration, log zerolog.Logger) *HTTPBridge {
	return &HTTPBridge{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.With().Str("component", "http_bridge").Logger(),
	}
}

// Request sends {"path": path} to the backend
func (b *HTTPBridge) Request(ctx context.Context, path string) error {
	body, err := json.Marshal(models.BridgeRequest{Path: path})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		b.log.Debug().Err(err).Msg("Failed to drain bridge response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}

	b.log.Info().Str("path", path).Int("status", resp.StatusCode).Msg("Bridge request accepted")
	return nil
}

// FileBridge reads the archive the backend already wrote into the requested
// directory and delivers it directly
type FileBridge struct {
	archiveFile string
	receiver    Receiver
	log         zerolog.Logger
}

// NewFileBridge creates a FileBridge
func NewFileBridge(archiveFile string, receiver Receiver, log zerolog.Logger) *FileBridge {
	return &FileBridge{
		archiveFile: archiveFile,
		receiver:    receiver,
		log:         log.With().Str("component", "file_bridge").Logger(),
	}
}

// Request loads <path>/<archive> and hands the sessions to the receiver
func (b *FileBridge) Request(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sessions, err := LoadArchive(filepath.Join(path, b.archiveFile))
	if err != nil {
		return err
	}

	passID := b.receiver.Deliver(sessions)
	if passID == "" {
		return fmt.Errorf("%w: %d sessions from %s", ErrNotDelivered, len(sessions), path)
	}
	b.log.Info().
		Str("path", path).
		Int("sessions", len(sessions)).
		Str("pass_id", passID).
		Msg("Archive delivered")
	return nil
}

// LoadArchive decodes a session archive file
func LoadArchive(file string) ([]models.Session, error) {
	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArchiveNotFound, file)
		}
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	var sessions []models.Session
	if err := json.NewDecoder(f).Decode(&sessions); err != nil {
		return nil, fmt.Errorf("failed to decode archive %s: %w", file, err)
	}
	return sessions, nil
}
