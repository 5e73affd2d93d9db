// Package render turns chat sessions into markup fragments and inserts them
// into an output container in throttled chunks.
package render

import (
	"strings"
	"sync"
)

// Sink is the output container a pass writes into
type Sink interface {
	// Append inserts a fragment at the end of the container
	Append(fragment string) error
	// Prepend inserts a fragment at the top of the container
	Prepend(fragment string) error
	// SetProgress publishes rendering progress in [0, 1]
	SetProgress(value float64) error
}

// BufferSink collects fragments in memory
type BufferSink struct {
	mu        sync.Mutex
	fragments []string
	progress  []float64
}

// NewBufferSink creates an empty BufferSink
func NewBufferSink() *BufferSink {
	return &BufferSink{}
}

func (b *BufferSink) Append(fragment string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fragments = append(b.fragments, fragment)
	return nil
}

func (b *BufferSink) Prepend(fragment string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fragments = append([]string{fragment}, b.fragments...)
	return nil
}

func (b *BufferSink) SetProgress(value float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.progress = append(b.progress, value)
	return nil
}

// Fragments returns a copy of the collected fragments in container order
func (b *BufferSink) Fragments() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.fragments...)
}

// Progress returns every progress value published so far
func (b *BufferSink) Progress() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]float64(nil), b.progress...)
}

// String joins the collected fragments
func (b *BufferSink) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.fragments, "")
}
