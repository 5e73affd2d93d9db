// Package feed holds the live output container that browsers subscribe to.
package feed

import (
	"sync"

	"github.com/rs/zerolog"
)

// EventType names a document mutation
type EventType string

const (
	EventReset    EventType = "reset"
	EventAppend   EventType = "append"
	EventPrepend  EventType = "prepend"
	EventProgress EventType = "progress"
)

// DefaultSubscriberBuffer is the per-subscriber event queue length
const DefaultSubscriberBuffer = 256

// Event is a single mutation of the document
type Event struct {
	Seq      uint64    `json:"seq"`
	Type     EventType `json:"type"`
	PassID   string    `json:"pass_id,omitempty"`
	Fragment string    `json:"fragment,omitempty"`
	Progress float64   `json:"progress"`
}

// Snapshot is the full state of the document at a sequence number
type Snapshot struct {
	Seq       uint64   `json:"seq"`
	PassID    string   `json:"pass_id,omitempty"`
	Fragments []string `json:"fragments"`
	Progress  float64  `json:"progress"`
}

// Subscription receives document events until it is closed. A subscriber
// that falls more than its buffer behind is closed and must resubscribe.
type Subscription struct {
	events chan Event
}

// Events returns the subscription channel
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Document is the server-side output container. It implements render.Sink.
type Document struct {
	mu        sync.Mutex
	fragments []string
	progress  float64
	passID    string
	seq       uint64
	subs      map[*Subscription]struct{}
	bufSize   int
	log       zerolog.Logger
}

// NewDocument creates an empty document
func NewDocument(bufSize int, log zerolog.Logger) *Document {
	if bufSize <= 0 {
		bufSize = DefaultSubscriberBuffer
	}
	return &Document{
		subs:    make(map[*Subscription]struct{}),
		bufSize: bufSize,
		log:     log.With().Str("component", "document").Logger(),
	}
}

// Reset clears the container and progress for a new pass
func (d *Document) Reset(passID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fragments = nil
	d.progress = 0
	d.passID = passID
	d.publish(Event{Type: EventReset, PassID: passID})
}

// Append adds a fragment at the end of the container
func (d *Document) Append(fragment string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fragments = append(d.fragments, fragment)
	d.publish(Event{Type: EventAppend, Fragment: fragment})
	return nil
}

// Prepend adds a fragment at the top of the container
func (d *Document) Prepend(fragment string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fragments = append([]string{fragment}, d.fragments...)
	d.publish(Event{Type: EventPrepend, Fragment: fragment})
	return nil
}

// SetProgress updates the progress indicator
func (d *Document) SetProgress(value float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.progress = value
	d.publish(Event{Type: EventProgress, Progress: value})
	return nil
}

// Snapshot returns a copy of the current state
func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Subscribe registers a subscriber and returns it together with the state
// the subscriber's first event applies to
func (d *Document) Subscribe() (*Subscription, Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sub := &Subscription{events: make(chan Event, d.bufSize)}
	d.subs[sub] = struct{}{}
	return sub, d.snapshotLocked()
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// after the document already dropped it.
func (d *Document) Unsubscribe(sub *Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.subs[sub]; ok {
		delete(d.subs, sub)
		close(sub.events)
	}
}

// Subscribers returns the number of live subscriptions
func (d *Document) Subscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

func (d *Document) snapshotLocked() Snapshot {
	return Snapshot{
		Seq:       d.seq,
		PassID:    d.passID,
		Fragments: append([]string{}, d.fragments...),
		Progress:  d.progress,
	}
}

// publish must be called with d.mu held
func (d *Document) publish(ev Event) {
	d.seq++
	ev.Seq = d.seq
	if ev.PassID == "" {
		ev.PassID = d.passID
	}

	for sub := range d.subs {
		select {
		case sub.events <- ev:
		default:
			delete(d.subs, sub)
			close(sub.events)
			d.log.Warn().Uint64("seq", ev.Seq).Msg("Dropped slow subscriber")
		}
	}
}
