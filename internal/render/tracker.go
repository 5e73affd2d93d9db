package render

import (
	"fmt"
	"html/template"

	"github.com/dustin/go-humanize"
)

// MaxTracker records the session with the most comments seen in a pass
type MaxTracker struct {
	count int
	id    string
	seen  bool
}

// CompareSize replaces the running maximum when count is strictly greater.
// Ties keep the earlier session.
func (t *MaxTracker) CompareSize(count int, id string) {
	if !t.seen || count > t.count {
		t.count = count
		t.id = id
		t.seen = true
	}
}

// Max returns the largest comment count and the id of the session that had it
func (t *MaxTracker) Max() (int, string) {
	return t.count, t.id
}

// Banner renders the one-line summary for the current maximum
func (t *MaxTracker) Banner() string {
	if !t.seen {
		return `<div class="summary">No comments</div>`
	}
	return fmt.Sprintf(
		`<div class="summary">Most comments: <span class="count">%s</span> in <a href="https://youtu.be/%s">%s</a></div>`,
		humanize.Comma(int64(t.count)),
		template.URLQueryEscaper(t.id),
		template.HTMLEscapeString(t.id),
	)
}

// Show prepends the summary banner to the sink. Each call adds another banner.
func (t *MaxTracker) Show(sink Sink) error {
	return sink.Prepend(t.Banner())
}
