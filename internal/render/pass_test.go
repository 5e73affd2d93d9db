package render_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/livechat-history-viewer/internal/models"
	"github.com/livechat-history-viewer/internal/render"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yhat/scrape"
)

func sessionWith(id string, date time.Time, comments int) models.Session {
	s := models.Session{ID: id, Date: date}
	for i := 0; i < comments; i++ {
		s.Comments = append(s.Comments, plainComment(id, "c"))
	}
	return s
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 20, 0, 0, 0, time.UTC)
}

func TestMaxTracker_StrictlyGreater(t *testing.T) {
	tracker := &render.MaxTracker{}
	tracker.CompareSize(3, "a")
	tracker.CompareSize(7, "b")
	tracker.CompareSize(5, "c")
	tracker.CompareSize(7, "d")

	count, id := tracker.Max()
	assert.Equal(t, 7, count)
	assert.Equal(t, "b", id, "ties keep the earlier session")
}

func TestMaxTracker_ShowPrependsEveryCall(t *testing.T) {
	tracker := &render.MaxTracker{}
	tracker.CompareSize(1234, "abc")

	sink := render.NewBufferSink()
	require.NoError(t, sink.Append("body"))
	require.NoError(t, tracker.Show(sink))
	require.NoError(t, tracker.Show(sink))

	fragments := sink.Fragments()
	require.Len(t, fragments, 3)
	assert.Equal(t, fragments[0], fragments[1])
	assert.Equal(t, "body", fragments[2])

	root := parseMarkup(t, fragments[0])
	assert.Equal(t, []string{"1,234"}, textsByClass(root, "count"))
}

func TestPass_OrdersSessionsByDate(t *testing.T) {
	sessions := []models.Session{
		sessionWith("third", day(3), 1),
		sessionWith("first", day(1), 1),
		sessionWith("second", day(2), 1),
		sessionWith("second-b", day(2), 1),
	}

	sink := render.NewBufferSink()
	sched, _ := render.NewScheduler(2, 0)
	result, err := render.NewPass(sched, sink, zerolog.Nop()).Run(context.Background(), sessions)
	require.NoError(t, err)
	assert.Equal(t, models.PassStatusCompleted, result.Status)
	assert.Equal(t, 4, result.InsertedCount)

	var order []string
	for _, n := range scrape.FindAll(parseMarkup(t, sink.String()), scrape.ByClass("content")) {
		order = append(order, scrape.Attr(n, "data-session"))
	}
	assert.Equal(t, []string{"first", "second", "second-b", "third"}, order)
	assert.Equal(t, "third", sessions[0].ID, "input slice is left untouched")
}

func TestPass_TracksLargestSession(t *testing.T) {
	sessions := []models.Session{
		sessionWith("s1", day(1), 3),
		sessionWith("s2", day(2), 7),
		sessionWith("s3", day(3), 5),
	}

	sink := render.NewBufferSink()
	sched, _ := render.NewScheduler(5, 0)
	result, err := render.NewPass(sched, sink, zerolog.Nop()).Run(context.Background(), sessions)
	require.NoError(t, err)

	assert.Equal(t, 7, result.MaxCount)
	assert.Equal(t, "s2", result.MaxSessionID)
	assert.Equal(t, 15, result.CommentCount)
	assert.NotEmpty(t, result.ID)
	require.NotNil(t, result.CompletedAt)

	fragments := sink.Fragments()
	require.Len(t, fragments, 4)
	assert.Contains(t, fragments[0], `class="summary"`, "banner sits at the top of the output")
	assert.Equal(t, []float64{1}, sink.Progress())
}

func TestPass_EmptyCollection(t *testing.T) {
	sink := render.NewBufferSink()
	sched, _ := render.NewScheduler(5, 0)
	result, err := render.NewPass(sched, sink, zerolog.Nop()).Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, models.PassStatusCompleted, result.Status)
	assert.Zero(t, result.FragmentCount)
	assert.Empty(t, result.MaxSessionID)
	assert.Len(t, sink.Fragments(), 1)
}

func TestPass_Cancelled(t *testing.T) {
	sessions := make([]models.Session, 10)
	for i := range sessions {
		sessions[i] = sessionWith("s", day(i+1), 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := render.NewBufferSink()
	sched, _ := render.NewScheduler(5, time.Hour)
	result, err := render.NewPass(sched, sink, zerolog.Nop()).Run(ctx, sessions)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.PassStatusCancelled, result.Status)
	assert.Equal(t, 5, result.InsertedCount, "the chunk in flight completes before cancellation is seen")
}

func TestWritePage(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, render.WritePage(&sb, "Archive", []string{`<div class="content">x</div>`}))

	root := parseMarkup(t, sb.String())
	assert.Len(t, scrape.FindAll(root, scrape.ByClass("content")), 1)
	assert.Contains(t, sb.String(), "<title>Archive</title>")
}

func TestSortSessions_MixedDateFormats(t *testing.T) {
	// 21:00 JST is 12:00Z, an hour before the RFC 3339 session
	payload := `[
	  {"date":"2024-03-01T13:00:00Z","dougaID":"utc-1300"},
	  {"date":"2024/03/01 21:00:00.000","dougaID":"jst-2100"},
	  {"date":"2024/03/01 23:30:00","dougaID":"jst-2330"}
	]`

	var sessions []models.Session
	require.NoError(t, json.Unmarshal([]byte(payload), &sessions))

	ordered := render.SortSessions(sessions)
	ids := make([]string, len(ordered))
	for i, s := range ordered {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"jst-2100", "utc-1300", "jst-2330"}, ids)
}
