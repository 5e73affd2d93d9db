package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/livechat-history-viewer/internal/metrics"
	"github.com/livechat-history-viewer/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePass(t *testing.T) {
	m := metrics.New()
	m.ObservePass(&models.PassResult{Status: models.PassStatusCompleted, InsertedCount: 12, DurationMs: 150})
	m.ObservePass(&models.PassResult{Status: models.PassStatusCancelled, InsertedCount: 5})
	m.ObservePass(nil)

	expected := `
# HELP chatfeed_fragments_inserted_total Session fragments inserted into the document.
# TYPE chatfeed_fragments_inserted_total counter
chatfeed_fragments_inserted_total 17
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "chatfeed_fragments_inserted_total"))

	count, err := testutil.GatherAndCount(m.Registry(), "chatfeed_render_passes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per status")
}

func TestHandler_ServesBridgeCounter(t *testing.T) {
	m := metrics.New()
	m.ObserveBridgeRequest(nil)
	m.ObserveBridgeRequest(errors.New("refused"))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `chatfeed_bridge_requests_total{result="ok"} 1`)
	assert.Contains(t, body, `chatfeed_bridge_requests_total{result="error"} 1`)
}
