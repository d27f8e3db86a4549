package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRun("line", nil)
	m.ObserveRun("line", errors.New("boom"))
	m.ObserveRun("upload", nil)
	m.IncSynthesisRetry()
	m.IncSynthesisRetry()
	m.IncWebhookEvent("audio")
	m.ObserveStage("transcribing", 1.5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRuns.WithLabelValues(OutcomeSuccess, "line")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRuns.WithLabelValues(OutcomeFailure, "line")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRuns.WithLabelValues(OutcomeSuccess, "upload")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SynthesisRetries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WebhookEvents.WithLabelValues("audio")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun("line", nil)
		m.ObserveStage("persisting", 0.1)
		m.IncSynthesisRetry()
		m.IncWebhookEvent("text")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncWebhookEvent("text")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `carebot_webhook_events_total{type="text"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
