package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorExposesCounters(t *testing.T) {
	c := NewCollector()
	c.RecordBatchSubmitted()
	c.RecordItemSucceeded()
	c.RecordItemSucceeded()
	c.RecordItemFailed()
	c.RecordRetry()
	c.RecordEventApplied("new_report")

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "moderation_batches_submitted_total 1")
	assert.Contains(t, body, "moderation_batch_items_succeeded_total 2")
	assert.Contains(t, body, "moderation_batch_items_failed_total 1")
	assert.Contains(t, body, "moderation_batch_retries_total 1")
	assert.Contains(t, body, `moderation_events_applied_total{type="new_report"} 1`)
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector()
	b := NewCollector()
	a.RecordRetry()

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "moderation_batch_retries_total 0")
}
