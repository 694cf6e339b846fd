package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes moderation throughput counters for Prometheus.
// It carries its own registry so tests can create collectors freely.
type Collector struct {
	registry *prometheus.Registry

	batchesSubmitted prometheus.Counter
	itemsSucceeded   prometheus.Counter
	itemsFailed      prometheus.Counter
	retries          prometheus.Counter
	eventsApplied    *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		batchesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moderation_batches_submitted_total",
			Help: "Total number of batch actions submitted",
		}),
		itemsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moderation_batch_items_succeeded_total",
			Help: "Total number of batch items that succeeded",
		}),
		itemsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moderation_batch_items_failed_total",
			Help: "Total number of batch items that exhausted their retries",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moderation_batch_retries_total",
			Help: "Total number of per-item retry attempts",
		}),
		eventsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moderation_events_applied_total",
			Help: "Total number of realtime events applied to the report store",
		}, []string{"type"}),
	}

	c.registry.MustRegister(
		c.batchesSubmitted,
		c.itemsSucceeded,
		c.itemsFailed,
		c.retries,
		c.eventsApplied,
	)
	return c
}

// Handler returns the /metrics scrape handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordBatchSubmitted() {
	c.batchesSubmitted.Inc()
}

func (c *Collector) RecordItemSucceeded() {
	c.itemsSucceeded.Inc()
}

func (c *Collector) RecordItemFailed() {
	c.itemsFailed.Inc()
}

func (c *Collector) RecordRetry() {
	c.retries.Inc()
}

func (c *Collector) RecordEventApplied(eventType string) {
	c.eventsApplied.WithLabelValues(eventType).Inc()
}
