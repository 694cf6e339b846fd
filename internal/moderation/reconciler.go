package moderation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/investmatch/admin-backend/internal/metrics"
	"github.com/investmatch/admin-backend/internal/models"
)

// EventType discriminates inbound realtime messages.
type EventType string

const (
	EventReportUpdate EventType = "report_update"
	EventNewReport    EventType = "new_report"
)

// Event is one parsed realtime message. The payload is always a full
// report record.
type Event struct {
	Type   EventType     `json:"type"`
	Report models.Report `json:"payload"`
}

// Reconciler merges inbound realtime events into the store, concurrently
// with and independently of the batch processor. Updates are last-write-
// wins: no sequence number guards ordering against batch-driven writes,
// so for a contended id whichever Upsert lands last is the final state.
type Reconciler struct {
	store   *Store
	metrics *metrics.Collector

	mu     sync.RWMutex
	filter string
}

func NewReconciler(store *Store, collector *metrics.Collector) *Reconciler {
	return &Reconciler{store: store, metrics: collector}
}

// SetFilter restricts which new reports are ingested to the status the
// operator is currently viewing. Empty admits everything. Updates for
// already known ids are always applied regardless of filter.
func (r *Reconciler) SetFilter(status string) {
	r.mu.Lock()
	r.filter = status
	r.mu.Unlock()
}

func (r *Reconciler) Filter() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter
}

// Apply merges a single event into the store.
func (r *Reconciler) Apply(ev Event) {
	switch ev.Type {
	case EventReportUpdate:
		r.store.Upsert(ev.Report)
	case EventNewReport:
		if f := r.Filter(); f != "" && ev.Report.Status != f {
			return
		}
		r.store.Prepend(ev.Report)
	default:
		slog.Warn("unknown moderation event", "type", string(ev.Type))
		return
	}

	if r.metrics != nil {
		r.metrics.RecordEventApplied(string(ev.Type))
	}
}

// Run consumes events until the channel closes or the context ends.
// Transport failures close the channel upstream; the reconciler does not
// resubscribe itself, reconnect policy belongs to the transport.
func (r *Reconciler) Run(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			r.Apply(ev)
		}
	}
}
