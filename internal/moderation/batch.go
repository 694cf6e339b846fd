package moderation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/investmatch/admin-backend/internal/metrics"
)

// DefaultBatchSize caps the number of update calls in flight at once.
// Chunks run strictly one after another, so the downstream service never
// sees more than this many concurrent calls from a single batch.
const DefaultBatchSize = 5

// Processor applies one operator decision to many reports: fixed-size
// chunks processed sequentially, items within a chunk dispatched
// concurrently, each item retried on its own schedule. A failing item
// never aborts its siblings or the batch; it ends up in FailedIDs.
type Processor struct {
	store     *Store
	updater   ReportUpdater
	policy    RetryPolicy
	metrics   *metrics.Collector
	batchSize int

	sleep func(time.Duration)
}

func NewProcessor(store *Store, updater ReportUpdater, policy RetryPolicy, collector *metrics.Collector) *Processor {
	return &Processor{
		store:     store,
		updater:   updater,
		policy:    policy,
		metrics:   collector,
		batchSize: DefaultBatchSize,
		sleep:     time.Sleep,
	}
}

// job is the transient bookkeeping for one Submit call. Counters are
// guarded by mu; progress snapshots are emitted under the lock so they
// arrive in completion order.
type job struct {
	mu         sync.Mutex
	total      int
	completed  int
	succeeded  int
	failedIDs  []uuid.UUID
	retryCount map[uuid.UUID]int
	onProgress func(Progress)
}

func (j *job) finish(id uuid.UUID, retries int, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.completed++
	if ok {
		j.succeeded++
	} else {
		j.failedIDs = append(j.failedIDs, id)
	}
	j.retryCount[id] = retries

	if j.onProgress != nil {
		j.onProgress(j.snapshot())
	}
}

func (j *job) snapshot() Progress {
	failed := make([]uuid.UUID, len(j.failedIDs))
	copy(failed, j.failedIDs)
	return Progress{
		Total:     j.total,
		Completed: j.completed,
		Succeeded: j.succeeded,
		FailedIDs: failed,
	}
}

// Submit applies (action, notes) to every id and blocks until the batch
// has fully resolved, including retries. onProgress, when non-nil, is
// invoked after every item completion with the current snapshot.
//
// A validation failure returns a *ValidationError before any update call
// is made. Per-item failures never surface as an error; exhausted ids are
// reported in Result.FailedIDs and the caller may resubmit exactly that
// subset as a fresh job.
func (p *Processor) Submit(ctx context.Context, ids []uuid.UUID, action Action, notes string, onProgress func(Progress)) (*Result, error) {
	if len(ids) == 0 {
		return nil, &ValidationError{Reason: "no reports selected"}
	}
	if strings.TrimSpace(notes) == "" {
		return nil, &ValidationError{Reason: "review notes are required"}
	}
	if !action.Valid() {
		return nil, &ValidationError{Reason: "unknown action " + string(action)}
	}

	if p.metrics != nil {
		p.metrics.RecordBatchSubmitted()
	}

	j := &job{
		total:      len(ids),
		retryCount: make(map[uuid.UUID]int, len(ids)),
		onProgress: onProgress,
	}

	for start := 0; start < len(ids); start += p.batchSize {
		end := start + p.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		var wg sync.WaitGroup
		for _, id := range ids[start:end] {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				p.processItem(ctx, j, id, action, notes)
			}(id)
		}
		wg.Wait()
	}

	result := &Result{Succeeded: j.succeeded, FailedIDs: j.failedIDs}
	slog.Info("batch action finished",
		"action", string(action),
		"total", j.total,
		"succeeded", result.Succeeded,
		"failed", len(result.FailedIDs))
	return result, nil
}

// processItem runs the per-item retry loop. The loop is self-contained:
// backoff waits suspend only this item's goroutine, never the chunk.
func (p *Processor) processItem(ctx context.Context, j *job, id uuid.UUID, action Action, notes string) {
	retries := 0
	for {
		err := p.updater.UpdateReport(ctx, id, action.Status(), notes)
		if err == nil {
			p.writeThrough(id, action, notes)
			if p.metrics != nil {
				p.metrics.RecordItemSucceeded()
			}
			j.finish(id, retries, true)
			return
		}

		if !p.policy.ShouldRetry(retries) {
			slog.Warn("report update exhausted retries",
				"report_id", id, "retries", retries, "error", err)
			if p.metrics != nil {
				p.metrics.RecordItemFailed()
			}
			j.finish(id, retries, false)
			return
		}

		p.sleep(p.policy.BackoffDelay(retries))
		retries++
		if p.metrics != nil {
			p.metrics.RecordRetry()
		}
	}
}

// writeThrough records a succeeded decision in the store. The full record
// is replaced, so a concurrent realtime update for the same id can only
// land entirely before or entirely after this write.
func (p *Processor) writeThrough(id uuid.UUID, action Action, notes string) {
	report, ok := p.store.Get(id)
	if !ok {
		report.ID = id
	}
	report.Status = action.Status()
	report.ReviewNotes = notes
	report.UpdatedAt = time.Now()
	p.store.Upsert(report)
}
