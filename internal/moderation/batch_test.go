package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/investmatch/admin-backend/internal/metrics"
	"github.com/investmatch/admin-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpdater fails the first failures[id] calls for an id (-1 means
// always) and succeeds afterwards.
type fakeUpdater struct {
	mu       sync.Mutex
	calls    map[uuid.UUID]int
	failures map[uuid.UUID]int
	delay    time.Duration
	onCall   func(id uuid.UUID)
}

func newFakeUpdater() *fakeUpdater {
	return &fakeUpdater{
		calls:    make(map[uuid.UUID]int),
		failures: make(map[uuid.UUID]int),
	}
}

func (f *fakeUpdater) UpdateReport(_ context.Context, id uuid.UUID, _, _ string) error {
	f.mu.Lock()
	attempt := f.calls[id]
	f.calls[id]++
	fails := f.failures[id]
	f.mu.Unlock()

	if f.onCall != nil {
		f.onCall(id)
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if fails < 0 || attempt < fails {
		return errors.New("upstream unavailable")
	}
	return nil
}

func (f *fakeUpdater) callCount(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func (f *fakeUpdater) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// newTestProcessor wires a processor with recorded sleeps so backoff
// waits never slow the suite down.
func newTestProcessor(store *Store, updater ReportUpdater) (*Processor, *[]time.Duration) {
	p := NewProcessor(store, updater, NewBackoff(), nil)
	var mu sync.Mutex
	sleeps := &[]time.Duration{}
	p.sleep = func(d time.Duration) {
		mu.Lock()
		*sleeps = append(*sleeps, d)
		mu.Unlock()
	}
	return p, sleeps
}

func seedStore(store *Store, n int) []uuid.UUID {
	reports := make([]models.Report, n)
	ids := make([]uuid.UUID, n)
	for i := range reports {
		reports[i] = pendingReport("spam")
		ids[i] = reports[i].ID
	}
	store.Seed(reports)
	return ids
}

func TestSubmitApproveResolvesEveryReport(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 7)
	updater := newFakeUpdater()
	p, sleeps := newTestProcessor(store, updater)

	result, err := p.Submit(context.Background(), ids, ActionApprove, "spam confirmed", nil)
	require.NoError(t, err)

	assert.Equal(t, 7, result.Succeeded)
	assert.Empty(t, result.FailedIDs)
	assert.Empty(t, *sleeps, "no retries for a clean run")

	for _, id := range ids {
		got, ok := store.Get(id)
		require.True(t, ok)
		assert.Equal(t, StatusResolved, got.Status)
		assert.Equal(t, "spam confirmed", got.ReviewNotes)
		assert.Equal(t, 1, updater.callCount(id))
	}
}

func TestSubmitRejectMarksReviewed(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 1)
	updater := newFakeUpdater()
	p, _ := newTestProcessor(store, updater)

	result, err := p.Submit(context.Background(), ids, ActionReject, "not actionable", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)

	got, ok := store.Get(ids[0])
	require.True(t, ok)
	assert.Equal(t, StatusReviewed, got.Status)
	assert.Equal(t, "not actionable", got.ReviewNotes)
}

func TestSubmitValidation(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 2)
	updater := newFakeUpdater()
	p, _ := newTestProcessor(store, updater)

	tests := []struct {
		name   string
		ids    []uuid.UUID
		action Action
		notes  string
	}{
		{"empty selection", nil, ActionApprove, "notes"},
		{"blank notes", ids, ActionApprove, "   "},
		{"unknown action", ids, Action("escalate"), "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Submit(context.Background(), tt.ids, tt.action, tt.notes, nil)
			assert.Nil(t, result)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}

	assert.Equal(t, 0, updater.totalCalls(), "validation failures must not reach the updater")
	for _, id := range ids {
		got, _ := store.Get(id)
		assert.Equal(t, StatusPending, got.Status, "store untouched after rejected submission")
	}
}

func TestSubmitRetriesWithExponentialBackoff(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 1)
	updater := newFakeUpdater()
	updater.failures[ids[0]] = 2
	p, sleeps := newTestProcessor(store, updater)

	result, err := p.Submit(context.Background(), ids, ActionApprove, "retry me", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Succeeded)
	assert.Empty(t, result.FailedIDs)
	assert.Equal(t, 3, updater.callCount(ids[0]), "two failures then a success")
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *sleeps)

	got, _ := store.Get(ids[0])
	assert.Equal(t, StatusResolved, got.Status)
}

func TestSubmitExhaustedItemEndsUpFailed(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 3)
	bad := ids[1]
	updater := newFakeUpdater()
	updater.failures[bad] = -1
	p, sleeps := newTestProcessor(store, updater)

	result, err := p.Submit(context.Background(), ids, ActionApprove, "mixed outcome", nil)
	require.NoError(t, err, "item failures never surface as a submit error")

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, []uuid.UUID{bad}, result.FailedIDs)

	// Initial attempt plus MaxRetries retries, waiting 1s, 2s, 4s between.
	assert.Equal(t, MaxRetries+1, updater.callCount(bad))
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, *sleeps)

	// The failed report keeps its pre-batch state in the store.
	got, _ := store.Get(bad)
	assert.Equal(t, StatusPending, got.Status)
	assert.Empty(t, got.ReviewNotes)

	for _, id := range []uuid.UUID{ids[0], ids[2]} {
		got, _ := store.Get(id)
		assert.Equal(t, StatusResolved, got.Status, "siblings of a failing item are unaffected")
	}
}

func TestSubmitChunksRunSequentially(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 12)
	updater := newFakeUpdater()
	updater.delay = 5 * time.Millisecond

	firstChunk := make(map[uuid.UUID]bool, DefaultBatchSize)
	for _, id := range ids[:DefaultBatchSize] {
		firstChunk[id] = true
	}

	var mu sync.Mutex
	firstChunkDone := 0
	violated := false
	updater.onCall = func(id uuid.UUID) {
		mu.Lock()
		defer mu.Unlock()
		if firstChunk[id] {
			firstChunkDone++
		} else if firstChunkDone < DefaultBatchSize {
			violated = true
		}
	}

	p, _ := newTestProcessor(store, updater)
	result, err := p.Submit(context.Background(), ids, ActionApprove, "bulk sweep", nil)
	require.NoError(t, err)

	assert.Equal(t, 12, result.Succeeded)
	assert.False(t, violated, "no later chunk item may start before the first chunk finishes")
}

func TestSubmitConcurrencyNeverExceedsBatchSize(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 17)
	updater := newFakeUpdater()
	updater.delay = 5 * time.Millisecond

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	updater.onCall = func(uuid.UUID) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
	}

	p, _ := newTestProcessor(store, updater)
	_, err := p.Submit(context.Background(), ids, ActionApprove, "bulk sweep", nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, maxInFlight, DefaultBatchSize)
}

func TestSubmitProgressSnapshots(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 6)
	bad := ids[4]
	updater := newFakeUpdater()
	updater.failures[bad] = -1
	p, _ := newTestProcessor(store, updater)

	var mu sync.Mutex
	var snapshots []Progress
	onProgress := func(p Progress) {
		mu.Lock()
		snapshots = append(snapshots, p)
		mu.Unlock()
	}

	result, err := p.Submit(context.Background(), ids, ActionApprove, "with progress", onProgress)
	require.NoError(t, err)

	require.Len(t, snapshots, 6, "one snapshot per item completion")

	prev := 0
	for _, s := range snapshots {
		assert.Equal(t, 6, s.Total)
		assert.Equal(t, prev+1, s.Completed, "completed count rises by one per snapshot")
		assert.Equal(t, s.Completed, s.Succeeded+len(s.FailedIDs))
		prev = s.Completed
	}

	final := snapshots[len(snapshots)-1]
	assert.Equal(t, final.Total, final.Completed)
	assert.Equal(t, result.Succeeded, final.Succeeded)
	assert.Equal(t, result.FailedIDs, final.FailedIDs)
}

func TestSubmitFailedSubsetCanBeResubmitted(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 8)
	updater := newFakeUpdater()
	updater.failures[ids[2]] = -1
	updater.failures[ids[6]] = -1
	p, _ := newTestProcessor(store, updater)

	first, err := p.Submit(context.Background(), ids, ActionApprove, "first pass", nil)
	require.NoError(t, err)
	require.Len(t, first.FailedIDs, 2)

	// The upstream recovers; retry exactly the failed subset.
	updater.mu.Lock()
	updater.failures = make(map[uuid.UUID]int)
	updater.calls = make(map[uuid.UUID]int)
	updater.mu.Unlock()

	second, err := p.Submit(context.Background(), first.FailedIDs, ActionApprove, "second pass", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, second.Succeeded)
	assert.Empty(t, second.FailedIDs)
	assert.Equal(t, 2, updater.totalCalls(), "only the failed ids are touched again")

	for _, id := range ids {
		got, _ := store.Get(id)
		assert.Equal(t, StatusResolved, got.Status)
	}
}

func TestSubmitRecordsMetrics(t *testing.T) {
	store := NewStore()
	ids := seedStore(store, 2)
	updater := newFakeUpdater()
	updater.failures[ids[1]] = -1

	p := NewProcessor(store, updater, NewBackoff(), metrics.NewCollector())
	p.sleep = func(time.Duration) {}

	result, err := p.Submit(context.Background(), ids, ActionApprove, "counted", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Len(t, result.FailedIDs, 1)
}
