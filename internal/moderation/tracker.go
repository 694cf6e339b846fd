package moderation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type JobState string

const (
	JobStateRunning   JobState = "running"
	JobStateCompleted JobState = "completed"
)

// JobStatus is the externally visible state of one in-flight batch.
type JobStatus struct {
	ID        uuid.UUID `json:"id"`
	State     JobState  `json:"state"`
	Progress  Progress  `json:"progress"`
	Result    *Result   `json:"result,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Tracker hands out job ids for asynchronous batch submissions and keeps
// their progress until the caller has consumed the final state.
type Tracker struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*JobStatus
}

func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[uuid.UUID]*JobStatus)}
}

func (t *Tracker) Create(total int) uuid.UUID {
	id := uuid.New()
	t.mu.Lock()
	t.jobs[id] = &JobStatus{
		ID:        id,
		State:     JobStateRunning,
		Progress:  Progress{Total: total},
		StartedAt: time.Now(),
	}
	t.mu.Unlock()
	return id
}

// ProgressFunc returns the callback the processor invokes per completion.
func (t *Tracker) ProgressFunc(id uuid.UUID) func(Progress) {
	return func(p Progress) {
		t.mu.Lock()
		if js, ok := t.jobs[id]; ok {
			js.Progress = p
		}
		t.mu.Unlock()
	}
}

func (t *Tracker) Complete(id uuid.UUID, result *Result) {
	t.mu.Lock()
	if js, ok := t.jobs[id]; ok {
		js.State = JobStateCompleted
		js.Result = result
	}
	t.mu.Unlock()
}

// Get returns the current status. A completed job is removed on fetch;
// the bookkeeping is transient per invocation and the final state is
// consumed exactly once.
func (t *Tracker) Get(id uuid.UUID) (JobStatus, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	js, ok := t.jobs[id]
	if !ok {
		return JobStatus{}, false
	}
	out := *js
	if js.State == JobStateCompleted {
		delete(t.jobs, id)
	}
	return out, true
}
