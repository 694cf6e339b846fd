package moderation

import (
	"sync"

	"github.com/google/uuid"
	"github.com/investmatch/admin-backend/internal/models"
)

// Store is the canonical in-memory collection of reports backing the
// operator's live view. It holds exactly one report per id; Upsert and
// Prepend are the only mutation entry points, so writes from the batch
// processor and the realtime reconciler never interleave.
type Store struct {
	mu    sync.RWMutex
	index map[uuid.UUID]int
	order []models.Report
}

func NewStore() *Store {
	return &Store{index: make(map[uuid.UUID]int)}
}

// Seed replaces the whole collection, typically from a database list.
func (s *Store) Seed(reports []models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]models.Report, len(reports))
	copy(s.order, reports)
	s.index = make(map[uuid.UUID]int, len(reports))
	for i, r := range s.order {
		s.index[r.ID] = i
	}
}

// List returns a snapshot in insertion order, newest arrivals first.
// An empty status returns everything.
func (s *Store) List(status string) []models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Report, 0, len(s.order))
	for _, r := range s.order {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) Get(id uuid.UUID) (models.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Report{}, false
	}
	return s.order[i], true
}

// Upsert stores the report, replacing any existing value for the same id
// in place. The whole record wins; there is no field-by-field merge.
func (s *Store) Upsert(report models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[report.ID]; ok {
		s.order[i] = report
		return
	}
	s.index[report.ID] = len(s.order)
	s.order = append(s.order, report)
}

// Prepend inserts a newly arrived report at the front so operators see
// it immediately. An already known id degrades to an in-place replace.
func (s *Store) Prepend(report models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[report.ID]; ok {
		s.order[i] = report
		return
	}
	s.order = append([]models.Report{report}, s.order...)
	for i, r := range s.order {
		s.index[r.ID] = i
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
