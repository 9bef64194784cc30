package compliance

import (
	"context"
	"sort"
	"sync"

	id "filingcontrol/pkg/domain"
	"filingcontrol/pkg/platform/sentinel"
)

// InMemoryStateStore is a thread-safe in-memory StateStore for tests and
// local development.
type InMemoryStateStore struct {
	mu     sync.RWMutex
	states map[id.EntityID]map[string]*State
}

// NewInMemoryStateStore creates an empty in-memory state store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		states: make(map[id.EntityID]map[string]*State),
	}
}

// Upsert writes the row unless the current row is completed.
func (s *InMemoryStateStore) Upsert(_ context.Context, state *State) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.states[state.EntityID]
	if !ok {
		rows = make(map[string]*State)
		s.states[state.EntityID] = rows
	}
	if existing, ok := rows[state.ObligationKey]; ok && existing.Status == StatusCompleted {
		return false, nil
	}

	cp := *state
	rows[state.ObligationKey] = &cp
	return true, nil
}

// Get returns a copy of the row for an obligation.
func (s *InMemoryStateStore) Get(_ context.Context, entityID id.EntityID, obligationKey string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.states[entityID][obligationKey]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

// ListByEntity returns copies of all rows for an entity ordered by urgency,
// then due date, then obligation key for determinism.
func (s *InMemoryStateStore) ListByEntity(_ context.Context, entityID id.EntityID) ([]*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.states[entityID]
	out := make([]*State, 0, len(rows))
	for _, row := range rows {
		cp := *row
		out = append(out, &cp)
	}

	SortStates(out)
	return out, nil
}

// MarkCompleted flips a row to completed.
func (s *InMemoryStateStore) MarkCompleted(_ context.Context, entityID id.EntityID, obligationKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.states[entityID][obligationKey]
	if !ok {
		return sentinel.ErrNotFound
	}
	row.Status = StatusCompleted
	return nil
}

// SortStates orders rows by urgency (overdue, due_soon, upcoming, completed),
// then due date, then obligation key.
func SortStates(states []*State) {
	sort.SliceStable(states, func(i, j int) bool {
		a, b := states[i], states[j]
		if ra, rb := statusRank(a.Status), statusRank(b.Status); ra != rb {
			return ra < rb
		}
		if a.DueDate != b.DueDate {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ObligationKey < b.ObligationKey
	})
}
