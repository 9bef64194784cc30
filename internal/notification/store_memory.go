package notification

import (
	"context"
	"sort"
	"sync"

	id "filingcontrol/pkg/domain"
	"filingcontrol/pkg/platform/sentinel"
)

// InMemoryStore is a thread-safe in-memory event store for tests and local
// development.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.EventID]*Event
	keys   map[string]struct{}
}

// NewInMemoryStore creates an empty in-memory event store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		events: make(map[id.EventID]*Event),
		keys:   make(map[string]struct{}),
	}
}

// Save inserts an event, rejecting duplicate event keys.
func (s *InMemoryStore) Save(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[event.EventKey]; exists {
		return sentinel.ErrConflict
	}

	cp := *event
	s.events[event.ID] = &cp
	s.keys[event.EventKey] = struct{}{}
	return nil
}

// FindByID returns a copy of one event.
func (s *InMemoryStore) FindByID(_ context.Context, eventID id.EventID) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[eventID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *event
	return &cp, nil
}

// ListByEntity returns copies of an entity's events, newest first.
func (s *InMemoryStore) ListByEntity(_ context.Context, entityID id.EntityID) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, event := range s.events {
		if event.EntityID == entityID {
			cp := *event
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].EventKey < out[j].EventKey
	})
	return out, nil
}

// ListPending returns up to limit undelivered events, oldest first.
func (s *InMemoryStore) ListPending(_ context.Context, limit int) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, event := range s.events {
		if event.Status == StatusPending {
			cp := *event
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].EventKey < out[j].EventKey
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateStatus transitions an event between statuses.
func (s *InMemoryStore) UpdateStatus(_ context.Context, eventID id.EventID, from, to Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[eventID]
	if !ok || event.Status != from {
		return sentinel.ErrNotFound
	}
	event.Status = to
	return nil
}
