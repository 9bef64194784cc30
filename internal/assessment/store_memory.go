package assessment

import (
	"context"
	"sort"
	"strings"
	"sync"

	id "filingcontrol/pkg/domain"
	"filingcontrol/pkg/platform/sentinel"
)

// In-memory stores for unit tests and local development. They mirror the
// postgres semantics exactly, including sentinel.ErrNotFound for misses.

type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[id.UserID]*User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[id.UserID]*User)}
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) Save(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

type InMemoryEntityStore struct {
	mu       sync.RWMutex
	entities map[id.EntityID]*Entity
}

func NewInMemoryEntityStore() *InMemoryEntityStore {
	return &InMemoryEntityStore{entities: make(map[id.EntityID]*Entity)}
}

func (s *InMemoryEntityStore) Save(_ context.Context, entity *Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *entity
	s.entities[entity.ID] = &copied
	return nil
}

func (s *InMemoryEntityStore) FindByID(_ context.Context, entityID id.EntityID) (*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.entities[entityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *entity
	return &copied, nil
}

func (s *InMemoryEntityStore) ListByUser(_ context.Context, userID id.UserID) ([]*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Entity
	for _, e := range s.entities {
		if e.UserID == userID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryEntityStore) ListAll(_ context.Context) ([]*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		copied := *e
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type InMemoryAssessmentStore struct {
	mu          sync.RWMutex
	assessments map[id.AssessmentID]*Assessment
}

func NewInMemoryAssessmentStore() *InMemoryAssessmentStore {
	return &InMemoryAssessmentStore{assessments: make(map[id.AssessmentID]*Assessment)}
}

func (s *InMemoryAssessmentStore) Save(_ context.Context, a *Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *a
	s.assessments[a.ID] = &copied
	return nil
}

func (s *InMemoryAssessmentStore) ListByUser(_ context.Context, userID id.UserID) ([]*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Assessment
	for _, a := range s.assessments {
		if a.UserID == userID {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryAssessmentStore) LatestByUser(ctx context.Context, userID id.UserID) (*Assessment, error) {
	all, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return all[0], nil
}
