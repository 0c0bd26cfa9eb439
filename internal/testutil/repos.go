// Package testutil provides in-memory repository fakes for package tests.
// The fakes honor the repository contracts, including the atomic
// check-and-append semantics of AddParticipant.
package testutil

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventhub/internal/domain"
	"eventhub/internal/repository"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by hex id
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*domain.User)}
}

func (f *UserRepo) Init(ctx context.Context) error { return nil }

func (f *UserRepo) Create(ctx context.Context, user *domain.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return "", repository.ErrDuplicate
		}
	}

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID.Hex()] = &clone
	return user.ID.Hex(), nil
}

func (f *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

type EventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{events: make(map[string]*domain.Event)}
}

func (f *EventRepo) Init(ctx context.Context) error { return nil }

func (f *EventRepo) Create(ctx context.Context, event *domain.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.events {
		if existing.Name == event.Name {
			return "", repository.ErrDuplicate
		}
	}

	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	if event.Participants == nil {
		event.Participants = []string{}
	}
	f.events[event.ID.Hex()] = cloneEvent(event)
	return event.ID.Hex(), nil
}

func (f *EventRepo) List(ctx context.Context) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, *cloneEvent(e))
	}
	return out, nil
}

func (f *EventRepo) Get(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneEvent(e), nil
}

func (f *EventRepo) Replace(ctx context.Context, id string, event *domain.Event) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	event.ID = existing.ID
	event.UpdatedAt = time.Now().UTC()
	if event.Participants == nil {
		event.Participants = []string{}
	}
	f.events[id] = cloneEvent(event)
	return cloneEvent(event), nil
}

func (f *EventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *EventRepo) AddParticipant(ctx context.Context, id, userID string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, p := range e.Participants {
		if p == userID {
			return nil, repository.ErrDuplicateParticipant
		}
	}
	e.Participants = append(e.Participants, userID)
	e.UpdatedAt = time.Now().UTC()
	return cloneEvent(e), nil
}

func cloneEvent(e *domain.Event) *domain.Event {
	clone := *e
	clone.Participants = append([]string(nil), e.Participants...)
	return &clone
}
