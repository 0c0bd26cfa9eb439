package service

import (
	"context"
	"errors"
	"strings"

	"eventhub/internal/domain"
	"eventhub/internal/repository"
)

var (
	// ErrEventNotFound indicates no event matches the given id.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventAlreadyExists is returned when an event name collides with an existing one.
	ErrEventAlreadyExists = errors.New("event already exists")
	// ErrAlreadyRegistered indicates the user is already on the participant list.
	ErrAlreadyRegistered = errors.New("user already registered for this event")
)

// EventService coordinates event CRUD and participant registration.
type EventService interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	Update(ctx context.Context, id string, event *domain.Event) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	RegisterParticipant(ctx context.Context, eventID, userID string) (*domain.Event, error)
}

type eventService struct {
	events repository.EventRepository
}

func NewEventService(events repository.EventRepository) EventService {
	return &eventService{events: events}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if _, err := s.events.Create(ctx, event); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEventAlreadyExists
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// Update replaces every event field under the given id.
func (s *eventService) Update(ctx context.Context, id string, event *domain.Event) (*domain.Event, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	updated, err := s.events.Replace(ctx, id, event)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEventAlreadyExists
		}
		return nil, err
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

// RegisterParticipant appends userID to the event's participant list. The
// duplicate check and the append happen in one conditional store update, so
// concurrent registrations for the same event cannot lose writes. Registering
// twice is rejected, not silently absorbed.
func (s *eventService) RegisterParticipant(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingFields
	}

	event, err := s.events.AddParticipant(ctx, eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, repository.ErrDuplicateParticipant):
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return event, nil
}

func validateEvent(event *domain.Event) error {
	if strings.TrimSpace(event.Name) == "" || strings.TrimSpace(event.Description) == "" {
		return ErrMissingFields
	}
	return nil
}
