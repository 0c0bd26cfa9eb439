package repository

import (
	"context"

	"eventhub/internal/domain"
)

// EventRepository exposes persistence operations for Event aggregates.
//
// AddParticipant must apply the duplicate check and the append as one
// conditional update so that concurrent registrations on the same event
// cannot race each other or lose writes.
type EventRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, event *domain.Event) (string, error)
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	Replace(ctx context.Context, id string, event *domain.Event) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	AddParticipant(ctx context.Context, id, userID string) (*domain.Event, error)
}
