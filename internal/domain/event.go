package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a scheduled happening users can register for. Date is "YYYY-MM-DD"
// and Time is "HH:MM"; both are carried as opaque strings. Participants holds
// user identifiers in registration order, each at most once.
type Event struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description"`
	Date         string             `bson:"date"`
	Time         string             `bson:"time"`
	Participants []string           `bson:"participants"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}
