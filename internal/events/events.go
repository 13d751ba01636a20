// Package events announces transaction changes to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ledger/internal/models"
)

// Action names the kind of change an Event describes.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// RoutingKey returns the topic routing key for the action.
func (a Action) RoutingKey() string {
	return "transaction." + string(a)
}

// Event is the message body published for every successful write.
// Transaction is nil for deletions.
type Event struct {
	ID            string              `json:"id"`
	Action        Action              `json:"action"`
	TransactionID string              `json:"transactionId"`
	Transaction   *models.Transaction `json:"transaction,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
}

// NewEvent stamps a change to the transaction with the given identifier.
func NewEvent(action Action, transactionID string, tx *models.Transaction) Event {
	return Event{
		ID:            uuid.New().String(),
		Action:        action,
		TransactionID: transactionID,
		Transaction:   tx,
		Timestamp:     time.Now().UTC(),
	}
}

// ToJSON encodes the event.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

// Publish drops event.
func (Nop) Publish(context.Context, Event) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }
