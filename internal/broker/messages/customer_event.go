package messages

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type CustomerEventType string

const (
	CustomerCreated CustomerEventType = "customer.created"
	CustomerUpdated CustomerEventType = "customer.updated"
	CustomerDeleted CustomerEventType = "customer.deleted"
)

// CustomerEvent is published on every successful write to a customer.
// It carries identifiers only, never contact or tracking data.
type CustomerEvent struct {
	EventID      string            `json:"event_id"`
	Type         CustomerEventType `json:"type"`
	CustomerID   int64             `json:"customer_id"`
	RedirectCode string            `json:"redirect_code,omitempty"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

func NewCustomerEvent(t CustomerEventType, customerID int64, redirectCode string, at time.Time) CustomerEvent {
	return CustomerEvent{
		EventID:      uuid.NewString(),
		Type:         t,
		CustomerID:   customerID,
		RedirectCode: redirectCode,
		OccurredAt:   at.UTC(),
	}
}

// Key partitions events by customer so one customer's events stay ordered.
func (e CustomerEvent) Key() []byte {
	return []byte(strconv.FormatInt(e.CustomerID, 10))
}
