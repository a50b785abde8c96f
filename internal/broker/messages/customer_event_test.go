package messages

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewCustomerEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3*3600))
	e := NewCustomerEvent(CustomerCreated, 42, "a1b2c3d4", at)

	_, err := uuid.Parse(e.EventID)
	require.NoError(t, err)
	require.Equal(t, []byte("42"), e.Key())
	require.Equal(t, time.UTC, e.OccurredAt.Location())

	b, err := json.Marshal(e)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"event_id": "`+e.EventID+`",
		"type": "customer.created",
		"customer_id": 42,
		"redirect_code": "a1b2c3d4",
		"occurred_at": "2025-03-01T09:00:00Z"
	}`, string(b))

	require.NotEqual(t, e.EventID, NewCustomerEvent(CustomerCreated, 42, "a1b2c3d4", at).EventID)
}
