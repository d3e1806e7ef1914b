package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("storefront.address.created", "addr-1", "address", "storefront", map[string]string{"email": "a@x.com"})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "storefront.address.created", event.EventType)
	assert.Equal(t, "addr-1", event.AggregateID)
	assert.Equal(t, "address", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, "storefront", event.Source)
	assert.False(t, event.Timestamp.IsZero())
	assert.Empty(t, event.CorrelationID)
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent("t", "a", "address", "storefront", make(chan int))
	assert.Error(t, err)
}

func TestEventRoundTrip(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	event, err := NewEvent("storefront.address.created", "addr-1", "address", "storefront", payload{Email: "a@x.com"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-9")

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, "corr-9", decoded.CorrelationID)

	var p payload
	require.NoError(t, decoded.UnmarshalData(&p))
	assert.Equal(t, "a@x.com", p.Email)
}
