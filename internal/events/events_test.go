package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishJSON(t *testing.T) {
	bus := NewEventBus()

	var received []*Event
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		received = append(received, event)
		return nil
	})

	payload := BookingEventPayload{BookingID: 7, ItemID: 3, ItemName: "Drill", BookerID: 2, Status: "WAITING"}
	require.NoError(t, bus.PublishJSON(EventBookingCreated, payload))

	require.Len(t, received, 1)
	assert.Equal(t, EventBookingCreated, received[0].Type)
	assert.False(t, received[0].CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, json.Unmarshal(received[0].Payload, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestEventBus_SubscribersAreTypeScoped(t *testing.T) {
	bus := NewEventBus()

	created := 0
	approved := 0
	bus.Subscribe(EventBookingCreated, func(*Event) error { created++; return nil })
	bus.Subscribe(EventBookingApproved, func(*Event) error { approved++; return nil })

	require.NoError(t, bus.PublishJSON(EventBookingApproved, BookingEventPayload{BookingID: 1}))

	assert.Equal(t, 0, created)
	assert.Equal(t, 1, approved)
}

func TestEventBus_NilBusIsSafe(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, nil))
}

func TestEventBus_MultipleHandlersAllRun(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventCommentAdded, func(*Event) error { calls++; return nil })
	}

	require.NoError(t, bus.PublishJSON(EventCommentAdded, CommentEventPayload{CommentID: 1}))
	assert.Equal(t, 3, calls)
}
