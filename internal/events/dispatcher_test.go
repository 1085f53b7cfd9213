package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var got []Event
	dispatcher.Subscribe(EventTesterStageChanged, func(ctx context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	dispatcher.Subscribe(EventFeedbackReceived, func(ctx context.Context, e Event) error {
		t.Fatal("handler for another event type must not fire")
		return nil
	})

	event := Event{
		ID:        "evt-1",
		Type:      EventTesterStageChanged,
		TesterID:  42,
		Timestamp: time.Now(),
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, got, 1)
	assert.Equal(t, "evt-1", got[0].ID)
	assert.Equal(t, 42, got[0].TesterID)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var secondCalled bool
	dispatcher.Subscribe(EventIncidentOpened, func(ctx context.Context, e Event) error {
		return errors.New("handler failure")
	})
	dispatcher.Subscribe(EventIncidentOpened, func(ctx context.Context, e Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventIncidentOpened}))
	assert.True(t, secondCalled)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventDropoutDetected}))
}
