package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType
	d.Subscribe(EventCallLogged, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventCallLogged}))
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventLoggedOut}))
	assert.Equal(t, []EventType{EventCallLogged}, got)
}

func TestDispatcherRunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	first := errors.New("first")
	calls := 0
	d.Subscribe(EventEmployeeDeleted, func(context.Context, Event) error {
		calls++
		return first
	})
	d.Subscribe(EventEmployeeDeleted, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventEmployeeDeleted})
	assert.ErrorIs(t, err, first)
	assert.Equal(t, 2, calls)
}
