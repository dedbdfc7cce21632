package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var created, deleted []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		created = append(created, e.TicketID)
		return nil
	})
	d.Subscribe(EventTicketDeleted, func(_ context.Context, e Event) error {
		deleted = append(deleted, e.TicketID)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t1"}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketUpdated, TicketID: "t2"}))

	assert.Equal(t, []string{"t1"}, created)
	assert.Empty(t, deleted)
}

func TestDispatcher_FailingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	calls := 0
	d.Subscribe(EventCommentAdded, func(context.Context, Event) error {
		calls++
		return errors.New("downstream unavailable")
	})
	d.Subscribe(EventCommentAdded, func(context.Context, Event) error {
		calls++
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventCommentAdded}))
	assert.Equal(t, 2, calls)
}
