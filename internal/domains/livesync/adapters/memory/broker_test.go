package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-menu-builder/internal/domains/livesync/domain"
)

func TestBroker_DeliversToOperatorSubscribers(t *testing.T) {
	broker := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine, err := broker.Subscribe(ctx, "op")
	require.NoError(t, err)
	theirs, err := broker.Subscribe(ctx, "other")
	require.NoError(t, err)

	event, err := domain.NewEvent(domain.TableMenuItems, domain.EventInsert, "op", nil)
	require.NoError(t, err)
	require.NoError(t, broker.Publish(ctx, event))

	assert.Equal(t, event, <-mine)
	select {
	case <-theirs:
		t.Fatal("event leaked to another operator")
	default:
	}
}

func TestBroker_ClosesOnCancel(t *testing.T) {
	broker := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	events, err := broker.Subscribe(ctx, "op")
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestBroker_DisconnectClosesSubscriptions(t *testing.T) {
	broker := NewBroker()
	events, err := broker.Subscribe(context.Background(), "op")
	require.NoError(t, err)

	broker.Disconnect()
	_, ok := <-events
	assert.False(t, ok)
}

func TestBroker_RejectsInvalidEvents(t *testing.T) {
	broker := NewBroker()
	err := broker.Publish(context.Background(), domain.Event{Table: "orders", Type: domain.EventInsert, OperatorID: "op"})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
}
