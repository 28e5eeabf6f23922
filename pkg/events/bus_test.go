package events_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoursneaker/storefront/pkg/database"
	"github.com/yoursneaker/storefront/pkg/database/databasetest"
	"github.com/yoursneaker/storefront/pkg/events"
	"github.com/yoursneaker/storefront/pkg/logger"
)

type cartTouched struct {
	CartID uuid.UUID `json:"cart_id"`
}

func uniqueTopic(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func newBus(t *testing.T, db *database.Database, outbox bool, topic string) *events.Bus {
	t.Helper()
	bus, err := events.NewBus(db.DB(), events.BusConfig{
		ConsumerGroup: "bus-test",
		Outbox:        outbox,
		Topics:        []string{topic},
		BaseDelay:     10 * time.Millisecond,
	}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })
	return bus
}

// deliveries subscribes to topic and forwards every decoded payload.
func deliveries(t *testing.T, ctx context.Context, bus *events.Bus, topic string) <-chan *message.Message {
	t.Helper()
	out := make(chan *message.Message, 10)
	errs, err := bus.Subscribe(ctx, topic, func(_ context.Context, msg *message.Message) error {
		out <- msg
		return nil
	})
	require.NoError(t, err)
	go func() {
		for range errs {
		}
	}()
	return out
}

func publishInTx(t *testing.T, db *database.Database, bus *events.Bus, topic string, cartID uuid.UUID, fail error) error {
	t.Helper()
	return db.WithTx(context.Background(), func(tx *sql.Tx) error {
		if err := bus.PublishInTx(context.Background(), tx, topic, uuid.NewString(), 1, cartTouched{CartID: cartID}); err != nil {
			return err
		}
		return fail
	})
}

func receive(t *testing.T, msgs <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-msgs:
		return msg
	case <-time.After(30 * time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestPublishInTx_DeliversOnlyCommitted(t *testing.T) {
	db := databasetest.Start(t)
	topic := uniqueTopic("cart_touched")
	bus := newBus(t, db, false, topic)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rolledBack, committed := uuid.New(), uuid.New()
	errAbort := errors.New("abort")
	require.ErrorIs(t, publishInTx(t, db, bus, topic, rolledBack, errAbort), errAbort)
	require.NoError(t, publishInTx(t, db, bus, topic, committed, nil))

	msg := receive(t, deliveries(t, ctx, bus, topic))

	got, err := events.Decode[cartTouched](msg)
	require.NoError(t, err)
	assert.Equal(t, committed, got.CartID)
	assert.Equal(t, "1", msg.Metadata.Get(events.MetadataEventVersion))
	assert.NotEmpty(t, msg.Metadata.Get(events.MetadataEventID))
}

func TestPublishInTx_OutboxRelaysThroughForwarder(t *testing.T) {
	db := databasetest.Start(t)
	topic := uniqueTopic("cart_touched_outbox")
	bus := newBus(t, db, true, topic)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, bus.RunForwarder(ctx))

	cartID := uuid.New()
	require.NoError(t, publishInTx(t, db, bus, topic, cartID, nil))

	msg := receive(t, deliveries(t, ctx, bus, topic))

	got, err := events.Decode[cartTouched](msg)
	require.NoError(t, err)
	assert.Equal(t, cartID, got.CartID)
}
