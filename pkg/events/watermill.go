// Package events is the Postgres-backed event bus used for cart domain events.
//
// Events are written through watermill-sql. In outbox mode a publish made
// inside a business transaction lands in the forwarder queue and only becomes
// visible to subscribers after the transaction commits and the forwarder
// relays it. Subscribers in the same consumer group share the load; each
// message is handled by one instance.
//
// Handlers must be idempotent: a failing handler is retried with exponential
// backoff and then Nacked, which makes watermill redeliver it.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/yoursneaker/storefront/pkg/logger"
)

// Metadata keys set on every published event.
const (
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
)

const (
	forwarderQueue  = "_cart_outbox"
	closeTimeout    = 30 * time.Second
	errChanCapacity = 100
)

// Handler processes one delivered message. Returning an error triggers a retry.
type Handler func(ctx context.Context, msg *message.Message) error

// BusConfig selects the delivery mode and the consumer group of a Bus.
type BusConfig struct {
	// ConsumerGroup is shared by all instances of one process kind.
	ConsumerGroup string
	// Outbox routes publishes through the forwarder queue. RunForwarder must
	// be running in at least one process for events to reach subscribers.
	Outbox bool
	// Topics are created up front. Transactional publishers cannot create
	// tables, so every topic written with PublishInTx must be listed.
	Topics []string
	// Attempts and BaseDelay control handler retries. Zero values mean 3 and 1s.
	Attempts  int
	BaseDelay time.Duration
}

// Bus publishes and subscribes cart events over a shared *sql.DB.
// The Bus does not own the database handle; closing it leaves db open.
type Bus struct {
	cfg        BusConfig
	db         *sql.DB
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
	wlog       watermill.LoggerAdapter
	log        logger.Logger
	wg         sync.WaitGroup
}

// NewBus creates the publisher and subscriber. Watermill creates its topic
// and offset tables on first use.
func NewBus(db *sql.DB, cfg BusConfig, log logger.Logger) (*Bus, error) {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	wlog := &watermillLogger{log: log}

	pub, err := newSQLPublisher(db, true, wlog)
	if err != nil {
		return nil, err
	}

	sub, err := newSQLSubscriber(db, cfg.ConsumerGroup, wlog)
	if err != nil {
		_ = pub.Close()
		return nil, err
	}

	topics := cfg.Topics
	if cfg.Outbox {
		topics = append([]string{forwarderQueue}, topics...)
	}
	for _, topic := range topics {
		if err := sub.SubscribeInitialize(topic); err != nil {
			_ = sub.Close()
			_ = pub.Close()
			return nil, fmt.Errorf("events: initialize topic %s: %w", topic, err)
		}
	}

	return &Bus{
		cfg:        cfg,
		db:         db,
		publisher:  wrapOutbox(pub, cfg.Outbox),
		subscriber: sub,
		wlog:       wlog,
		log:        log,
	}, nil
}

// RunForwarder starts relaying the outbox queue to the real topics and
// returns once the relay is running. It stops when ctx is cancelled or the
// bus is closed.
func (b *Bus) RunForwarder(ctx context.Context) error {
	if !b.cfg.Outbox {
		return errors.New("events: forwarder requires an outbox bus")
	}
	if b.fwd != nil {
		return errors.New("events: forwarder already running")
	}

	queueSub, err := newSQLSubscriber(b.db, "cart-outbox-forwarder", b.wlog)
	if err != nil {
		return err
	}
	targetPub, err := newSQLPublisher(b.db, true, b.wlog)
	if err != nil {
		_ = queueSub.Close()
		return err
	}

	fwd, err := forwarder.NewForwarder(queueSub, targetPub, b.wlog, forwarder.Config{
		ForwarderTopic: forwarderQueue,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = queueSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running", "queue", forwarderQueue)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// PublishInTx writes payload as JSON to topic within tx, so the event is
// stored if and only if the surrounding transaction commits.
func (b *Bus) PublishInTx(ctx context.Context, tx *sql.Tx, topic, eventID string, version int, payload any) error {
	msg, err := NewMessage(ctx, eventID, version, payload)
	if err != nil {
		return err
	}

	pub, err := newSQLPublisher(tx, false, b.wlog)
	if err != nil {
		return err
	}
	if err := wrapOutbox(pub, b.cfg.Outbox).Publish(topic, msg); err != nil {
		return fmt.Errorf("events: publish %s in tx: %w", topic, err)
	}
	return nil
}

// Publish sends messages to topic outside any transaction.
func (b *Bus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe delivers messages from topic to handler until ctx is cancelled
// or the bus is closed. Each handler call runs in the publisher's trace.
//
// Failures that exhaust the retries are sent on the returned channel, which
// the caller must drain:
//
//	errs, err := bus.Subscribe(ctx, topic, handle)
//	go func() { for err := range errs { log.ErrorContext(ctx, "handler failed", "error", err) } }()
func (b *Bus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	msgs, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe %s: %w", topic, err)
	}

	errs := make(chan error, errChanCapacity)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errs)

		for msg := range msgs {
			msgCtx := extractTrace(ctx, msg)
			if err := handleWithRetry(msgCtx, msg, handler, b.cfg.Attempts, b.cfg.BaseDelay, b.log); err != nil {
				msg.Nack()
				select {
				case errs <- fmt.Errorf("%s: %w", topic, err):
				default:
					b.log.ErrorContext(msgCtx, "events: error channel full", "topic", topic, "error", err)
				}
				continue
			}
			msg.Ack()
		}
	}()

	return errs, nil
}

// Ping reports whether the bus database is reachable.
func (b *Bus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping: %w", err)
	}
	return nil
}

// Close stops subscriptions and the forwarder, then waits for in-flight
// handlers before closing the publisher.
func (b *Bus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(closeTimeout):
		b.log.Error("events: in-flight handlers did not finish before close timeout")
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}

// NewMessage encodes payload as JSON and stamps event metadata and the trace
// carried by ctx.
func NewMessage(ctx context.Context, eventID string, version int, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetadataEventID, eventID)
	msg.Metadata.Set(MetadataEventVersion, fmt.Sprint(version))
	injectTrace(ctx, msg)
	return msg, nil
}

// Decode unmarshals a message payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("events: decode message %s: %w", msg.UUID, err)
	}
	return v, nil
}

func newSQLPublisher(db watermillsql.ContextExecutor, initSchema bool, wlog watermill.LoggerAdapter) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func newSQLSubscriber(db *sql.DB, group string, wlog watermill.LoggerAdapter) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber %q: %w", group, err)
	}
	return sub, nil
}

func wrapOutbox(pub message.Publisher, outbox bool) message.Publisher {
	if !outbox {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderQueue})
}

func injectTrace(ctx context.Context, msg *message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		msg.Metadata.Set(k, v)
	}
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
}

// handleWithRetry runs handler up to attempts times, doubling the delay
// between attempts. It returns the last error once attempts are exhausted.
func handleWithRetry(
	ctx context.Context,
	msg *message.Message,
	handler Handler,
	attempts int,
	delay time.Duration,
	log logger.Logger,
) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed",
			"message_id", msg.UUID,
			"attempt", attempt,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
}

// watermillLogger routes watermill's logging into logger.Logger.
type watermillLogger struct{ log logger.Logger }

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.log.Error(msg, append(fieldArgs(fields), "error", err)...)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.log.Info(msg, fieldArgs(fields)...)
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, fieldArgs(fields)...)
}

func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, fieldArgs(fields)...)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{log: l.log.With(fieldArgs(fields)...)}
}

func fieldArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
