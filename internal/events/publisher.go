package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/pkg/proto"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	publishTimeout = 500 * time.Millisecond
	queueSize      = 256
)

var tracer = otel.Tracer("events")

// ErrPublisherClosed is returned once Close has been called.
var ErrPublisherClosed = errors.New("publisher closed")

type outbound struct {
	sessionID string
	message   *proto.ServerToClientMessage
}

// Publisher fans session presentation calls and lifecycle events out over
// Redis Pub/Sub so spectators on any server instance can follow a game.
// Feed messages are queued and sent by a single worker, so callers never
// wait on Redis and each session's messages keep their order.
type Publisher struct {
	rdb *redis.Client

	mu     sync.RWMutex
	closed bool
	queue  chan outbound
	done   chan struct{}
}

// NewPublisher creates a new Redis-backed Publisher and starts its worker.
// Callers must Close it.
func NewPublisher(rdb *redis.Client) *Publisher {
	p := &Publisher{
		rdb:   rdb,
		queue: make(chan outbound, queueSize),
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Close stops accepting feed messages and waits for the queue to drain.
func (p *Publisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}

// PublishEvent publishes a lifecycle event on EventsChannel.
func (p *Publisher) PublishEvent(ctx context.Context, eventType string, payload any) error {
	ctx, span := tracer.Start(ctx, "Publisher.PublishEvent", trace.WithAttributes(
		attribute.String("event.type", eventType),
	))
	defer span.End()

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	event, err := json.Marshal(Event{Type: eventType, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, EventsChannel, event).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish event")
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// Subscribe opens the presentation feed of a session and waits until Redis
// confirms the subscription. Callers close the returned PubSub.
func (p *Publisher) Subscribe(ctx context.Context, sessionID string) (*redis.PubSub, error) {
	pubsub := p.rdb.Subscribe(ctx, SessionChannel(sessionID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to session %s: %w", sessionID, err)
	}
	return pubsub, nil
}

// CloseSession queues the final message of a session's feed. Unlike
// presentation calls it is never dropped; it waits for queue room until ctx
// is done.
func (p *Publisher) CloseSession(ctx context.Context, sessionID, reason string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.queue <- outbound{sessionID: sessionID, message: proto.ClosedMessage(reason)}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to queue close of session %s: %w", sessionID, ctx.Err())
	}
}

// ForSession returns a game.Presenter that publishes to the session's feed.
func (p *Publisher) ForSession(sessionID string) game.Presenter {
	return &sessionFeed{publisher: p, sessionID: sessionID}
}

func (p *Publisher) enqueue(sessionID string, message *proto.ServerToClientMessage) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}

	select {
	case p.queue <- outbound{sessionID: sessionID, message: message}:
	default:
		slog.Warn("feed queue full, dropping message", "session.id", sessionID, "message.type", message.Type)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for out := range p.queue {
		p.publish(out.sessionID, out.message)
	}
}

func (p *Publisher) publish(sessionID string, message *proto.ServerToClientMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "Publisher.publish", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("message.type", message.Type),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling feed message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	if err := p.rdb.Publish(ctx, SessionChannel(sessionID), data).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to publish feed message", "session.id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish feed message")
	}
}

// sessionFeed adapts Publisher to game.Presenter for a single session.
type sessionFeed struct {
	publisher *Publisher
	sessionID string
}

func (f *sessionFeed) Render(cells [game.BoardSize]game.PlayerMark, highlight []int) {
	f.publisher.enqueue(f.sessionID, proto.RenderMessage(cells, highlight))
}

func (f *sessionFeed) SetMessage(text string) {
	f.publisher.enqueue(f.sessionID, proto.TextMessage(text))
}

func (f *sessionFeed) UpdateScoreboard(x, o game.Player) {
	f.publisher.enqueue(f.sessionID, proto.ScoreboardMessage(x, o))
}

func (f *sessionFeed) ToggleButtons(gameStarted bool) {
	f.publisher.enqueue(f.sessionID, proto.ToggleMessage(gameStarted))
}
