package hub

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictactoe-hotseat/internal/events"
	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/internal/session"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

// ErrSessionNotFound is returned for unknown or already removed sessions.
var ErrSessionNotFound = errors.New("session not found")

// Feed publishes session presentation calls and lifecycle events to
// spectators. *events.Publisher implements it.
type Feed interface {
	ForSession(sessionID string) game.Presenter
	PublishEvent(ctx context.Context, eventType string, payload any) error
	CloseSession(ctx context.Context, sessionID, reason string) error
}

// Hub manages all live sessions on this server.
type Hub struct {
	mu          sync.RWMutex
	sessions    map[string]*session.Session
	feed        Feed
	idleTimeout time.Duration
	now         func() time.Time
}

// NewHub creates a new hub. feed may be nil when spectating is disabled.
func NewHub(feed Feed, idleTimeout time.Duration) *Hub {
	return &Hub{
		sessions:    make(map[string]*session.Session),
		feed:        feed,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create registers a new session under a fresh id.
func (h *Hub) Create(ctx context.Context) *session.Session {
	id := uuid.New().String()
	ctx, span := tracer.Start(ctx, "hub.Create", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	var feed game.Presenter
	if h.feed != nil {
		feed = h.feed.ForSession(id)
	}
	s := session.New(id, feed)

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	h.publish(ctx, events.TypeSessionCreated, events.SessionPayload{SessionID: id})
	slog.InfoContext(ctx, "session created", "session.id", id)
	return s
}

// Get looks up a session.
func (h *Hub) Get(id string) (*session.Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove ends a session and disconnects its client.
func (h *Hub) Remove(ctx context.Context, id string) error {
	return h.remove(ctx, id, "closed")
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) remove(ctx context.Context, id, reason string) error {
	ctx, span := tracer.Start(ctx, "hub.remove", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.String("session.close_reason", reason),
	))
	defer span.End()

	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return ErrSessionNotFound
	}

	s.Close()
	h.closeFeed(ctx, id, reason)
	h.publish(ctx, events.TypeSessionClosed, events.SessionPayload{SessionID: id, Reason: reason})
	slog.InfoContext(ctx, "session removed", "session.id", id, "reason", reason)
	return nil
}

func (h *Hub) publish(ctx context.Context, eventType string, payload events.SessionPayload) {
	if h.feed == nil {
		return
	}
	if err := h.feed.PublishEvent(ctx, eventType, payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish session event", "event.type", eventType, "session.id", payload.SessionID, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}

// closeFeed ends the session's presentation feed so spectators disconnect.
func (h *Hub) closeFeed(ctx context.Context, id, reason string) {
	if h.feed == nil {
		return
	}
	if err := h.feed.CloseSession(ctx, id, reason); err != nil {
		slog.ErrorContext(ctx, "failed to close session feed", "session.id", id, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}
