package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/internal/validator"
	"ctchen222/tictactoe-hotseat/pkg/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

// ErrSessionBusy is returned when a second client tries to attach.
var ErrSessionBusy = errors.New("session already has a connected client")

// Session is one hot-seat game: a Controller it owns exclusively plus the
// presenters watching it. All methods are safe for concurrent use.
type Session struct {
	ID string

	mu         sync.Mutex
	controller *game.Controller
	client     *ClientPresenter
	presenter  game.Presenter
	lastSeen   time.Time
	now        func() time.Time
}

// New creates a session. feed receives every presentation call alongside
// the attached client and may be nil.
func New(id string, feed game.Presenter) *Session {
	client := &ClientPresenter{sessionID: id, ctx: context.Background()}
	presenter := game.NewMultiPresenter(client, feed)

	s := &Session{
		ID:         id,
		controller: game.NewController(presenter),
		client:     client,
		presenter:  presenter,
		now:        time.Now,
	}
	s.lastSeen = s.now()
	return s
}

// Attach binds conn as the session's client and sends it the current state.
// Writes to the client log against ctx until it detaches.
func (s *Session) Attach(ctx context.Context, conn Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client.conn != nil {
		return ErrSessionBusy
	}
	s.client.conn = conn
	s.client.ctx = ctx
	s.touch()
	s.client.send(proto.StateMessage(s.controller.State()))
	return nil
}

// Detach releases conn if it is the attached client and closes it.
func (s *Session) Detach(conn Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client.conn == conn {
		s.client.conn = nil
		s.client.ctx = context.Background()
		s.touch()
	}
	_ = conn.Close()
}

// Close drops the attached client, if any.
func (s *Session) Close() {
	s.mu.Lock()
	conn := s.client.conn
	s.mu.Unlock()

	if conn != nil {
		s.Detach(conn)
	}
}

// Idle reports whether the session has no client and has not been used for
// longer than timeout.
func (s *Session) Idle(now time.Time, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.conn == nil && now.Sub(s.lastSeen) > timeout
}

// Start seats two players and shows the in-game controls.
func (s *Session) Start(ctx context.Context, name1, name2 string) {
	ctx, span := tracer.Start(ctx, "session.Start", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.controller.StartGame(name1, name2)
	s.presenter.ToggleButtons(true)

	instruments.gamesStarted.Add(ctx, 1)
	slog.InfoContext(ctx, "game started", "session.id", s.ID)
}

// NewGame starts a rematch between the seated players.
func (s *Session) NewGame(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "session.NewGame", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	before := s.controller.State().Status
	s.controller.NewGame()
	if before != game.StatusNotStarted {
		instruments.gamesStarted.Add(ctx, 1)
	}
}

// ResetScores zeroes both scores and returns the client to the pre-game
// controls.
func (s *Session) ResetScores(ctx context.Context) {
	_, span := tracer.Start(ctx, "session.ResetScores", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.controller.ResetScores()
	s.presenter.ToggleButtons(false)
}

// Play places the current player's mark at index.
func (s *Session) Play(ctx context.Context, index int) game.Outcome {
	ctx, span := tracer.Start(ctx, "session.Play", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("move.index", index),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	outcome := s.controller.PlayRound(index)
	span.SetAttributes(attribute.String("move.outcome", string(outcome)))

	switch outcome {
	case game.OutcomeRejected:
		slog.DebugContext(ctx, "move rejected", "session.id", s.ID, "move.index", index)
		return outcome
	case game.OutcomeWon, game.OutcomeTied:
		instruments.gamesFinished.Add(ctx, 1, metric.WithAttributes(attribute.String("result", string(outcome))))
		slog.InfoContext(ctx, "game finished", "session.id", s.ID, "result", outcome)
	}
	instruments.roundsPlayed.Add(ctx, 1)
	return outcome
}

// State returns a snapshot of the game.
func (s *Session) State() game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.State()
}

// Dispatch decodes, validates and routes one client message.
func (s *Session) Dispatch(ctx context.Context, raw []byte) error {
	ctx, span := tracer.Start(ctx, "session.Dispatch", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		return fmt.Errorf("unmarshal client message: %w", err)
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		return fmt.Errorf("invalid client message: %w", err)
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeStart:
		var name1, name2 string
		if len(message.Names) > 0 {
			name1 = message.Names[0]
		}
		if len(message.Names) > 1 {
			name2 = message.Names[1]
		}
		s.Start(ctx, name1, name2)
	case proto.TypeMove:
		s.Play(ctx, *message.Index)
	case proto.TypeNewGame:
		s.NewGame(ctx)
	case proto.TypeResetScores:
		s.ResetScores(ctx)
	}
	return nil
}

// ReadPump feeds messages from conn into the session until the connection
// fails, then detaches it.
func (s *Session) ReadPump(ctx context.Context, conn Connection) {
	defer s.Detach(conn)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			slog.InfoContext(ctx, "client connection closed", "session.id", s.ID, "error", err)
			return
		}
		if err := s.Dispatch(ctx, msg); err != nil {
			slog.WarnContext(ctx, "dropping client message", "session.id", s.ID, "error", err)
		}
	}
}

func (s *Session) touch() {
	s.lastSeen = s.now()
}
