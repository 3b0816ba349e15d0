package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ctchen222/tictactoe-hotseat/internal/api/controller"
	"ctchen222/tictactoe-hotseat/internal/api/response"
	"ctchen222/tictactoe-hotseat/internal/api/service"
	"ctchen222/tictactoe-hotseat/internal/session"
	"ctchen222/tictactoe-hotseat/pkg/proto"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Spectators opens the presentation feed of a session.
// *events.Publisher implements it.
type Spectators interface {
	Subscribe(ctx context.Context, sessionID string) (*redis.PubSub, error)
}

const writeWait = 5 * time.Second

type Server struct {
	engine     *gin.Engine
	sessions   controller.SessionStore
	tokens     service.TokenService
	spectators Spectators
	upgrader   websocket.Upgrader
}

// NewServer wires the HTTP API and the websocket endpoints. spectators may
// be nil, in which case spectating answers 503.
func NewServer(sessions controller.SessionStore, tokens service.TokenService, spectators Spectators) *Server {
	s := &Server{
		engine:     gin.New(),
		sessions:   sessions,
		tokens:     tokens,
		spectators: spectators,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.registerHandlers(controller.NewSessionController(sessions, tokens))
	return s
}

// Engine returns the gin engine to serve.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHandlers(sc *controller.SessionController) {
	s.engine.Use(gin.Recovery())

	s.engine.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	api.POST("/sessions", sc.Create)
	api.GET("/sessions/:id", sc.Get)
	api.DELETE("/sessions/:id", sc.Delete)

	s.engine.GET("/ws", s.handlePlayerSocket)
	s.engine.GET("/ws/spectate/:id", s.handleSpectatorSocket)
}

// handlePlayerSocket attaches the browser holding a session token to that
// session and pumps its messages until it disconnects.
func (s *Server) handlePlayerSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handlePlayerSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
	))
	defer span.End()

	sessionID, err := s.tokens.Verify(c.Query("token"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid session token")
		response.ErrorResponse(c, http.StatusUnauthorized, service.ErrInvalidToken.Error())
		return
	}
	span.SetAttributes(attribute.String("session.id", sessionID))

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		span.SetStatus(codes.Error, "Session not found")
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to upgrade connection", "session.id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	if err := sess.Attach(ctx, conn); err != nil {
		if errors.Is(err, session.ErrSessionBusy) {
			closeSocket(conn, websocket.ClosePolicyViolation, err.Error())
		}
		_ = conn.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to attach client")
		return
	}

	slog.InfoContext(ctx, "client attached", "session.id", sessionID)
	sess.ReadPump(ctx, conn)
}

// handleSpectatorSocket relays a session's presentation feed read-only,
// starting with a snapshot, until the session closes or the spectator leaves.
func (s *Server) handleSpectatorSocket(c *gin.Context) {
	id := c.Param("id")
	ctx, span := tracer.Start(c.Request.Context(), "server.handleSpectatorSocket", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	if s.spectators == nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, "spectating is disabled")
		return
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to upgrade spectator connection", "session.id", id, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pubsub, err := s.spectators.Subscribe(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "failed to subscribe spectator", "session.id", id, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to subscribe")
		closeSocket(conn, websocket.CloseInternalServerErr, "feed unavailable")
		return
	}
	defer pubsub.Close()

	// The snapshot goes out after the subscription is live, so no move made
	// in between is missed.
	snapshot, err := json.Marshal(proto.StateMessage(sess.State()))
	if err != nil {
		span.RecordError(err)
		return
	}
	if err := writeText(conn, snapshot); err != nil {
		slog.InfoContext(ctx, "spectator disconnected", "session.id", id, "error", err)
		return
	}

	// Spectators never send; reading only detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if isClosedMessage(msg.Payload) {
				slog.InfoContext(ctx, "session closed, releasing spectator", "session.id", id)
				closeSocket(conn, websocket.CloseNormalClosure, "session closed")
				return
			}
			if err := writeText(conn, []byte(msg.Payload)); err != nil {
				slog.InfoContext(ctx, "spectator disconnected", "session.id", id, "error", err)
				return
			}
		}
	}
}

func writeText(conn *websocket.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func closeSocket(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}

func isClosedMessage(payload string) bool {
	var message struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(payload), &message); err != nil {
		return false
	}
	return message.Type == proto.TypeClosed
}
