package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ctchen222/tictactoe-hotseat/internal/api/models"
	"ctchen222/tictactoe-hotseat/internal/api/response"
	"ctchen222/tictactoe-hotseat/internal/api/service"
	"ctchen222/tictactoe-hotseat/internal/hub"
	"ctchen222/tictactoe-hotseat/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionStore is the part of the hub the HTTP API needs.
type SessionStore interface {
	Create(ctx context.Context) *session.Session
	Get(id string) (*session.Session, error)
	Remove(ctx context.Context, id string) error
}

// SessionController handles session-related HTTP requests.
type SessionController struct {
	sessions SessionStore
	tokens   service.TokenService
}

// NewSessionController creates a new SessionController.
func NewSessionController(sessions SessionStore, tokens service.TokenService) *SessionController {
	return &SessionController{
		sessions: sessions,
		tokens:   tokens,
	}
}

// Create opens a new game session and hands back its token.
func (sc *SessionController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	s := sc.sessions.Create(ctx)

	token, err := sc.tokens.Issue(s.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue session token", "session.id", s.ID, "error", err)
		_ = sc.sessions.Remove(ctx, s.ID)
		response.ErrorResponse(c, http.StatusInternalServerError, "could not issue session token")
		return
	}

	response.CreatedResponse(c, models.CreateSessionResponse{SessionID: s.ID, Token: token})
}

// Get returns the state snapshot of a session.
func (sc *SessionController) Get(c *gin.Context) {
	id := c.Param("id")
	s, err := sc.sessions.Get(id)
	if err != nil {
		sc.handleLookupError(c, err)
		return
	}

	response.SuccessResponse(c, models.SessionStateResponse{SessionID: id, State: s.State()})
}

// Delete ends a session. The bearer token must belong to that session.
func (sc *SessionController) Delete(c *gin.Context) {
	id := c.Param("id")

	sessionID, err := sc.tokens.Verify(bearerToken(c))
	if err != nil || sessionID != id {
		response.ErrorResponse(c, http.StatusUnauthorized, service.ErrInvalidToken.Error())
		return
	}

	if err := sc.sessions.Remove(c.Request.Context(), id); err != nil {
		sc.handleLookupError(c, err)
		return
	}

	response.SuccessResponse(c, gin.H{"message": "Session closed"})
}

func (sc *SessionController) handleLookupError(c *gin.Context, err error) {
	if errors.Is(err, hub.ErrSessionNotFound) {
		response.ErrorResponse(c, http.StatusNotFound, err.Error())
		return
	}
	response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
