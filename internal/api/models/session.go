package models

import "ctchen222/tictactoe-hotseat/internal/game"

// CreateSessionResponse is returned by POST /api/sessions.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

// SessionStateResponse is returned by GET /api/sessions/:id.
type SessionStateResponse struct {
	SessionID string         `json:"session_id"`
	State     game.GameState `json:"state"`
}
