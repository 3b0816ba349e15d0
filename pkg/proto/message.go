package proto

import "ctchen222/tictactoe-hotseat/internal/game"

// Client message types.
const (
	TypeStart       = "start"
	TypeMove        = "move"
	TypeNewGame     = "new_game"
	TypeResetScores = "reset_scores"
)

// Server message types. The first four mirror the game.Presenter methods.
const (
	TypeRender     = "render"
	TypeMessage    = "message"
	TypeScoreboard = "scoreboard"
	TypeToggle     = "toggle"
	TypeState      = "state"
	TypeClosed     = "closed"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type  string   `json:"type" validate:"required,oneof=start move new_game reset_scores"`
	Names []string `json:"names,omitempty" validate:"max=2,dive,max=32,playername"`
	Index *int     `json:"index,omitempty" validate:"required_if=Type move"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type        string            `json:"type" validate:"required"`
	Cells       []game.PlayerMark `json:"cells,omitempty"`
	Highlight   []int             `json:"highlight,omitempty"`
	Text        string            `json:"text,omitempty"`
	PlayerX     *game.Player      `json:"player_x,omitempty"`
	PlayerO     *game.Player      `json:"player_o,omitempty"`
	GameStarted *bool             `json:"game_started,omitempty"`
	State       *game.GameState   `json:"state,omitempty"`
}

// RenderMessage builds the message for Presenter.Render.
func RenderMessage(cells [game.BoardSize]game.PlayerMark, highlight []int) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeRender, Cells: cells[:], Highlight: highlight}
}

// TextMessage builds the message for Presenter.SetMessage.
func TextMessage(text string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeMessage, Text: text}
}

// ScoreboardMessage builds the message for Presenter.UpdateScoreboard.
func ScoreboardMessage(x, o game.Player) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeScoreboard, PlayerX: &x, PlayerO: &o}
}

// ToggleMessage builds the message for Presenter.ToggleButtons.
func ToggleMessage(gameStarted bool) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeToggle, GameStarted: &gameStarted}
}

// StateMessage wraps a full snapshot, sent when a client (re)attaches.
func StateMessage(state game.GameState) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeState, State: &state}
}

// ClosedMessage tells spectators the session has ended.
func ClosedMessage(reason string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeClosed, Text: reason}
}
