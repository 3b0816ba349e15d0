package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/pkg/proto"

	"github.com/gorilla/websocket"
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
	SetWriteDeadline(t time.Time) error
}

// writeWait bounds each write so a stalled browser cannot hold the session
// lock.
const writeWait = 5 * time.Second

// ClientPresenter renders a session on the attached browser connection.
// Calls made while no connection is attached are dropped; the client gets a
// full state message when it attaches.
type ClientPresenter struct {
	sessionID string
	conn      Connection
	ctx       context.Context
}

func (p *ClientPresenter) Render(cells [game.BoardSize]game.PlayerMark, highlight []int) {
	p.send(proto.RenderMessage(cells, highlight))
}

func (p *ClientPresenter) SetMessage(text string) {
	p.send(proto.TextMessage(text))
}

func (p *ClientPresenter) UpdateScoreboard(x, o game.Player) {
	p.send(proto.ScoreboardMessage(x, o))
}

func (p *ClientPresenter) ToggleButtons(gameStarted bool) {
	p.send(proto.ToggleMessage(gameStarted))
}

func (p *ClientPresenter) send(message *proto.ServerToClientMessage) {
	if p.conn == nil {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(p.ctx, "error marshalling message", "session.id", p.sessionID, "error", err)
		return
	}

	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		slog.WarnContext(p.ctx, "error setting write deadline",
			"session.id", p.sessionID, "error", err)
		return
	}
	if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.WarnContext(p.ctx, "error writing message to client",
			"session.id", p.sessionID, "message.type", message.Type, "error", err)
	}
}
