package events

import (
	"encoding/json"
	"fmt"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Session lifecycle event types published on EventsChannel.
const (
	TypeSessionCreated = "session_created"
	TypeSessionClosed  = "session_closed"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// SessionPayload is the payload for session lifecycle events.
type SessionPayload struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason,omitempty"`
}

// SessionChannel is the channel carrying one session's presentation feed.
func SessionChannel(sessionID string) string {
	return fmt.Sprintf("channel:session:%s", sessionID)
}
