package game

import "strings"

const (
	defaultNameX = "Player 1"
	defaultNameO = "Player 2"
)

// Player is one side of a session. Its score survives NewGame and is only
// cleared by ResetScore.
type Player struct {
	Name  string     `json:"name"`
	Mark  PlayerMark `json:"mark"`
	Score int        `json:"score"`
}

// NewPlayer creates a player with a zero score. A blank name falls back to
// fallback.
func NewPlayer(name string, mark PlayerMark, fallback string) *Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallback
	}
	return &Player{Name: name, Mark: mark}
}

// AddPoint records a win.
func (p *Player) AddPoint() {
	p.Score++
}

// ResetScore sets the score back to zero.
func (p *Player) ResetScore() {
	p.Score = 0
}
