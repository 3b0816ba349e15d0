package game

import "fmt"

// Status is the lifecycle state of a Controller.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusTied       Status = "tied"
)

// Outcome describes what a single PlayRound call did.
type Outcome string

const (
	OutcomeRejected  Outcome = "rejected"
	OutcomeContinued Outcome = "continued"
	OutcomeWon       Outcome = "won"
	OutcomeTied      Outcome = "tied"
)

const tieMessage = "It's a tie!"

// GameState is a read-only snapshot of a Controller.
type GameState struct {
	Status       Status                `json:"status"`
	Cells        [BoardSize]PlayerMark `json:"cells"`
	Current      *Player               `json:"current,omitempty"`
	PlayerX      *Player               `json:"player_x,omitempty"`
	PlayerO      *Player               `json:"player_o,omitempty"`
	GameOver     bool                  `json:"game_over"`
	WinningCombo []int                 `json:"winning_combo,omitempty"`
}

// Controller owns the board, both players and the turn. It is not safe for
// concurrent use; callers serialise access.
type Controller struct {
	board        *Board
	presenter    Presenter
	playerX      *Player
	playerO      *Player
	current      *Player
	status       Status
	winningCombo []int
}

// NewController creates a controller that reports to presenter.
func NewController(presenter Presenter) *Controller {
	return &Controller{
		board:     NewBoard(),
		presenter: presenter,
		status:    StatusNotStarted,
	}
}

// StartGame seats two new players with zero scores and begins a game.
func (c *Controller) StartGame(name1, name2 string) {
	c.playerX = NewPlayer(name1, PlayerX, defaultNameX)
	c.playerO = NewPlayer(name2, PlayerO, defaultNameO)
	c.NewGame()
}

// NewGame clears the board for a rematch between the seated players.
func (c *Controller) NewGame() {
	if c.playerX == nil {
		return
	}

	c.board.Reset()
	c.current = c.playerX
	c.status = StatusInProgress
	c.winningCombo = nil

	c.presenter.UpdateScoreboard(*c.playerX, *c.playerO)
	c.presenter.Render(c.board.Cells(), nil)
	c.presenter.SetMessage(turnMessage(c.current))
}

// ResetScores zeroes both scores. The board and turn are left alone.
func (c *Controller) ResetScores() {
	if c.playerX != nil {
		c.playerX.ResetScore()
	}
	if c.playerO != nil {
		c.playerO.ResetScore()
	}
}

// PlayRound places the current player's mark at index. Moves on a finished
// game, an occupied cell or an out-of-range index are ignored.
func (c *Controller) PlayRound(index int) Outcome {
	if c.status != StatusInProgress {
		return OutcomeRejected
	}

	if !c.board.PlaceMark(index, c.current.Mark) {
		return OutcomeRejected
	}

	cells := c.board.Cells()

	if combo, ok := FindWin(cells, c.current.Mark); ok {
		c.status = StatusWon
		c.winningCombo = combo[:]
		c.current.AddPoint()
		c.presenter.UpdateScoreboard(*c.playerX, *c.playerO)
		c.presenter.Render(cells, c.WinningCombo())
		c.presenter.SetMessage(fmt.Sprintf("%s wins!", c.current.Name))
		return OutcomeWon
	}

	if IsBoardFull(cells) {
		c.status = StatusTied
		c.presenter.Render(cells, nil)
		c.presenter.SetMessage(tieMessage)
		return OutcomeTied
	}

	c.switchPlayer()
	c.presenter.Render(cells, nil)
	c.presenter.SetMessage(turnMessage(c.current))
	return OutcomeContinued
}

// GameOver reports whether the current game has been won or tied.
func (c *Controller) GameOver() bool {
	return c.status == StatusWon || c.status == StatusTied
}

// WinningCombo returns a copy of the completed line, or nil.
func (c *Controller) WinningCombo() []int {
	if c.winningCombo == nil {
		return nil
	}
	combo := make([]int, len(c.winningCombo))
	copy(combo, c.winningCombo)
	return combo
}

// State returns a snapshot that shares nothing with the controller.
func (c *Controller) State() GameState {
	state := GameState{
		Status:       c.status,
		Cells:        c.board.Cells(),
		GameOver:     c.GameOver(),
		WinningCombo: c.WinningCombo(),
	}
	if c.playerX != nil {
		x, o := *c.playerX, *c.playerO
		state.PlayerX = &x
		state.PlayerO = &o
	}
	if c.current != nil {
		cur := *c.current
		state.Current = &cur
	}
	return state
}

func (c *Controller) switchPlayer() {
	if c.current == c.playerX {
		c.current = c.playerO
	} else {
		c.current = c.playerX
	}
}

func turnMessage(p *Player) string {
	return fmt.Sprintf("%s's turn (%s)", p.Name, p.Mark)
}
