package game

//go:generate mockgen -destination=mocks/presenter.go -package=mocks ctchen222/tictactoe-hotseat/internal/game Presenter

// Presenter is the view side of a game. The Controller drives it after every
// state change; implementations must not call back into the Controller.
type Presenter interface {
	// Render draws the board. highlight is nil unless a line was completed.
	Render(cells [BoardSize]PlayerMark, highlight []int)
	SetMessage(text string)
	UpdateScoreboard(x, o Player)
	// ToggleButtons switches between the pre-game and in-game controls.
	ToggleButtons(gameStarted bool)
}

// MultiPresenter dispatches every call to multiple presenters.
type MultiPresenter struct {
	presenters []Presenter
}

// NewMultiPresenter creates a new MultiPresenter. Nil entries are skipped.
func NewMultiPresenter(presenters ...Presenter) *MultiPresenter {
	ps := make([]Presenter, 0, len(presenters))
	for _, p := range presenters {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &MultiPresenter{presenters: ps}
}

func (m *MultiPresenter) Render(cells [BoardSize]PlayerMark, highlight []int) {
	for _, p := range m.presenters {
		p.Render(cells, highlight)
	}
}

func (m *MultiPresenter) SetMessage(text string) {
	for _, p := range m.presenters {
		p.SetMessage(text)
	}
}

func (m *MultiPresenter) UpdateScoreboard(x, o Player) {
	for _, p := range m.presenters {
		p.UpdateScoreboard(x, o)
	}
}

func (m *MultiPresenter) ToggleButtons(gameStarted bool) {
	for _, p := range m.presenters {
		p.ToggleButtons(gameStarted)
	}
}
