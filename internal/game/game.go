package game

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// BoardSize is the number of cells on the board.
	BoardSize = 9
)

// Combo is a line of three cell indices.
type Combo [3]int

// WinCombos lists every line on the board. The scan order is rows, columns,
// then diagonals; the first match wins.
var WinCombos = [8]Combo{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board holds the nine cells of a game.
type Board struct {
	cells [BoardSize]PlayerMark
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// PlaceMark sets the cell at index to mark. It reports false, leaving the
// board untouched, when the index is out of range or the cell is taken.
func (b *Board) PlaceMark(index int, mark PlayerMark) bool {
	if index < 0 || index >= BoardSize {
		return false
	}
	if b.cells[index] != None {
		return false
	}
	b.cells[index] = mark
	return true
}

// Cells returns a copy of the board.
func (b *Board) Cells() [BoardSize]PlayerMark {
	return b.cells
}

// Reset empties every cell.
func (b *Board) Reset() {
	b.cells = [BoardSize]PlayerMark{}
}

// IsFull reports whether no cell is empty.
func (b *Board) IsFull() bool {
	return IsBoardFull(b.cells)
}

// FindWin returns the first combo whose three cells all hold mark.
func FindWin(cells [BoardSize]PlayerMark, mark PlayerMark) (Combo, bool) {
	if mark == None {
		return Combo{}, false
	}
	for _, combo := range WinCombos {
		if cells[combo[0]] == mark && cells[combo[1]] == mark && cells[combo[2]] == mark {
			return combo, true
		}
	}
	return Combo{}, false
}

// IsBoardFull checks if every cell holds a mark.
func IsBoardFull(cells [BoardSize]PlayerMark) bool {
	for _, cell := range cells {
		if cell == None {
			return false
		}
	}
	return true
}
