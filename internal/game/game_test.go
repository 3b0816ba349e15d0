package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_PlaceMark(t *testing.T) {
	t.Run("each cell accepts exactly one mark", func(t *testing.T) {
		board := NewBoard()

		for i := 0; i < BoardSize; i++ {
			require.True(t, board.PlaceMark(i, PlayerX), "first placement at %d", i)
			assert.False(t, board.PlaceMark(i, PlayerO), "second placement at %d", i)
			assert.Equal(t, PlayerX, board.Cells()[i])
		}
	})

	t.Run("out of range indices are rejected", func(t *testing.T) {
		board := NewBoard()

		for _, index := range []int{-1, 9, 20} {
			assert.False(t, board.PlaceMark(index, PlayerX), "index %d", index)
		}
		assert.Equal(t, [BoardSize]PlayerMark{}, board.Cells())
	})

	t.Run("cells returns a copy", func(t *testing.T) {
		board := NewBoard()
		cells := board.Cells()
		cells[4] = PlayerO

		assert.Equal(t, None, board.Cells()[4])
		assert.True(t, board.PlaceMark(4, PlayerX))
	})
}

func TestBoard_Reset(t *testing.T) {
	board := NewBoard()
	for i := 0; i < BoardSize; i++ {
		mark := PlayerX
		if i%2 == 1 {
			mark = PlayerO
		}
		require.True(t, board.PlaceMark(i, mark))
	}
	require.True(t, board.IsFull())

	board.Reset()

	assert.Equal(t, [BoardSize]PlayerMark{}, board.Cells())
	assert.False(t, board.IsFull())
	assert.True(t, board.PlaceMark(0, PlayerO))
}

func TestFindWin(t *testing.T) {
	for _, combo := range WinCombos {
		var cells [BoardSize]PlayerMark
		for _, i := range combo {
			cells[i] = PlayerO
		}

		got, ok := FindWin(cells, PlayerO)
		assert.True(t, ok, "combo %v", combo)
		assert.Equal(t, combo, got)

		_, ok = FindWin(cells, PlayerX)
		assert.False(t, ok, "combo %v must not win for X", combo)
	}

	tests := []struct {
		name  string
		cells [BoardSize]PlayerMark
		mark  PlayerMark
		want  Combo
		ok    bool
	}{
		{
			name:  "empty board",
			cells: [BoardSize]PlayerMark{},
			mark:  PlayerX,
		},
		{
			name:  "empty mark never wins",
			cells: [BoardSize]PlayerMark{},
			mark:  None,
		},
		{
			name: "row beats column in scan order",
			cells: [BoardSize]PlayerMark{
				PlayerX, PlayerX, PlayerX,
				PlayerX, None, None,
				PlayerX, None, None,
			},
			mark: PlayerX,
			want: Combo{0, 1, 2},
			ok:   true,
		},
		{
			name: "column beats diagonal in scan order",
			cells: [BoardSize]PlayerMark{
				None, None, PlayerO,
				None, PlayerO, PlayerO,
				PlayerO, None, PlayerO,
			},
			mark: PlayerO,
			want: Combo{2, 5, 8},
			ok:   true,
		},
		{
			name: "both diagonals pick the main one",
			cells: [BoardSize]PlayerMark{
				PlayerX, None, PlayerX,
				None, PlayerX, None,
				PlayerX, None, PlayerX,
			},
			mark: PlayerX,
			want: Combo{0, 4, 8},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindWin(tt.cells, tt.mark)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsBoardFull(t *testing.T) {
	tests := []struct {
		name  string
		cells [BoardSize]PlayerMark
		want  bool
	}{
		{
			name:  "Empty board is not full",
			cells: [BoardSize]PlayerMark{},
			want:  false,
		},
		{
			name:  "Partial board is not full",
			cells: [BoardSize]PlayerMark{PlayerX, None, None, None, PlayerO},
			want:  false,
		},
		{
			name: "Full board is full",
			cells: [BoardSize]PlayerMark{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBoardFull(tt.cells))
		})
	}
}

func TestNewPlayer(t *testing.T) {
	assert.Equal(t, &Player{Name: "Alice", Mark: PlayerX}, NewPlayer("Alice", PlayerX, defaultNameX))
	assert.Equal(t, &Player{Name: "Bob", Mark: PlayerO}, NewPlayer("  Bob ", PlayerO, defaultNameO))
	assert.Equal(t, &Player{Name: "Player 1", Mark: PlayerX}, NewPlayer("", PlayerX, defaultNameX))
	assert.Equal(t, &Player{Name: "Player 2", Mark: PlayerO}, NewPlayer("   ", PlayerO, defaultNameO))

	p := NewPlayer("Alice", PlayerX, defaultNameX)
	p.AddPoint()
	p.AddPoint()
	assert.Equal(t, 2, p.Score)
	p.ResetScore()
	assert.Equal(t, 0, p.Score)
}
