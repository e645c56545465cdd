package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWith(c Cell, cells ...int) Board {
	var b Board
	for _, i := range cells {
		b[i] = c
	}
	return b
}

func TestWinnerEachLine(t *testing.T) {
	for _, ln := range Lines {
		for _, mark := range []Cell{X, O} {
			b := boardWith(mark, ln[:]...)
			assert.Equal(t, mark, Winner(b), "line %v filled with %v", ln, mark)
		}
	}
}

func TestWinnerEmptyBoard(t *testing.T) {
	assert.Equal(t, Empty, Winner(Board{}))
}

func TestWinnerNone(t *testing.T) {
	tests := []struct {
		name  string
		board Board
	}{
		{
			name: "full board draw",
			board: Board{
				X, O, X,
				X, O, O,
				O, X, X,
			},
		},
		{
			name: "in progress",
			board: Board{
				X, O, X,
				Empty, O, Empty,
				O, X, Empty,
			},
		},
		{
			name: "mixed line",
			board: Board{
				X, X, O,
				Empty, Empty, Empty,
				Empty, Empty, Empty,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Empty, Winner(tt.board))
		})
	}
}

func TestWinnerFirstLineWins(t *testing.T) {
	// Not reachable in play, but the scan order must decide: rows before cols.
	b := Board{
		O, X, X,
		O, X, Empty,
		O, X, Empty,
	}
	// col 0 (O) is checked before col 1 (X)
	assert.Equal(t, O, Winner(b))

	b = Board{
		X, X, X,
		O, O, O,
		Empty, Empty, Empty,
	}
	assert.Equal(t, X, Winner(b))
}

func TestBoardWithDoesNotMutate(t *testing.T) {
	var b Board
	nb := b.With(4, X)
	require.Equal(t, Empty, b[4])
	require.Equal(t, X, nb[4])
}

func TestValidIndex(t *testing.T) {
	for i := 0; i < Size; i++ {
		assert.True(t, ValidIndex(i))
	}
	for _, i := range []int{-1, 9, 100} {
		assert.False(t, ValidIndex(i))
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "X", X.String())
	assert.Equal(t, "O", O.String())
	assert.Equal(t, "", Empty.String())
}
