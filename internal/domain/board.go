package domain

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String returns the player mark, or "" for an empty cell.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Size is the number of cells on the board.
const Size = 9

// Board is a fixed 3x3 board stored row-major. Boards are values: every move
// produces a new Board, so snapshots kept in history never change.
type Board [Size]Cell

// Lines lists the winning lines in the order they are checked.
var Lines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// ValidIndex reports whether i addresses a cell on the board.
func ValidIndex(i int) bool {
	return i >= 0 && i < Size
}

// With returns a copy of b with cell i set to c.
func (b Board) With(i int, c Cell) Board {
	b[i] = c
	return b
}

// Winner returns the mark occupying the first complete line, or Empty.
func Winner(b Board) Cell {
	for _, ln := range Lines {
		a := b[ln[0]]
		if a != Empty && a == b[ln[1]] && a == b[ln[2]] {
			return a
		}
	}
	return Empty
}
