// Package board implements the connect-four board model: a 6x7 grid with
// gravity drops, win/draw detection, and a canonical position key.
package board

import (
	"errors"
	"strings"
)

const (
	// NumRows is the number of rows on the board. Row 0 is the bottom row.
	NumRows = 6
	// NumCols is the number of columns on the board.
	NumCols = 7
	// WinLength is the number of aligned pieces needed to win.
	WinLength = 4
)

// Cell is the content of a single board square.
type Cell uint8

const (
	Empty Cell = iota
	PlayerOne
	PlayerTwo
)

func (c Cell) String() string {
	switch c {
	case PlayerOne:
		return "X"
	case PlayerTwo:
		return "O"
	}
	return " "
}

// Opponent returns the other player's piece.
func Opponent(c Cell) Cell {
	switch c {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return Empty
}

var (
	ErrColumnFull       = errors.New("column is full")
	ErrColumnOutOfRange = errors.New("column out of range")
)

// Board is a value type; copying it copies the whole grid. Search code
// relies on this: exploring one branch can never leak into a sibling's
// view of the position.
type Board struct {
	cells [NumRows][NumCols]Cell
}

// Cell returns the content at (row, col). Row 0 is the bottom row.
func (b *Board) Cell(row, col int) Cell {
	return b.cells[row][col]
}

// Drop places piece into the lowest open row of col and returns that row.
func (b *Board) Drop(col int, piece Cell) (int, error) {
	if col < 0 || col >= NumCols {
		return 0, ErrColumnOutOfRange
	}
	for row := 0; row < NumRows; row++ {
		if b.cells[row][col] == Empty {
			b.cells[row][col] = piece
			return row, nil
		}
	}
	return 0, ErrColumnFull
}

// ValidColumns returns the columns that still have an open row, in
// ascending order. The ordering is load-bearing: search and enumeration
// depend on it for deterministic results.
func (b *Board) ValidColumns() []int {
	cols := make([]int, 0, NumCols)
	for col := 0; col < NumCols; col++ {
		if b.cells[NumRows-1][col] == Empty {
			cols = append(cols, col)
		}
	}
	return cols
}

// Copy returns an independent copy of the board.
func (b *Board) Copy() Board {
	return *b
}

// CheckWin reports whether piece has four in a row in any orientation.
func (b *Board) CheckWin(piece Cell) bool {
	// Horizontal.
	for row := 0; row < NumRows; row++ {
		for col := 0; col <= NumCols-WinLength; col++ {
			if b.cells[row][col] == piece &&
				b.cells[row][col+1] == piece &&
				b.cells[row][col+2] == piece &&
				b.cells[row][col+3] == piece {
				return true
			}
		}
	}
	// Vertical.
	for col := 0; col < NumCols; col++ {
		for row := 0; row <= NumRows-WinLength; row++ {
			if b.cells[row][col] == piece &&
				b.cells[row+1][col] == piece &&
				b.cells[row+2][col] == piece &&
				b.cells[row+3][col] == piece {
				return true
			}
		}
	}
	// Rising diagonal.
	for row := 0; row <= NumRows-WinLength; row++ {
		for col := 0; col <= NumCols-WinLength; col++ {
			if b.cells[row][col] == piece &&
				b.cells[row+1][col+1] == piece &&
				b.cells[row+2][col+2] == piece &&
				b.cells[row+3][col+3] == piece {
				return true
			}
		}
	}
	// Falling diagonal.
	for row := WinLength - 1; row < NumRows; row++ {
		for col := 0; col <= NumCols-WinLength; col++ {
			if b.cells[row][col] == piece &&
				b.cells[row-1][col+1] == piece &&
				b.cells[row-2][col+2] == piece &&
				b.cells[row-3][col+3] == piece {
				return true
			}
		}
	}
	return false
}

// IsFull reports whether no column has an open row.
func (b *Board) IsFull() bool {
	for col := 0; col < NumCols; col++ {
		if b.cells[NumRows-1][col] == Empty {
			return false
		}
	}
	return true
}

// IsTerminal reports whether the game is over at this position.
func (b *Board) IsTerminal() bool {
	return b.CheckWin(PlayerOne) || b.CheckWin(PlayerTwo) || b.IsFull()
}

// PieceCount returns the number of occupied cells.
func (b *Board) PieceCount() int {
	n := 0
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			if b.cells[row][col] != Empty {
				n++
			}
		}
	}
	return n
}

// ToMove returns the piece whose turn it is, derived from piece parity.
// PlayerOne always moves first.
func (b *Board) ToMove() Cell {
	if b.PieceCount()%2 == 0 {
		return PlayerOne
	}
	return PlayerTwo
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := NumRows - 1; row >= 0; row-- {
		sb.WriteByte('|')
		for col := 0; col < NumCols; col++ {
			sb.WriteString(b.cells[row][col].String())
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("+-+-+-+-+-+-+-+\n")
	sb.WriteString(" 0 1 2 3 4 5 6 ")
	return sb.String()
}
