// Package eval implements the static board evaluation used by the search
// engine at its depth horizon. It slides a 4-cell window across every
// row, column and diagonal and scores each window by its composition.
package eval

import "github.com/fourply/fourply/board"

// Window composition weights. The opponent-threat penalty is deliberately
// smaller in magnitude than the own-three bonus so the search prefers
// completing its own line over merely denying one.
const (
	fourWeight     = 100
	threeWeight    = 5
	twoWeight      = 2
	oppThreeWeight = -4

	// centerWeight is added once per own piece in the center column.
	// Without it every opening move evaluates identically and a depth-1
	// search cannot tell the center apart from the edge.
	centerWeight = 3
	centerCol    = board.NumCols / 2
)

func scoreWindow(mine, theirs, empty int) int64 {
	var score int64
	switch {
	case mine == 4:
		score += fourWeight
	case mine == 3 && empty == 1:
		score += threeWeight
	case mine == 2 && empty == 2:
		score += twoWeight
	}
	if theirs == 3 && empty == 1 {
		score += oppThreeWeight
	}
	return score
}

// Score returns the heuristic value of the board from piece's
// perspective. Pure and deterministic: identical inputs always produce
// identical scores, which the training pipeline relies on.
func Score(b *board.Board, piece board.Cell) int64 {
	opponent := board.Opponent(piece)
	var total int64

	count := func(r0, c0, dr, dc int) int64 {
		mine, theirs, empty := 0, 0, 0
		for i := 0; i < board.WinLength; i++ {
			switch b.Cell(r0+i*dr, c0+i*dc) {
			case piece:
				mine++
			case opponent:
				theirs++
			default:
				empty++
			}
		}
		return scoreWindow(mine, theirs, empty)
	}

	// Horizontal.
	for row := 0; row < board.NumRows; row++ {
		for col := 0; col <= board.NumCols-board.WinLength; col++ {
			total += count(row, col, 0, 1)
		}
	}
	// Vertical.
	for col := 0; col < board.NumCols; col++ {
		for row := 0; row <= board.NumRows-board.WinLength; row++ {
			total += count(row, col, 1, 0)
		}
	}
	// Rising diagonal.
	for row := 0; row <= board.NumRows-board.WinLength; row++ {
		for col := 0; col <= board.NumCols-board.WinLength; col++ {
			total += count(row, col, 1, 1)
		}
	}
	// Falling diagonal.
	for row := board.WinLength - 1; row < board.NumRows; row++ {
		for col := 0; col <= board.NumCols-board.WinLength; col++ {
			total += count(row, col, -1, 1)
		}
	}
	// Center column control.
	for row := 0; row < board.NumRows; row++ {
		if b.Cell(row, centerCol) == piece {
			total += centerWeight
		}
	}
	return total
}
