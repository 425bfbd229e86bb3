package eval

import (
	"testing"

	"github.com/matryer/is"

	"github.com/fourply/fourply/board"
)

func drop(t *testing.T, b *board.Board, col int, piece board.Cell) {
	t.Helper()
	if _, err := b.Drop(col, piece); err != nil {
		t.Fatal(err)
	}
}

func TestScoreEmptyBoard(t *testing.T) {
	is := is.New(t)
	var b board.Board
	is.Equal(Score(&b, board.PlayerOne), int64(0))
	is.Equal(Score(&b, board.PlayerTwo), int64(0))
}

func TestScoreSinglePiece(t *testing.T) {
	is := is.New(t)
	var b board.Board
	drop(t, &b, 2, board.PlayerOne)
	// A lone piece off-center never fills a window to 2, so nothing scores.
	is.Equal(Score(&b, board.PlayerOne), int64(0))
	is.Equal(Score(&b, board.PlayerTwo), int64(0))
}

func TestScoreCenterColumn(t *testing.T) {
	is := is.New(t)
	var b board.Board
	drop(t, &b, 3, board.PlayerOne)
	is.Equal(Score(&b, board.PlayerOne), int64(3))
	is.Equal(Score(&b, board.PlayerTwo), int64(0))
}

func TestScoreTwoInARow(t *testing.T) {
	is := is.New(t)
	var b board.Board
	drop(t, &b, 3, board.PlayerOne)
	drop(t, &b, 4, board.PlayerOne)
	// Three horizontal windows hold both pieces plus two empties (+6),
	// and one piece sits in the center column (+3).
	is.Equal(Score(&b, board.PlayerOne), int64(9))
}

func TestScoreThreeInARow(t *testing.T) {
	is := is.New(t)
	var b board.Board
	drop(t, &b, 0, board.PlayerOne)
	drop(t, &b, 1, board.PlayerOne)
	drop(t, &b, 2, board.PlayerOne)
	// One 3+1 window (+5) and one 2+2 window (+2).
	is.Equal(Score(&b, board.PlayerOne), int64(7))
	// From the opponent's side the same three are a single open threat.
	is.Equal(Score(&b, board.PlayerTwo), int64(-4))
}

func TestScoreBlockedWindowIsNeutral(t *testing.T) {
	is := is.New(t)
	var b board.Board
	drop(t, &b, 0, board.PlayerOne)
	drop(t, &b, 1, board.PlayerOne)
	drop(t, &b, 5, board.PlayerTwo)
	drop(t, &b, 6, board.PlayerTwo)
	// Mirrored pairs in opposite corners: each side sees one 2+2 window
	// of its own and no penalty from the opponent's pair, so the
	// perspectives agree.
	is.Equal(Score(&b, board.PlayerOne), int64(2))
	is.Equal(Score(&b, board.PlayerTwo), int64(2))
}

func TestScoreFourInARow(t *testing.T) {
	var b board.Board
	for col := 0; col < 4; col++ {
		drop(t, &b, col, board.PlayerOne)
	}
	got := Score(&b, board.PlayerOne)
	if got < 100 {
		t.Errorf("four in a row scored %d, expected at least the four-window weight", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	is := is.New(t)
	var b board.Board
	cols := []int{3, 3, 2, 4, 4, 1, 5, 0}
	piece := board.PlayerOne
	for _, col := range cols {
		drop(t, &b, col, piece)
		piece = board.Opponent(piece)
	}
	first := Score(&b, board.PlayerOne)
	for i := 0; i < 10; i++ {
		is.Equal(Score(&b, board.PlayerOne), first)
	}
}
