package board

import (
	"testing"

	"github.com/matryer/is"
)

// parseBoard builds a board from rows listed top-first, using
// 'X' for PlayerOne, 'O' for PlayerTwo and '.' for empty.
func parseBoard(t *testing.T, rows []string) Board {
	t.Helper()
	if len(rows) != NumRows {
		t.Fatalf("parseBoard needs %d rows, got %d", NumRows, len(rows))
	}
	var b Board
	for i, row := range rows {
		for col, ch := range row {
			var c Cell
			switch ch {
			case 'X':
				c = PlayerOne
			case 'O':
				c = PlayerTwo
			case '.':
				continue
			default:
				t.Fatalf("bad cell %q", ch)
			}
			b.cells[NumRows-1-i][col] = c
		}
	}
	return b
}

func TestDropGravity(t *testing.T) {
	is := is.New(t)
	var b Board

	row, err := b.Drop(3, PlayerOne)
	is.NoErr(err)
	is.Equal(row, 0)

	row, err = b.Drop(3, PlayerTwo)
	is.NoErr(err)
	is.Equal(row, 1)

	is.Equal(b.Cell(0, 3), PlayerOne)
	is.Equal(b.Cell(1, 3), PlayerTwo)
	is.Equal(b.Cell(2, 3), Empty)
}

func TestDropColumnFull(t *testing.T) {
	is := is.New(t)
	var b Board
	for i := 0; i < NumRows; i++ {
		_, err := b.Drop(0, PlayerOne)
		is.NoErr(err)
	}
	_, err := b.Drop(0, PlayerTwo)
	is.Equal(err, ErrColumnFull)
}

func TestDropOutOfRange(t *testing.T) {
	is := is.New(t)
	var b Board
	_, err := b.Drop(-1, PlayerOne)
	is.Equal(err, ErrColumnOutOfRange)
	_, err = b.Drop(NumCols, PlayerOne)
	is.Equal(err, ErrColumnOutOfRange)
}

func TestValidColumns(t *testing.T) {
	is := is.New(t)
	var b Board
	is.Equal(b.ValidColumns(), []int{0, 1, 2, 3, 4, 5, 6})

	for i := 0; i < NumRows; i++ {
		_, err := b.Drop(2, PlayerOne)
		is.NoErr(err)
	}
	is.Equal(b.ValidColumns(), []int{0, 1, 3, 4, 5, 6})
}

func TestCopyIndependence(t *testing.T) {
	is := is.New(t)
	var b Board
	_, err := b.Drop(0, PlayerOne)
	is.NoErr(err)

	c := b.Copy()
	_, err = c.Drop(0, PlayerTwo)
	is.NoErr(err)

	is.Equal(b.Cell(1, 0), Empty)
	is.Equal(c.Cell(1, 0), PlayerTwo)
}

func TestCheckWinOrientations(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		name string
		rows []string
	}{
		{"horizontal", []string{
			".......",
			".......",
			".......",
			".......",
			".......",
			"XXXX...",
		}},
		{"vertical", []string{
			".......",
			".......",
			"......X",
			"......X",
			"......X",
			"......X",
		}},
		{"rising diagonal", []string{
			".......",
			".......",
			"...X...",
			"..XO...",
			".XOO...",
			"XOOX...",
		}},
		{"falling diagonal", []string{
			".......",
			".......",
			"..X....",
			"..OX...",
			"..OOX..",
			"..OXOX.",
		}},
	}
	for _, tc := range cases {
		b := parseBoard(t, tc.rows)
		if !b.CheckWin(PlayerOne) {
			t.Errorf("%s: expected a PlayerOne win\n%s", tc.name, b.String())
		}
		is.True(!b.CheckWin(PlayerTwo))
	}
}

// rotate180 flips the grid in both axes. A win must survive a full
// rotation of the board; this catches asymmetric line scans.
func rotate180(b Board) Board {
	var r Board
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			r.cells[NumRows-1-row][NumCols-1-col] = b.cells[row][col]
		}
	}
	return r
}

func TestCheckWinRotationSymmetry(t *testing.T) {
	boards := [][]string{
		{
			".......",
			".......",
			".......",
			".......",
			".......",
			"...XXXX",
		},
		{
			".......",
			"X......",
			"X......",
			"X......",
			"X......",
			"O......",
		},
		{
			".......",
			".......",
			"...X...",
			"..XO...",
			".XOO...",
			"XOOX...",
		},
		{
			".......",
			".......",
			".......",
			".......",
			".......",
			"OXOX...",
		},
	}
	for _, rows := range boards {
		b := parseBoard(t, rows)
		r := rotate180(b)
		for _, piece := range []Cell{PlayerOne, PlayerTwo} {
			if b.CheckWin(piece) != r.CheckWin(piece) {
				t.Errorf("win detection not rotation-symmetric for %v\n%s", piece, b.String())
			}
		}
	}
}

func TestIsFullAndTerminal(t *testing.T) {
	is := is.New(t)
	var b Board
	is.True(!b.IsFull())
	is.True(!b.IsTerminal())

	// Fill the board with a drawn pattern: column stripes of
	// XXXOOO / OOOXXX never line up four of a kind.
	pattern := [NumCols]Cell{PlayerOne, PlayerTwo, PlayerOne, PlayerTwo, PlayerOne, PlayerTwo, PlayerOne}
	for col := 0; col < NumCols; col++ {
		for row := 0; row < NumRows; row++ {
			piece := pattern[col]
			if row >= 3 {
				piece = Opponent(piece)
			}
			_, err := b.Drop(col, piece)
			is.NoErr(err)
		}
	}
	is.True(b.IsFull())
	is.True(!b.CheckWin(PlayerOne))
	is.True(!b.CheckWin(PlayerTwo))
	is.True(b.IsTerminal())
	is.Equal(len(b.ValidColumns()), 0)
}

func TestToMoveParity(t *testing.T) {
	is := is.New(t)
	var b Board
	is.Equal(b.ToMove(), PlayerOne)
	_, err := b.Drop(0, PlayerOne)
	is.NoErr(err)
	is.Equal(b.ToMove(), PlayerTwo)
	_, err = b.Drop(1, PlayerTwo)
	is.NoErr(err)
	is.Equal(b.ToMove(), PlayerOne)
}
