package board

import (
	"testing"

	"github.com/matryer/is"
)

func TestKeyRoundTrip(t *testing.T) {
	is := is.New(t)
	b := parseBoard(t, []string{
		".......",
		".......",
		"...X...",
		"..XO...",
		".XOO..X",
		"XOOX.OO",
	})
	k := b.Key()
	back := k.Board()
	is.Equal(back, b)
	is.Equal(back.Key(), k)
}

func TestKeyEmptyBoard(t *testing.T) {
	is := is.New(t)
	var b Board
	is.Equal(b.Key(), PositionKey{})
}

// The same physical arrangement reached through different move orders
// must produce the same key.
func TestKeyMoveOrderIndependence(t *testing.T) {
	is := is.New(t)

	var a Board
	_, _ = a.Drop(0, PlayerOne)
	_, _ = a.Drop(4, PlayerTwo)
	_, _ = a.Drop(2, PlayerOne)

	var b Board
	_, _ = b.Drop(2, PlayerOne)
	_, _ = b.Drop(4, PlayerTwo)
	_, _ = b.Drop(0, PlayerOne)

	is.Equal(a.Key(), b.Key())

	var c Board
	_, _ = c.Drop(0, PlayerOne)
	_, _ = c.Drop(4, PlayerTwo)
	_, _ = c.Drop(3, PlayerOne)
	is.True(a.Key() != c.Key())
}

func TestKeyDistinguishesPieces(t *testing.T) {
	is := is.New(t)
	var a, b Board
	_, _ = a.Drop(6, PlayerOne)
	_, _ = b.Drop(6, PlayerTwo)
	is.True(a.Key() != b.Key())
}
