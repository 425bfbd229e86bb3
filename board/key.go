package board

// PositionKey is a canonical, collision-free encoding of a board: two
// bits per cell, 84 bits packed into two words. Identical board contents
// always produce the same key no matter how the board was reached, and
// the encoding round-trips exactly, so it doubles as the wire format for
// model and checkpoint files. The side to move is not encoded separately;
// piece parity determines it (see Board.ToMove).
type PositionKey [2]uint64

// cellsPerWord is how many 2-bit cells fit in the first word. The first
// 32 cells go into key[0], the remaining 10 into key[1].
const cellsPerWord = 32

// Key returns the canonical position key for the board.
func (b *Board) Key() PositionKey {
	var k PositionKey
	idx := 0
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			c := uint64(b.cells[row][col])
			if idx < cellsPerWord {
				k[0] |= c << (2 * idx)
			} else {
				k[1] |= c << (2 * (idx - cellsPerWord))
			}
			idx++
		}
	}
	return k
}

// Board reconstructs the board encoded by the key.
func (k PositionKey) Board() Board {
	var b Board
	idx := 0
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			var c uint64
			if idx < cellsPerWord {
				c = (k[0] >> (2 * idx)) & 3
			} else {
				c = (k[1] >> (2 * (idx - cellsPerWord))) & 3
			}
			b.cells[row][col] = Cell(c)
			idx++
		}
	}
	return b
}
