// Package enumerate generates the reachable connect-four positions that
// the trainer evaluates. Both generation modes are deterministic: columns
// are always tried in ascending order and positions are deduplicated by
// canonical key, so two runs with the same arguments produce identical
// sequences. The trainer's checkpoint/resume protocol depends on that.
package enumerate

import (
	"github.com/rs/zerolog/log"

	"github.com/fourply/fourply/board"
)

// Position is one enumerated board state together with the piece whose
// turn it is. Piece is always board's parity piece; it is carried
// explicitly because the model entry records it.
type Position struct {
	Board board.Board
	Piece board.Cell
}

// FixedDepth returns every distinct position reachable from the empty
// board after exactly plies moves, via column-ascending depth-first
// traversal. Positions that become terminal in fewer plies are included
// as well: the game ended there and the trainer records them with the
// terminal convention.
func FixedDepth(plies int) []Position {
	var positions []Position
	seen := make(map[board.PositionKey]struct{})

	var walk func(b *board.Board, movesMade int, piece board.Cell)
	walk = func(b *board.Board, movesMade int, piece board.Cell) {
		key := b.Key()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}

		if movesMade == plies || b.IsTerminal() {
			positions = append(positions, Position{Board: b.Copy(), Piece: piece})
			return
		}
		for _, col := range b.ValidColumns() {
			child := b.Copy()
			if _, err := child.Drop(col, piece); err != nil {
				continue
			}
			walk(&child, movesMade+1, board.Opponent(piece))
		}
	}

	var empty board.Board
	walk(&empty, 0, board.PlayerOne)
	log.Info().Int("plies", plies).Int("positions", len(positions)).
		Msg("enumerated fixed-depth positions")
	return positions
}

// FullGame returns every distinct position reachable from the empty
// board until the game terminates along every branch, in breadth-first
// order. This is the full game tree; it is astronomically large and only
// practical for debugging or truncated experiments, which is why the
// trainer checkpoints.
func FullGame() []Position {
	var empty board.Board
	positions := FullGameFrom(Position{Board: empty, Piece: board.PlayerOne})
	log.Info().Int("positions", len(positions)).Msg("enumerated full game tree")
	return positions
}

// FullGameFrom is the traversal behind FullGame, parameterized on the
// start position so the exhaustive walk can be exercised on small
// endgame subtrees.
func FullGameFrom(start Position) []Position {
	seen := map[board.PositionKey]struct{}{start.Board.Key(): {}}
	positions := []Position{start}

	queue := []Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Board.IsTerminal() {
			continue
		}
		for _, col := range cur.Board.ValidColumns() {
			child := cur.Board.Copy()
			if _, err := child.Drop(col, cur.Piece); err != nil {
				continue
			}
			key := child.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			next := Position{Board: child, Piece: board.Opponent(cur.Piece)}
			positions = append(positions, next)
			queue = append(queue, next)
		}
	}
	return positions
}
