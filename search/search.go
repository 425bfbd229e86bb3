// Package search implements a depth-bounded minimax search with
// alpha-beta pruning over the connect-four board model. The recursion is
// strictly sequential within a single call; pruning correctness depends
// on siblings being visited in order.
package search

import (
	"errors"
	"math"

	"lukechampine.com/frand"

	"github.com/fourply/fourply/board"
	"github.com/fourply/fourply/eval"
)

// Terminal scores. These dominate any achievable heuristic sum, so a
// forced win is always preferred over a good-looking position and a
// forced loss is always avoided when an alternative exists. The loss
// magnitude is an order below the win magnitude: when both appear on the
// same path the win was reached first.
const (
	WinScore  int64 = 1e14
	LossScore int64 = -1e13
	DrawScore int64 = 0
)

// ErrInvalidBoard is returned when the engine is asked for a move on a
// board with no legal columns. That is a contract violation by the
// caller; a full board should have been detected as terminal before the
// engine was consulted.
var ErrInvalidBoard = errors.New("board has no valid columns")

// Engine is a single search instance. Construct one per owner; there is
// no process-wide shared engine. An Engine is stateless across calls and
// safe for concurrent use.
type Engine struct {
	depth int
}

// New creates an engine searching to the given depth, with a floor of 1.
func New(depth int) *Engine {
	if depth < 1 {
		depth = 1
	}
	return &Engine{depth: depth}
}

// Depth returns the configured search depth. The engine never evaluates
// shallower than this; model entries are trusted to reflect it.
func (e *Engine) Depth() int {
	return e.depth
}

// BestMove returns the best column for piece at the engine's depth.
func (e *Engine) BestMove(b *board.Board, piece board.Cell) (int, error) {
	col, _, err := e.BestMoveScore(b, piece)
	return col, err
}

// BestMoveScore returns the best column and the score minimax assigned
// to it. Columns are tried in ascending order and only a strictly
// greater score displaces the running best, so ties resolve to the
// lowest column. The initial default is a random valid column: a move is
// produced even if every line looks equally lost.
func (e *Engine) BestMoveScore(b *board.Board, piece board.Cell) (int, int64, error) {
	valid := b.ValidColumns()
	if len(valid) == 0 {
		return 0, 0, ErrInvalidBoard
	}
	bestCol := valid[frand.Intn(len(valid))]
	bestScore := int64(math.MinInt64)

	for _, col := range valid {
		child := b.Copy()
		if _, err := child.Drop(col, piece); err != nil {
			return 0, 0, err
		}
		score := e.Minimax(&child, e.depth-1, math.MinInt64, math.MaxInt64, false, piece)
		if score > bestScore {
			bestScore = score
			bestCol = col
		}
	}
	return bestCol, bestScore, nil
}

// Minimax scores the board from perspective's point of view, searching
// depth further plies. maximizing says whose turn it is within the
// search: perspective's own (true) or the opponent's (false). Alpha-beta
// cutoffs only skip work; they never change the returned value.
func (e *Engine) Minimax(b *board.Board, depth int, alpha, beta int64, maximizing bool, perspective board.Cell) int64 {
	opponent := board.Opponent(perspective)
	switch {
	case b.CheckWin(perspective):
		return WinScore
	case b.CheckWin(opponent):
		return LossScore
	case b.IsFull():
		return DrawScore
	}
	if depth <= 0 {
		return eval.Score(b, perspective)
	}

	if maximizing {
		best := int64(math.MinInt64)
		for _, col := range b.ValidColumns() {
			child := b.Copy()
			if _, err := child.Drop(col, perspective); err != nil {
				continue
			}
			score := e.Minimax(&child, depth-1, alpha, beta, false, perspective)
			if score > best {
				best = score
			}
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := int64(math.MaxInt64)
	for _, col := range b.ValidColumns() {
		child := b.Copy()
		if _, err := child.Drop(col, opponent); err != nil {
			continue
		}
		score := e.Minimax(&child, depth-1, alpha, beta, true, perspective)
		if score < best {
			best = score
		}
		if score < beta {
			beta = score
		}
		if alpha >= beta {
			break
		}
	}
	return best
}
