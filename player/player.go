// Package player is the move selection façade the game layer talks to.
// It combines tactical shortcuts, the precomputed model and the live
// search into a single Choose call.
package player

import (
	"github.com/rs/zerolog/log"

	"github.com/fourply/fourply/board"
	"github.com/fourply/fourply/model"
	"github.com/fourply/fourply/modelcache"
	"github.com/fourply/fourply/search"
)

// Selector picks moves. The store may be nil, in which case every
// non-tactical move comes from the search engine.
type Selector struct {
	store  *model.Store
	engine *search.Engine
}

// NewSelector builds a selector from an optional store and an engine.
func NewSelector(store *model.Store, engine *search.Engine) *Selector {
	return &Selector{store: store, engine: engine}
}

// SelectorFromDirectory picks the best available model under dir and
// builds a selector with it. Selection loads through the shared model
// cache, so the file is read once and later selectors reuse the copy.
// Model problems never reach gameplay: any failure to find or load a
// model degrades to search-only selection.
func SelectorFromDirectory(dir string, engine *search.Engine) *Selector {
	store, err := model.SelectBestAvailableVia(dir, modelcache.Load)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("model selection failed; using search only")
		return NewSelector(nil, engine)
	}
	if store == nil {
		log.Info().Str("dir", dir).Msg("no model available; using search only")
		return NewSelector(nil, engine)
	}
	return NewSelector(store, engine)
}

// HasModel reports whether a model store backs this selector.
func (s *Selector) HasModel() bool {
	return s.store != nil
}

// Choose returns the column to play for piece. Priority order: complete
// our own four, block the opponent's four, consult the model, search.
func (s *Selector) Choose(b *board.Board, piece board.Cell) (int, error) {
	if col, ok := winningColumn(b, piece); ok {
		log.Debug().Int("col", col).Msg("winning move available")
		return col, nil
	}
	if col, ok := winningColumn(b, board.Opponent(piece)); ok {
		log.Debug().Int("col", col).Msg("blocking opponent win")
		return col, nil
	}
	if s.store != nil {
		if entry, ok := s.store.Lookup(b.Key()); ok {
			if entry.Column != model.TerminalColumn && entry.Piece == piece {
				log.Debug().Int("col", int(entry.Column)).Int64("score", entry.Score).
					Msg("model move")
				return int(entry.Column), nil
			}
		}
	}
	return s.engine.BestMove(b, piece)
}

// winningColumn returns the lowest column where dropping piece wins
// immediately.
func winningColumn(b *board.Board, piece board.Cell) (int, bool) {
	for _, col := range b.ValidColumns() {
		child := b.Copy()
		if _, err := child.Drop(col, piece); err != nil {
			continue
		}
		if child.CheckWin(piece) {
			return col, true
		}
	}
	return 0, false
}
