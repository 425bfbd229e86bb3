// Package model implements the precomputed move table: an immutable,
// loaded-once mapping from canonical position keys to the best column
// found at a declared search depth, persisted as a versioned snapshot.
package model

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fourply/fourply/board"
)

// SchemaVersion is bumped on any change to the snapshot layout. Loads
// reject files written by other versions.
const SchemaVersion = 1

// ErrCorruptModel wraps any load failure: unreadable file, bad schema
// version, or inconsistent contents. Callers treat it as "no model
// available" and fall back to live search.
var ErrCorruptModel = errors.New("corrupt model file")

// TerminalColumn marks an entry recorded for a terminal position, where
// no move exists.
const TerminalColumn int8 = -1

// Entry is the precomputed result for one position.
type Entry struct {
	// Piece is the player to move at the position.
	Piece board.Cell
	// Column is the best column, or TerminalColumn.
	Column int8
	// Score is the minimax score of the best column at the store's
	// declared depth, or the terminal score for terminal positions.
	Score int64
}

// Store is a read-only lookup table. It is never mutated after load or
// construction; a single Store may be shared by any number of callers.
type Store struct {
	depth     int
	createdAt time.Time
	entries   map[board.PositionKey]Entry
}

// New builds a store from an entry map. The map is owned by the store
// afterwards and must not be modified by the caller.
func New(depth int, createdAt time.Time, entries map[board.PositionKey]Entry) *Store {
	return &Store{depth: depth, createdAt: createdAt, entries: entries}
}

// Depth is the search depth every entry was evaluated at.
func (s *Store) Depth() int { return s.depth }

// CreatedAt is the completion time of the training run.
func (s *Store) CreatedAt() time.Time { return s.createdAt }

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Lookup returns the entry for key, if present.
func (s *Store) Lookup(key board.PositionKey) (Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// Entries returns a copy of the entry map.
func (s *Store) Entries() map[board.PositionKey]Entry {
	out := make(map[board.PositionKey]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

const filenameTimeLayout = "2006-01-02_15_04_05"

// Filename returns the canonical file name for a store: the declared
// depth and creation time are in the name so directories can be scanned
// without opening every file.
func Filename(depth int, createdAt time.Time) string {
	return fmt.Sprintf("model_depth_%d_%s.gob", depth,
		createdAt.UTC().Format(filenameTimeLayout))
}

// Save writes the store to path atomically: the snapshot goes to a
// temporary file in the same directory which is then renamed over the
// target, so a crash mid-write can never leave a truncated model behind.
func (s *Store) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := s.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Write serializes the store snapshot to w.
func (s *Store) Write(w io.Writer) error {
	return writeSnapshot(w, s)
}

// Load reads a store from path. It either returns a fully validated
// store or an error wrapping ErrCorruptModel; there is no partial load.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptModel, err)
	}
	defer f.Close()
	return Read(f)
}

// Read deserializes and validates a store snapshot from r.
func Read(r io.Reader) (*Store, error) {
	return readSnapshot(r)
}
