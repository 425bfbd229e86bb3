package trainer

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fourply/fourply/board"
	"github.com/fourply/fourply/enumerate"
	"github.com/fourply/fourply/model"
)

// CheckpointSchemaVersion is bumped on any change to the checkpoint
// layout. Loads reject files written by other versions.
const CheckpointSchemaVersion = 1

// ErrCheckpointIO wraps any checkpoint read or write failure. A failed
// write never damages a previously written checkpoint; a failed read
// means the run cannot be resumed from that file.
var ErrCheckpointIO = errors.New("checkpoint i/o failure")

// Checkpoint is the paused state of a training run: what is still to do,
// what has been computed, and how long the run has actively worked so
// far. Pause time is not included in Elapsed.
type Checkpoint struct {
	Depth     int
	FullGame  bool
	Elapsed   time.Duration
	Remaining []enumerate.Position
	Entries   map[board.PositionKey]model.Entry
}

// CheckpointFilename returns the canonical checkpoint name for a run
// configuration. There is one checkpoint per (mode, depth) pair; a new
// pause overwrites the previous checkpoint of the same run.
func CheckpointFilename(depth int, fullGame bool) string {
	mode := "fixed"
	if fullGame {
		mode = "fullgame"
	}
	return fmt.Sprintf("checkpoint_%s_depth_%d.gob", mode, depth)
}

type positionRecord struct {
	Key   [2]uint64
	Piece uint8
}

type checkpointEntryRecord struct {
	Key    [2]uint64
	Piece  uint8
	Column int8
	Score  int64
}

type checkpointSnapshot struct {
	SchemaVersion int
	Depth         int
	FullGame      bool
	ElapsedNanos  int64
	Remaining     []positionRecord
	Entries       []checkpointEntryRecord
}

// Save writes the checkpoint to path atomically: snapshot to a temporary
// file in the same directory, then rename over the target. A crash or
// write error leaves any earlier checkpoint at path untouched.
func (c *Checkpoint) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrCheckpointIO, err)
	}
	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCheckpointIO, err)
	}
	defer os.Remove(tmp.Name())

	snap := checkpointSnapshot{
		SchemaVersion: CheckpointSchemaVersion,
		Depth:         c.Depth,
		FullGame:      c.FullGame,
		ElapsedNanos:  c.Elapsed.Nanoseconds(),
		Remaining:     make([]positionRecord, 0, len(c.Remaining)),
		Entries:       make([]checkpointEntryRecord, 0, len(c.Entries)),
	}
	for _, pos := range c.Remaining {
		snap.Remaining = append(snap.Remaining, positionRecord{
			Key:   [2]uint64(pos.Board.Key()),
			Piece: uint8(pos.Piece),
		})
	}
	for key, e := range c.Entries {
		snap.Entries = append(snap.Entries, checkpointEntryRecord{
			Key:    [2]uint64(key),
			Piece:  uint8(e.Piece),
			Column: e.Column,
			Score:  e.Score,
		})
	}

	if err := gob.NewEncoder(tmp).Encode(&snap); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: encode: %v", ErrCheckpointIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrCheckpointIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", ErrCheckpointIO, err)
	}
	return nil
}

// LoadCheckpoint reads and validates a checkpoint. It either returns a
// fully reconstructed checkpoint or an error wrapping ErrCheckpointIO.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckpointIO, err)
	}
	defer f.Close()

	var snap checkpointSnapshot
	if err := gob.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCheckpointIO, err)
	}
	if snap.SchemaVersion != CheckpointSchemaVersion {
		return nil, fmt.Errorf("%w: unknown schema version %d", ErrCheckpointIO, snap.SchemaVersion)
	}
	if snap.Depth < 1 {
		return nil, fmt.Errorf("%w: declared depth %d", ErrCheckpointIO, snap.Depth)
	}

	ckpt := &Checkpoint{
		Depth:     snap.Depth,
		FullGame:  snap.FullGame,
		Elapsed:   time.Duration(snap.ElapsedNanos),
		Remaining: make([]enumerate.Position, 0, len(snap.Remaining)),
		Entries:   make(map[board.PositionKey]model.Entry, len(snap.Entries)),
	}
	for _, rec := range snap.Remaining {
		piece := board.Cell(rec.Piece)
		if piece != board.PlayerOne && piece != board.PlayerTwo {
			return nil, fmt.Errorf("%w: remaining position piece %d invalid", ErrCheckpointIO, rec.Piece)
		}
		ckpt.Remaining = append(ckpt.Remaining, enumerate.Position{
			Board: board.PositionKey(rec.Key).Board(),
			Piece: piece,
		})
	}
	for _, rec := range snap.Entries {
		piece := board.Cell(rec.Piece)
		if piece != board.PlayerOne && piece != board.PlayerTwo {
			return nil, fmt.Errorf("%w: entry piece %d invalid", ErrCheckpointIO, rec.Piece)
		}
		if rec.Column < model.TerminalColumn || rec.Column >= int8(board.NumCols) {
			return nil, fmt.Errorf("%w: entry column %d out of range", ErrCheckpointIO, rec.Column)
		}
		ckpt.Entries[board.PositionKey(rec.Key)] = model.Entry{
			Piece:  piece,
			Column: rec.Column,
			Score:  rec.Score,
		}
	}
	return ckpt, nil
}
