package model

import (
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/fourply/fourply/board"
)

// entryRecord is the wire form of one entry. The position key travels as
// its two packed words; see board.PositionKey.
type entryRecord struct {
	Key    [2]uint64
	Piece  uint8
	Column int8
	Score  int64
}

// snapshot is the on-disk layout. Count is stored redundantly so a
// truncated entry list is detected at load time.
type snapshot struct {
	SchemaVersion int
	Depth         int
	CreatedAt     time.Time
	Count         int
	Entries       []entryRecord
}

func writeSnapshot(w io.Writer, s *Store) error {
	snap := snapshot{
		SchemaVersion: SchemaVersion,
		Depth:         s.depth,
		CreatedAt:     s.createdAt,
		Count:         len(s.entries),
		Entries:       make([]entryRecord, 0, len(s.entries)),
	}
	for key, e := range s.entries {
		snap.Entries = append(snap.Entries, entryRecord{
			Key:    [2]uint64(key),
			Piece:  uint8(e.Piece),
			Column: e.Column,
			Score:  e.Score,
		})
	}
	return gob.NewEncoder(w).Encode(&snap)
}

func readSnapshot(r io.Reader) (*Store, error) {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCorruptModel, err)
	}
	if snap.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: unknown schema version %d", ErrCorruptModel, snap.SchemaVersion)
	}
	if snap.Count != len(snap.Entries) {
		return nil, fmt.Errorf("%w: entry count %d does not match declared %d",
			ErrCorruptModel, len(snap.Entries), snap.Count)
	}
	if snap.Depth < 1 {
		return nil, fmt.Errorf("%w: declared depth %d", ErrCorruptModel, snap.Depth)
	}
	entries := make(map[board.PositionKey]Entry, len(snap.Entries))
	for _, rec := range snap.Entries {
		if rec.Column < TerminalColumn || rec.Column >= int8(board.NumCols) {
			return nil, fmt.Errorf("%w: entry column %d out of range", ErrCorruptModel, rec.Column)
		}
		piece := board.Cell(rec.Piece)
		if piece != board.PlayerOne && piece != board.PlayerTwo {
			return nil, fmt.Errorf("%w: entry piece %d invalid", ErrCorruptModel, rec.Piece)
		}
		key := board.PositionKey(rec.Key)
		if _, dup := entries[key]; dup {
			return nil, fmt.Errorf("%w: duplicate entry for position", ErrCorruptModel)
		}
		entries[key] = Entry{Piece: piece, Column: rec.Column, Score: rec.Score}
	}
	return &Store{depth: snap.Depth, createdAt: snap.CreatedAt, entries: entries}, nil
}
