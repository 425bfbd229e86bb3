package modelcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/fourply/fourply/board"
	"github.com/fourply/fourply/model"
)

func writeStore(t *testing.T, dir string, depth int) string {
	t.Helper()
	var b board.Board
	entries := map[board.PositionKey]model.Entry{
		b.Key(): {Piece: board.PlayerOne, Column: 3, Score: 9},
	}
	created := time.Now()
	path := filepath.Join(dir, model.Filename(depth, created))
	if err := model.New(depth, created, entries).Save(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadReturnsSameInstance(t *testing.T) {
	is := is.New(t)
	CreateGlobalModelCache()
	path := writeStore(t, t.TempDir(), 3)

	first, err := Load(path)
	is.NoErr(err)
	second, err := Load(path)
	is.NoErr(err)
	is.True(first == second) // shared copy, not a reload
}

func TestLoadReadsOnce(t *testing.T) {
	is := is.New(t)
	CreateGlobalModelCache()
	path := writeStore(t, t.TempDir(), 4)

	store, err := Load(path)
	is.NoErr(err)
	is.Equal(store.Depth(), 4)

	// Corrupting the file after the first load must not matter.
	is.NoErr(os.WriteFile(path, []byte("junk"), 0o644))
	again, err := Load(path)
	is.NoErr(err)
	is.True(again == store)
}

func TestLoadError(t *testing.T) {
	is := is.New(t)
	CreateGlobalModelCache()
	_, err := Load(filepath.Join(t.TempDir(), "absent.gob"))
	is.True(err != nil)
}
