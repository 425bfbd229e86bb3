package model

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type candidate struct {
	path    string
	depth   int
	created time.Time
}

// LoadFunc loads a store from a path. SelectBestAvailableVia takes one
// so callers can route loading through a cache.
type LoadFunc func(path string) (*Store, error)

// SelectBestAvailable scans dir for model files, prefers the greatest
// declared depth and then the most recent creation time, and loads the
// first candidate that validates. Corrupt files are skipped with a
// warning. It returns (nil, nil) when no usable model exists: callers
// are expected to fall back to live search, not to fail.
func SelectBestAvailable(dir string) (*Store, error) {
	return SelectBestAvailableVia(dir, Load)
}

// SelectBestAvailableVia is SelectBestAvailable with the load function
// supplied by the caller.
func SelectBestAvailableVia(dir string, load LoadFunc) (*Store, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	candidates := lo.FilterMap(dirents, func(de os.DirEntry, _ int) (candidate, bool) {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, "model_depth_") || !strings.HasSuffix(name, ".gob") {
			return candidate{}, false
		}
		depth := depthFromFilename(name)
		if depth < 1 {
			return candidate{}, false
		}
		return candidate{
			path:    filepath.Join(dir, name),
			depth:   depth,
			created: createdFromFilename(name),
		}, true
	})

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].depth != candidates[j].depth {
			return candidates[i].depth > candidates[j].depth
		}
		return candidates[i].created.After(candidates[j].created)
	})

	for _, c := range candidates {
		store, err := load(c.path)
		if err != nil {
			log.Warn().Err(err).Str("path", c.path).Msg("skipping unusable model file")
			continue
		}
		log.Info().Str("path", c.path).Int("depth", store.Depth()).
			Int("entries", store.Len()).Msg("selected model")
		return store, nil
	}
	return nil, nil
}

// depthFromFilename extracts N from "model_depth_N_...". Returns 0 when
// the name does not parse.
func depthFromFilename(name string) int {
	rest := strings.TrimPrefix(name, "model_depth_")
	end := strings.IndexByte(rest, '_')
	if end < 0 {
		end = strings.IndexByte(rest, '.')
	}
	if end < 1 {
		return 0
	}
	depth := 0
	for _, ch := range rest[:end] {
		if ch < '0' || ch > '9' {
			return 0
		}
		depth = depth*10 + int(ch-'0')
	}
	return depth
}

// createdFromFilename extracts the creation timestamp Filename embeds.
// The file's mtime is deliberately not consulted: copying or restoring a
// model file must not change how it sorts. Names that do not parse get
// the zero time and sort last within their depth.
func createdFromFilename(name string) time.Time {
	base := strings.TrimSuffix(name, ".gob")
	if len(base) < len(filenameTimeLayout) {
		return time.Time{}
	}
	ts, err := time.Parse(filenameTimeLayout, base[len(base)-len(filenameTimeLayout):])
	if err != nil {
		return time.Time{}
	}
	return ts
}
