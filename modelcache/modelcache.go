// Package modelcache holds model stores that have already been loaded
// from disk, so several players (or a server embedding the engine) share
// one in-memory copy per file instead of re-reading it per game.
package modelcache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fourply/fourply/model"
)

type cache struct {
	sync.Mutex
	stores map[string]*model.Store
}

// GlobalModelCache is our global model cache, of course.
var GlobalModelCache *cache

func (c *cache) load(path string) (*model.Store, error) {
	log.Debug().Str("path", path).Msg("loading model into cache")

	store, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	c.stores[path] = store
	return store, nil
}

func (c *cache) get(path string) (*model.Store, error) {
	c.Lock()
	defer c.Unlock()
	if store, ok := c.stores[path]; ok {
		log.Debug().Str("path", path).Msg("getting model from cache")
		return store, nil
	}
	return c.load(path)
}

func CreateGlobalModelCache() {
	GlobalModelCache = &cache{stores: make(map[string]*model.Store)}
}

// Load returns the store for path, reading it from disk at most once for
// the life of the process. Stores are read-only so the shared copy is
// safe for concurrent use.
func Load(path string) (*model.Store, error) {
	if GlobalModelCache == nil {
		CreateGlobalModelCache()
	}
	return GlobalModelCache.get(path)
}
