package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/nstehr/vimy/vimy-mapgen/model"
)

// Cache keeps finished maps by tileset and resolved parameters. Generation
// is deterministic for a non-zero seed, so a hit is the map a fresh run
// would produce. A nil *Cache caches nothing.
type Cache struct {
	maps *ristretto.Cache[string, *model.Map]
	ttl  time.Duration
}

// NewCache holds up to maxMaps maps for ttl each. It returns nil, nil when
// maxMaps is not positive.
func NewCache(maxMaps int64, ttl time.Duration) (*Cache, error) {
	if maxMaps <= 0 {
		return nil, nil
	}
	maps, err := ristretto.NewCache[string, *model.Map](&ristretto.Config[string, *model.Map]{
		NumCounters: maxMaps * 10,
		MaxCost:     maxMaps, // every map costs 1
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create map cache: %w", err)
	}
	return &Cache{maps: maps, ttl: ttl}, nil
}

func cacheKey(tileset string, p model.Params) (string, bool) {
	if p.Seed == 0 {
		return "", false
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", false
	}
	return tileset + "|" + string(raw), true
}

// Get returns the cached map for p. Callers must not modify it.
func (c *Cache) Get(tileset string, p model.Params) (*model.Map, bool) {
	if c == nil {
		return nil, false
	}
	key, ok := cacheKey(tileset, p)
	if !ok {
		return nil, false
	}
	return c.maps.Get(key)
}

func (c *Cache) Set(tileset string, p model.Params, m *model.Map) {
	if c == nil || m == nil {
		return
	}
	key, ok := cacheKey(tileset, p)
	if !ok {
		return
	}
	c.maps.SetWithTTL(key, m, 1, c.ttl)
	c.maps.Wait()
}

func (c *Cache) Close() {
	if c != nil {
		c.maps.Close()
	}
}
