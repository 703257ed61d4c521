package plancache

import (
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a bounded LRU of prepared query plans keyed by a hash of the
// incoming request. Planning is deterministic for identical input, so a
// hit returns a plan byte-identical to what replanning would produce.
type Cache[V any] struct {
	c *lru.Cache[uint64, V]
}

func New[V any](size int) (*Cache[V], error) {
	c, err := lru.New[uint64, V](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{c: c}, nil
}

// Key hashes a raw query and operation name into a cache key.
func Key(query, operationName string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(query)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(operationName)
	return d.Sum64()
}

func (c *Cache[V]) Get(key uint64) (V, bool) { return c.c.Get(key) }

func (c *Cache[V]) Add(key uint64, v V) { c.c.Add(key, v) }

func (c *Cache[V]) Len() int { return c.c.Len() }
