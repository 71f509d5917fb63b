// Package qcache provides a bounded LRU cache of per-query null
// structures, keyed by a content hash of the query PWM and the quantizer
// parameters used to build it. It's a bounded LRU: a doubly-linked list
// plus map, evicted past capacity, guarded by a single mutex since writes
// only happen on null construction.
package qcache

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"github.com/jmschrei/memesuite-lite/pkg/pwm"
)

// Key identifies a cache entry: the content hash of a query PWM together
// with the quantizer parameters (n_score_bins, n_median_bins) that were
// used to build the null against a particular target database.
type Key [sha256.Size]byte

// NewKey hashes a query PWM and the quantizer/null parameters that
// determine its null distribution.
func NewKey(q pwm.Matrix, nScoreBins, nMedianBins int) Key {
	h := sha256.New()
	var buf [8]byte
	for _, col := range q {
		for _, v := range col {
			binary.LittleEndian.PutUint64(buf[:], uint64(int64(v*1e9)))
			h.Write(buf[:])
		}
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(nScoreBins))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(nMedianBins))
	h.Write(buf[:])

	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Cache is a size-bounded, mutex-guarded LRU keyed by Key. A capacity of
// 0 disables caching entirely: every Get misses and Put is a no-op.
type Cache[V any] struct {
	mu  sync.Mutex
	cap int
	ll  *list.List
	m   map[Key]*list.Element
}

type entry[V any] struct {
	key   Key
	value V
}

// New builds a Cache with the given capacity.
func New[V any](capacity int) *Cache[V] {
	return &Cache[V]{cap: capacity, ll: list.New(), m: make(map[Key]*list.Element, capacity)}
}

// Get returns the cached value for key, if present, promoting it to the
// front of the LRU order.
func (c *Cache[V]) Get(key Key) (V, bool) {
	if c.cap <= 0 {
		var zero V
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.ll.MoveToFront(e)
	return e.Value.(*entry[V]).value, true
}

// Put inserts or updates the value for key, evicting the least recently
// used entry if the cache is over capacity.
func (c *Cache[V]) Put(key Key, value V) {
	if c.cap <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok {
		e.Value.(*entry[V]).value = value
		c.ll.MoveToFront(e)
		return
	}

	e := c.ll.PushFront(&entry[V]{key: key, value: value})
	c.m[key] = e
	if c.ll.Len() > c.cap {
		tail := c.ll.Back()
		if tail != nil {
			c.ll.Remove(tail)
			delete(c.m, tail.Value.(*entry[V]).key)
		}
	}
}

// Len reports the number of entries currently cached.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
