// Package cache keeps parsed blocks per document so unchanged content is
// not parsed twice.
package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/yaklabco/ifdeflens/pkg/directive"
)

// Revision identifies one version of a document's content.
type Revision uint64

// RevisionOf hashes content into a Revision.
func RevisionOf(content []byte) Revision {
	return Revision(xxhash.Sum64(content))
}

type entry struct {
	revision Revision
	blocks   []directive.Block
}

// Cache maps document keys to the blocks parsed from one revision.
// The zero value is not usable; call New. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	hits    uint64
	misses  uint64
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Get returns the blocks stored for key if they were parsed from revision.
func (c *Cache) Get(key string, revision Revision) ([]directive.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cached, ok := c.entries[key]
	if ok && cached.revision == revision {
		c.hits++
		return cached.blocks, true
	}
	c.misses++
	return nil, false
}

// Set stores blocks for key at revision, replacing any older entry.
func (c *Cache) Set(key string, revision Revision, blocks []directive.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{revision: revision, blocks: blocks}
}

// Remove drops the entry for key.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns the hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Parse returns the cached blocks for key when content is unchanged, and
// otherwise parses content and caches the result. Failed parses are not
// cached, so the error is reported again on the next call.
func (c *Cache) Parse(key string, content []byte, families directive.Families) ([]directive.Block, bool, error) {
	revision := RevisionOf(content)
	if blocks, ok := c.Get(key, revision); ok {
		return blocks, true, nil
	}

	blocks, err := directive.ParseContent(content, families)
	if err != nil {
		c.Remove(key)
		return nil, false, err
	}
	c.Set(key, revision, blocks)
	return blocks, false, nil
}
