package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ifdeflens/pkg/cache"
	"github.com/yaklabco/ifdeflens/pkg/directive"
)

const source = "// #ifdef H5\nweb()\n// #endif\n"

func TestRevisionOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cache.RevisionOf([]byte(source)), cache.RevisionOf([]byte(source)))
	assert.NotEqual(t, cache.RevisionOf([]byte(source)), cache.RevisionOf([]byte(source+" ")))
}

func TestCache_GetSet(t *testing.T) {
	t.Parallel()

	c := cache.New()
	blocks := []directive.Block{{Condition: "H5"}}

	_, ok := c.Get("a.vue", 1)
	assert.False(t, ok)

	c.Set("a.vue", 1, blocks)
	got, ok := c.Get("a.vue", 1)
	require.True(t, ok)
	assert.Equal(t, blocks, got)

	_, ok = c.Get("a.vue", 2)
	assert.False(t, ok, "a new revision must miss")

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(2), misses)
}

func TestCache_Remove(t *testing.T) {
	t.Parallel()

	c := cache.New()
	c.Set("a.js", 1, nil)
	c.Set("b.js", 1, nil)
	assert.Equal(t, 2, c.Len())

	c.Remove("a.js")
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("a.js", 1)
	assert.False(t, ok)

	c.Remove("missing")
	assert.Equal(t, 1, c.Len())
}

func TestCache_Parse(t *testing.T) {
	t.Parallel()

	c := cache.New()

	blocks, hit, err := c.Parse("a.js", []byte(source), directive.FamilyLine)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, blocks, 1)

	again, hit, err := c.Parse("a.js", []byte(source), directive.FamilyLine)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, blocks, again)
}

func TestCache_ParseFailureIsNotCached(t *testing.T) {
	t.Parallel()

	c := cache.New()

	_, _, err := c.Parse("a.js", []byte(source), directive.FamilyLine)
	require.NoError(t, err)

	_, hit, err := c.Parse("a.js", []byte("// #endif\n"), directive.FamilyLine)
	require.ErrorIs(t, err, directive.ErrUnbalanced)
	assert.False(t, hit)
	assert.Zero(t, c.Len(), "a malformed revision evicts the stale entry")
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.New()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_, _, err := c.Parse("shared.js", []byte(source), directive.FamilyLine)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	hits, misses := c.Stats()
	assert.Equal(t, uint64(16*50), hits+misses)
	assert.Equal(t, 1, c.Len())
}
