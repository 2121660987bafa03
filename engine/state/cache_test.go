package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheReadThrough(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set("a", []byte("parent")))

	cache := NewCache(store)

	value, err := cache.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("parent"), value)

	has, err := cache.Has("a")
	require.NoError(t, err)
	require.True(t, has)
}

func TestCacheBuffersUntilCommit(t *testing.T) {
	store := NewMemStore()
	cache := NewCache(store)

	require.NoError(t, cache.Set("a", []byte("buffered")))

	// the cache sees its own write
	value, err := cache.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("buffered"), value)

	// the parent does not, until commit
	value, err = store.Get("a")
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, cache.Commit())

	value, err = store.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("buffered"), value)
}

func TestCacheDelete(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Set("a", []byte("parent")))

	cache := NewCache(store)
	require.NoError(t, cache.Delete("a"))

	// the pending delete shadows the parent value
	value, err := cache.Get("a")
	require.NoError(t, err)
	require.Nil(t, value)

	has, err := cache.Has("a")
	require.NoError(t, err)
	require.False(t, has)

	// the parent still holds it
	has, err = store.Has("a")
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, cache.Commit())

	has, err = store.Has("a")
	require.NoError(t, err)
	require.False(t, has)
}

func TestCacheDiscard(t *testing.T) {
	store := NewMemStore()
	cache := NewCache(store)

	require.NoError(t, cache.Set("a", []byte("abandoned")))

	// dropping the cache without commit leaves the parent untouched
	value, err := store.Get("a")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestCacheCommitResets(t *testing.T) {
	store := NewMemStore()
	cache := NewCache(store)

	require.NoError(t, cache.Set("a", []byte("one")))
	require.NoError(t, cache.Commit())

	require.NoError(t, store.Set("a", []byte("two")))

	// a committed cache reads through again instead of replaying old writes
	value, err := cache.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("two"), value)

	require.NoError(t, cache.Commit())
	value, err = store.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("two"), value)
}

func TestCacheValueCopied(t *testing.T) {
	store := NewMemStore()
	cache := NewCache(store)

	buf := []byte("original")
	require.NoError(t, cache.Set("a", buf))
	buf[0] = 'X'

	value, err := cache.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), value)
}
