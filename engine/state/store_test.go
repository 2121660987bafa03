package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewMemStore()

	value, err := store.Get("missing")
	require.NoError(t, err)
	require.Nil(t, value)

	has, err := store.Has("missing")
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, store.Set("clients/test/clientState", []byte("cs")))

	value, err = store.Get("clients/test/clientState")
	require.NoError(t, err)
	require.Equal(t, []byte("cs"), value)

	has, err = store.Has("clients/test/clientState")
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, store.Delete("clients/test/clientState"))
	has, err = store.Has("clients/test/clientState")
	require.NoError(t, err)
	require.False(t, has)

	// deleting an absent path is a no-op
	require.NoError(t, store.Delete("missing"))
}
