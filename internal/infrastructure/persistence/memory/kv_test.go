package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/v1/internal/infrastructure/persistence/memory"
	"github.com/platewise/v1/internal/ports/outbound"
)

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()

	require.NoError(t, store.Put(ctx, "k", []byte("v1")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, store.Put(ctx, "k", []byte("v2")))
	got, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestKVStoreMissingKey(t *testing.T) {
	store := memory.NewKVStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, outbound.ErrKeyNotFound)
}

func TestKVStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()

	require.NoError(t, store.Put(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrKeyNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestKVStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()

	value := []byte("original")
	require.NoError(t, store.Put(ctx, "k", value))
	value[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}
