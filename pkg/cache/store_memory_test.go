package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_MissOnEmpty(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "reports", "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore_SetGetRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "reports", "k1", []byte(`{"total":5}`)))

	got, err := store.Get(ctx, "reports", "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"total":5}`), got)
}

func TestMemoryStore_OverwriteIsPermitted(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "reports", "k1", []byte("old")))
	require.NoError(t, store.Set(ctx, "reports", "k1", []byte("new")))

	got, err := store.Get(ctx, "reports", "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestMemoryStore_FlushDropsWholeNamespace(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "reports", "k1", []byte("a")))
	require.NoError(t, store.Set(ctx, "reports", "k2", []byte("b")))
	require.NoError(t, store.Set(ctx, "other", "k1", []byte("c")))

	require.NoError(t, store.Flush(ctx, "reports"))

	_, err := store.Get(ctx, "reports", "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "reports", "k2")
	assert.ErrorIs(t, err, ErrCacheMiss)

	// Other namespaces survive the flush.
	got, err := store.Get(ctx, "other", "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "reports", "k1", []byte("abc")))

	got, err := store.Get(ctx, "reports", "k1")
	require.NoError(t, err)
	got[0] = 'X'

	again, err := store.Get(ctx, "reports", "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = store.Set(ctx, "reports", "shared", []byte("v"))
				_, _ = store.Get(ctx, "reports", "shared")
				_ = store.Flush(ctx, "reports")
			}
		}()
	}
	wg.Wait()
}
