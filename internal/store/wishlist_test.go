package store

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist_AddRemove(t *testing.T) {
	w := NewWishlist(filepath.Join(t.TempDir(), "wishlist.json"))

	ids, err := w.Get("alex")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = w.Update("alex", 42, WishlistAdd)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, ids)

	// Adding twice is a no-op.
	ids, err = w.Update("alex", 42, WishlistAdd)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, ids)

	ids, err = w.Update("alex", 7, WishlistAdd)
	require.NoError(t, err)
	assert.Equal(t, []int{42, 7}, ids)

	ids, err = w.Update("alex", 42, WishlistRemove)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ids)

	// Removing an absent ID is a no-op.
	ids, err = w.Update("alex", 999, WishlistRemove)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, ids)
}

func TestWishlist_UsersAreIsolated(t *testing.T) {
	w := NewWishlist(filepath.Join(t.TempDir(), "wishlist.json"))

	_, err := w.Update("alex", 1, WishlistAdd)
	require.NoError(t, err)

	ids, err := w.Get("sam")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestWishlist_UnknownAction(t *testing.T) {
	w := NewWishlist(filepath.Join(t.TempDir(), "wishlist.json"))
	_, err := w.Update("alex", 1, "toggle")
	require.Error(t, err)
}

func TestWishlist_ConcurrentAdds(t *testing.T) {
	w := NewWishlist(filepath.Join(t.TempDir(), "wishlist.json"))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := w.Update("alex", id, WishlistAdd)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	ids, err := w.Get("alex")
	require.NoError(t, err)
	assert.Len(t, ids, 20)
}
