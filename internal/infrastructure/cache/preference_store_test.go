package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPreferenceStore_RecencyOrder(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.TouchCategory(ctx, userID, "shoes"))
	require.NoError(t, store.TouchCategory(ctx, userID, "bags"))
	require.NoError(t, store.TouchCategory(ctx, userID, "shoes"))

	slugs, err := store.RecentCategories(ctx, userID)
	require.NoError(t, err)
	// re-touching moves the slug to the front without duplicating it
	assert.Equal(t, []string{"shoes", "bags"}, slugs)
}

func TestInMemoryPreferenceStore_CapsList(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < maxRecentCategories+5; i++ {
		require.NoError(t, store.TouchCategory(ctx, userID, uuid.NewString()))
	}

	slugs, err := store.RecentCategories(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, slugs, maxRecentCategories)
}

func TestInMemoryPreferenceStore_Greeting(t *testing.T) {
	store := NewInMemoryPreferenceStore()
	ctx := context.Background()
	userID := uuid.New()

	greeted, err := store.WasGreeted(ctx, userID)
	require.NoError(t, err)
	assert.False(t, greeted)

	require.NoError(t, store.MarkGreeted(ctx, userID))

	greeted, err = store.WasGreeted(ctx, userID)
	require.NoError(t, err)
	assert.True(t, greeted)

	// another user is unaffected
	greeted, err = store.WasGreeted(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, greeted)
}
