package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bananina/storefront-api/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	token := NewToken()

	sess := &Session{
		UserID:  7,
		Email:   "ana@bananina.test",
		Roles:   []string{"customer"},
		IsAdmin: false,
		Cart: models.Cart{Items: []models.CartItem{
			{ProductID: 3, Name: "Chelsea Medium Backpack", Price: 2450000, Quantity: 1},
		}},
	}
	require.NoError(t, store.Set(ctx, token, sess, time.Hour))

	got, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Roles, got.Roles)
	require.Len(t, got.Cart.Items, 1)
	assert.Equal(t, uint(3), got.Cart.Items[0].ProductID)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	token := NewToken()

	require.NoError(t, store.Set(ctx, token, &Session{UserID: 1}, time.Hour))

	first, err := store.Get(ctx, token)
	require.NoError(t, err)
	first.Cart.Items = append(first.Cart.Items, models.CartItem{ProductID: 9, Quantity: 2})

	// Mutating a returned session must not leak into the store.
	second, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, second.Cart.Items)
}

func TestMemoryStoreMissingToken(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), NewToken())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	token := NewToken()

	require.NoError(t, store.Set(ctx, token, &Session{UserID: 1}, -time.Second))
	_, err := store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDestroy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	token := NewToken()

	require.NoError(t, store.Set(ctx, token, &Session{UserID: 1}, time.Hour))
	require.NoError(t, store.Destroy(ctx, token))
	_, err := store.Get(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewTokenIsUniqueAndOpaque(t *testing.T) {
	a, b := NewToken(), NewToken()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
