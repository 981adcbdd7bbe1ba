//go:build !integration

package redis

import (
	"context"
	"mixMatchBundles/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestSessionRepository_Selection(t *testing.T) {
	mr, client := newClient(t)
	repo := NewSessionRepository(client, 2*time.Hour)
	ctx := context.Background()

	got, err := repo.GetSelection(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	sel := domain.PendingSelection{
		BundleID:       3,
		DiscountAmount: decimal.RequireFromString("4.50"),
		ProductIDs:     []uint64{10, 11},
		VariationIDs:   []uint64{},
		CouponCode:     "mmbundle_x",
		CreatedAt:      time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
	require.NoError(t, repo.SaveSelection(ctx, "abc", sel))

	got, err = repo.GetSelection(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(3), got.BundleID)
	assert.Equal(t, "4.5", got.DiscountAmount.String())
	assert.Equal(t, []uint64{10, 11}, got.ProductIDs)
	assert.Equal(t, "mmbundle_x", got.CouponCode)
	assert.True(t, sel.CreatedAt.Equal(got.CreatedAt))

	assert.Equal(t, 2*time.Hour, mr.TTL(selectionKey("abc")))

	mr.FastForward(3 * time.Hour)
	got, err = repo.GetSelection(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got, "selection expires")
}

func TestSessionRepository_CartRefreshesSelectionTTL(t *testing.T) {
	mr, client := newClient(t)
	repo := NewSessionRepository(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.SaveSelection(ctx, "abc", domain.PendingSelection{BundleID: 1}))
	mr.FastForward(50 * time.Minute)

	cart := domain.Cart{Items: []domain.CartItem{{ProductID: 10, Quantity: 2, UnitPrice: decimal.NewFromInt(3)}}}
	cart.Recalculate(2)
	require.NoError(t, repo.SaveCart(ctx, "abc", cart))

	mr.FastForward(50 * time.Minute)
	sel, err := repo.GetSelection(ctx, "abc")
	require.NoError(t, err)
	assert.NotNil(t, sel)

	got, err := repo.GetCart(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "6", got.Total.String())

	require.NoError(t, repo.DeleteCart(ctx, "abc"))
	require.NoError(t, repo.DeleteSelection(ctx, "abc"))

	got, err = repo.GetCart(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	sel, err = repo.GetSelection(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, sel)
}

func TestSweepCache(t *testing.T) {
	mr, client := newClient(t)
	cache := NewSweepCache(client)
	ctx := context.Background()

	got, err := cache.GetSweepResult(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.SaveSweepResult(ctx, domain.SweepResult{DeletedCount: 2, KeptCount: 1}, time.Hour))

	got, err = cache.GetSweepResult(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.DeletedCount)
	assert.Equal(t, 1, got.KeptCount)

	mr.FastForward(time.Hour + time.Second)
	got, err = cache.GetSweepResult(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenRepository(t *testing.T) {
	_, client := newClient(t)
	repo := NewTokenRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.StoreToken(ctx, "admin", "tok", time.Hour))

	userID, err := repo.ValidateToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "admin", userID)

	require.NoError(t, repo.RevokeToken(ctx, "tok"))
	_, err = repo.ValidateToken(ctx, "tok")
	assert.Error(t, err)
}
