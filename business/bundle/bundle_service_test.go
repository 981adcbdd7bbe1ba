//go:build !integration

package bundle

import (
	"context"
	"mixMatchBundles/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeBundleRepo struct {
	rows   map[uint64]domain.Bundle
	nextID uint64
}

func newFakeBundleRepo() *fakeBundleRepo {
	return &fakeBundleRepo{rows: make(map[uint64]domain.Bundle)}
}

func (r *fakeBundleRepo) Create(ctx context.Context, b *domain.Bundle) error {
	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.rows[b.ID] = clone(*b)
	return nil
}

func (r *fakeBundleRepo) FindByID(ctx context.Context, id uint64) (domain.Bundle, error) {
	b, ok := r.rows[id]
	if !ok {
		return domain.Bundle{}, domain.ErrBundleNotFound
	}
	return clone(b), nil
}

func (r *fakeBundleRepo) FindAll(ctx context.Context, enabledOnly bool) ([]domain.Bundle, error) {
	var out []domain.Bundle
	for id := uint64(1); id <= r.nextID; id++ {
		if b, ok := r.rows[id]; ok && (!enabledOnly || b.Enabled) {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (r *fakeBundleRepo) Update(ctx context.Context, b *domain.Bundle) error {
	if _, ok := r.rows[b.ID]; !ok {
		return domain.ErrBundleNotFound
	}
	b.UpdatedAt = time.Now()
	r.rows[b.ID] = clone(*b)
	return nil
}

func (r *fakeBundleRepo) Delete(ctx context.Context, id uint64) error {
	if _, ok := r.rows[id]; !ok {
		return domain.ErrBundleNotFound
	}
	delete(r.rows, id)
	return nil
}

func clone(b domain.Bundle) domain.Bundle {
	b.ProductIDs = append(datatypes.JSONSlice[uint64]{}, b.ProductIDs...)
	b.DiscountTiers = append(datatypes.JSONSlice[domain.DiscountTier]{}, b.DiscountTiers...)
	return b
}

func validBundle() *domain.Bundle {
	return &domain.Bundle{
		Name:       "Snack box",
		ProductIDs: datatypes.JSONSlice[uint64]{101, 102, 103},
		DiscountTiers: datatypes.JSONSlice[domain.DiscountTier]{
			{Quantity: 5, Discount: 20},
			{Quantity: 3, Discount: 10},
		},
		Enabled: true,
	}
}

func TestCreateBundle_RoundTrip(t *testing.T) {
	repo := newFakeBundleRepo()
	svc := NewBundleService(repo)
	ctx := context.Background()

	created, err := svc.CreateBundle(ctx, validBundle())
	require.NoError(t, err)

	got, err := svc.GetBundle(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, []uint64{101, 102, 103}, []uint64(got.ProductIDs))
	assert.Equal(t, []domain.DiscountTier{
		{Quantity: 3, Discount: 10},
		{Quantity: 5, Discount: 20},
	}, []domain.DiscountTier(got.DiscountTiers))
	assert.Equal(t, domain.CartBehaviorSidecart, got.CartBehavior)
}

func TestCreateBundle_DeduplicatesProductsKeepingOrder(t *testing.T) {
	svc := NewBundleService(newFakeBundleRepo())
	b := validBundle()
	b.ProductIDs = datatypes.JSONSlice[uint64]{103, 101, 103, 0, 102, 101}

	created, err := svc.CreateBundle(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, []uint64{103, 101, 102}, []uint64(created.ProductIDs))
}

func TestCreateBundle_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *domain.Bundle)
		field  string
	}{
		{"missing name", func(b *domain.Bundle) { b.Name = "  " }, "name"},
		{"no products", func(b *domain.Bundle) { b.ProductIDs = nil }, "product_ids"},
		{"no tiers", func(b *domain.Bundle) { b.DiscountTiers = nil }, "discount_tiers"},
		{"zero quantity", func(b *domain.Bundle) {
			b.DiscountTiers = datatypes.JSONSlice[domain.DiscountTier]{{Quantity: 0, Discount: 5}}
		}, "discount_tiers"},
		{"discount above 100", func(b *domain.Bundle) {
			b.DiscountTiers = datatypes.JSONSlice[domain.DiscountTier]{{Quantity: 2, Discount: 101}}
		}, "discount_tiers"},
		{"negative discount", func(b *domain.Bundle) {
			b.DiscountTiers = datatypes.JSONSlice[domain.DiscountTier]{{Quantity: 2, Discount: -1}}
		}, "discount_tiers"},
		{"duplicate quantity", func(b *domain.Bundle) {
			b.DiscountTiers = datatypes.JSONSlice[domain.DiscountTier]{{Quantity: 2, Discount: 5}, {Quantity: 2, Discount: 10}}
		}, "discount_tiers"},
		{"bad cart behavior", func(b *domain.Bundle) { b.CartBehavior = "popup" }, "cart_behavior"},
		{"negative max quantity", func(b *domain.Bundle) { b.MaxQuantity = -1 }, "max_quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeBundleRepo()
			svc := NewBundleService(repo)
			b := validBundle()
			tt.mutate(b)

			_, err := svc.CreateBundle(context.Background(), b)
			require.Error(t, err)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Empty(t, repo.rows)
		})
	}
}

func TestUpdateBundle(t *testing.T) {
	repo := newFakeBundleRepo()
	svc := NewBundleService(repo)
	ctx := context.Background()

	created, err := svc.CreateBundle(ctx, validBundle())
	require.NoError(t, err)

	upd := validBundle()
	upd.ID = created.ID
	upd.Name = "Bigger snack box"
	upd.DiscountTiers = datatypes.JSONSlice[domain.DiscountTier]{{Quantity: 10, Discount: 30}}

	got, err := svc.UpdateBundle(ctx, upd)
	require.NoError(t, err)
	assert.Equal(t, "Bigger snack box", got.Name)
	assert.Len(t, got.DiscountTiers, 1)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestUpdateBundle_NotFound(t *testing.T) {
	svc := NewBundleService(newFakeBundleRepo())
	b := validBundle()
	b.ID = 42

	_, err := svc.UpdateBundle(context.Background(), b)
	assert.ErrorIs(t, err, domain.ErrBundleNotFound)
}

func TestDeleteBundle(t *testing.T) {
	repo := newFakeBundleRepo()
	svc := NewBundleService(repo)
	ctx := context.Background()

	created, err := svc.CreateBundle(ctx, validBundle())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBundle(ctx, created.ID))
	_, err = svc.GetBundle(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrBundleNotFound)

	assert.ErrorIs(t, svc.DeleteBundle(ctx, created.ID), domain.ErrBundleNotFound)
}

func TestListBundles_EnabledOnly(t *testing.T) {
	repo := newFakeBundleRepo()
	svc := NewBundleService(repo)
	ctx := context.Background()

	_, err := svc.CreateBundle(ctx, validBundle())
	require.NoError(t, err)
	disabled := validBundle()
	disabled.Enabled = false
	_, err = svc.CreateBundle(ctx, disabled)
	require.NoError(t, err)

	all, err := svc.ListBundles(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	enabled, err := svc.ListBundles(ctx, true)
	require.NoError(t, err)
	assert.Len(t, enabled, 1)
}
