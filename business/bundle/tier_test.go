//go:build !integration

package bundle

import (
	"mixMatchBundles/domain"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolveTier(t *testing.T) {
	tiers := []domain.DiscountTier{
		{Quantity: 2, Discount: 10},
		{Quantity: 4, Discount: 15},
		{Quantity: 6, Discount: 20},
	}

	tests := []struct {
		name  string
		count int
		want  domain.DiscountTier
	}{
		{"below every tier", 1, domain.DiscountTier{Quantity: 1, Discount: 0}},
		{"zero items", 0, domain.NoDiscountTier},
		{"exactly the lowest threshold", 2, domain.DiscountTier{Quantity: 2, Discount: 10}},
		{"between thresholds", 5, domain.DiscountTier{Quantity: 4, Discount: 15}},
		{"exactly the highest threshold", 6, domain.DiscountTier{Quantity: 6, Discount: 20}},
		{"above every threshold", 40, domain.DiscountTier{Quantity: 6, Discount: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTier(tiers, tt.count))
		})
	}
}

func TestResolveTier_EmptyTiers(t *testing.T) {
	assert.Equal(t, domain.NoDiscountTier, ResolveTier(nil, 10))
	assert.Equal(t, domain.NoDiscountTier, ResolveTier([]domain.DiscountTier{}, 3))
}

func TestResolveTier_InputOrderDoesNotMatter(t *testing.T) {
	orders := [][]domain.DiscountTier{
		{{Quantity: 2, Discount: 10}, {Quantity: 4, Discount: 15}, {Quantity: 6, Discount: 20}},
		{{Quantity: 6, Discount: 20}, {Quantity: 2, Discount: 10}, {Quantity: 4, Discount: 15}},
		{{Quantity: 4, Discount: 15}, {Quantity: 6, Discount: 20}, {Quantity: 2, Discount: 10}},
	}

	for n := 0; n <= 8; n++ {
		want := ResolveTier(orders[0], n)
		for _, tiers := range orders[1:] {
			assert.Equal(t, want, ResolveTier(tiers, n), "count %d", n)
		}
	}
}

func TestResolveTier_DuplicateQuantityFirstWins(t *testing.T) {
	tiers := []domain.DiscountTier{
		{Quantity: 3, Discount: 10},
		{Quantity: 3, Discount: 25},
	}
	assert.Equal(t, domain.DiscountTier{Quantity: 3, Discount: 10}, ResolveTier(tiers, 3))

	reversed := []domain.DiscountTier{
		{Quantity: 3, Discount: 25},
		{Quantity: 3, Discount: 10},
	}
	assert.Equal(t, domain.DiscountTier{Quantity: 3, Discount: 25}, ResolveTier(reversed, 3))
}

func TestResolveTier_DoesNotReorderInput(t *testing.T) {
	tiers := []domain.DiscountTier{{Quantity: 2, Discount: 5}, {Quantity: 4, Discount: 10}}
	_ = ResolveTier(tiers, 4)
	assert.Equal(t, 2, tiers[0].Quantity)
}

func TestDiscountAmount(t *testing.T) {
	tier := domain.DiscountTier{Quantity: 2, Discount: 5}
	assert.True(t, decimal.NewFromInt(1).Equal(DiscountAmount(decimal.NewFromInt(20), tier, 2)))

	third := domain.DiscountTier{Quantity: 3, Discount: 33.333}
	assert.Equal(t, "3.33", DiscountAmount(decimal.NewFromInt(10), third, 2).StringFixed(2))

	assert.True(t, DiscountAmount(decimal.NewFromInt(10), domain.NoDiscountTier, 2).IsZero())
}
