package bundle

import (
	"mixMatchBundles/domain"
	"sort"

	"github.com/shopspring/decimal"
)

// ResolveTier returns the tier with the largest quantity threshold met by
// itemCount, or domain.NoDiscountTier. Thresholds are inclusive. Among tiers
// sharing a quantity the first one in input order wins.
func ResolveTier(tiers []domain.DiscountTier, itemCount int) domain.DiscountTier {
	if itemCount <= 0 || len(tiers) == 0 {
		return domain.NoDiscountTier
	}

	sorted := make([]domain.DiscountTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Quantity > sorted[j].Quantity
	})

	for _, tier := range sorted {
		if tier.Quantity <= itemCount {
			return tier
		}
	}

	return domain.NoDiscountTier
}

// DiscountAmount is subtotal * tier.Discount / 100 rounded to the currency
// precision. It is not capped by anything but the percentage.
func DiscountAmount(subtotal decimal.Decimal, tier domain.DiscountTier, precision int32) decimal.Decimal {
	if tier.Discount <= 0 {
		return decimal.Zero
	}

	return subtotal.
		Mul(decimal.NewFromFloat(tier.Discount)).
		Div(decimal.NewFromInt(100)).
		Round(precision)
}
