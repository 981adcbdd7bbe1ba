package pricing

import (
	"mixMatchBundles/business/bundle"
	"mixMatchBundles/domain"

	"github.com/shopspring/decimal"
)

// LiveFee is the bundle discount recomputed from the current cart lines.
type LiveFee struct {
	Quantity  int                 `json:"quantity"`
	LineTotal decimal.Decimal     `json:"line_total"`
	Tier      domain.DiscountTier `json:"tier"`
	Discount  decimal.Decimal     `json:"discount"`
}

// FeeDiscount sums quantity and line totals of the cart lines matching the
// pending selection and prices them against the live quantity. The result is
// reported next to the cart and never applied: the committed coupon is the
// only discount on the cart.
func FeeDiscount(sel domain.PendingSelection, cart domain.Cart, tiers []domain.DiscountTier, precision int32) LiveFee {
	fee := LiveFee{LineTotal: decimal.Zero}

	for _, item := range cart.Items {
		if !sel.Matches(item) {
			continue
		}
		fee.Quantity += item.Quantity
		fee.LineTotal = fee.LineTotal.Add(item.LineTotal)
	}

	fee.Tier = bundle.ResolveTier(tiers, fee.Quantity)
	fee.Discount = bundle.DiscountAmount(fee.LineTotal, fee.Tier, precision)

	return fee
}
