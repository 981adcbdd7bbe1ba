package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Selection is one chosen item of a bundle. Choosing the same product three
// times is three selections.
type Selection struct {
	ProductID   uint64 `json:"product_id" validate:"required"`
	VariationID uint64 `json:"variation_id"`
}

// PendingSelection is the session-scoped record of a shopper's bundle
// choice. DiscountAmount is fixed when the bundle is added to the cart.
type PendingSelection struct {
	BundleID       uint64          `json:"bundle_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ProductIDs     []uint64        `json:"product_ids"`
	VariationIDs   []uint64        `json:"variation_ids"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Matches reports whether a cart line belongs to this selection.
func (p PendingSelection) Matches(item CartItem) bool {
	if item.VariationID != 0 {
		for _, id := range p.VariationIDs {
			if id == item.VariationID {
				return true
			}
		}
	}
	for _, id := range p.ProductIDs {
		if id == item.ProductID {
			return true
		}
	}
	return false
}

// SelectionState derives the coupon lifecycle state seen by a session.
func SelectionState(sel *PendingSelection, cart *Cart) CouponState {
	if sel == nil {
		return CouponStateNone
	}
	if sel.CouponCode == "" {
		return CouponStatePending
	}
	if cart != nil && cart.HasCoupon(sel.CouponCode) {
		return CouponStateApplied
	}
	return CouponStateCreated
}

type PreviewProduct struct {
	ID    uint64          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type PreviewResult struct {
	BundleID           uint64           `json:"bundle_id"`
	Products           []PreviewProduct `json:"products"`
	Subtotal           decimal.Decimal  `json:"subtotal"`
	DiscountPercentage float64          `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal  `json:"discount_amount"`
	TotalPrice         decimal.Decimal  `json:"total_price"`
	ItemCount          int              `json:"item_count"`
	Tier               DiscountTier     `json:"tier"`
}
