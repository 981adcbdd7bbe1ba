package domain

import "github.com/shopspring/decimal"

type CartItem struct {
	ProductID   uint64          `json:"product_id"`
	VariationID uint64          `json:"variation_id,omitempty"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SellableID is the variation id when set, else the product id.
func (i CartItem) SellableID() uint64 {
	if i.VariationID != 0 {
		return i.VariationID
	}
	return i.ProductID
}

type AppliedCoupon struct {
	Code       string          `json:"code"`
	Amount     decimal.Decimal `json:"amount"`
	ProductIDs []uint64        `json:"product_ids,omitempty"`
	Discount   decimal.Decimal `json:"discount"`
}

// Cart is the shopper's session cart.
type Cart struct {
	Items    []CartItem      `json:"items"`
	Coupons  []AppliedCoupon `json:"coupons"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) HasCoupon(code string) bool {
	for _, cp := range c.Coupons {
		if cp.Code == code {
			return true
		}
	}
	return false
}

// AddItem merges quantities for an already present product/variation.
func (c *Cart) AddItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID && c.Items[i].VariationID == item.VariationID {
			c.Items[i].Quantity += item.Quantity
			c.Items[i].UnitPrice = item.UnitPrice
			return
		}
	}
	c.Items = append(c.Items, item)
}

// ApplyCoupon returns false when the code is already on the cart.
func (c *Cart) ApplyCoupon(coupon AppliedCoupon) bool {
	if c.HasCoupon(coupon.Code) {
		return false
	}
	c.Coupons = append(c.Coupons, coupon)
	return true
}

func (c *Cart) RemoveCoupon(code string) bool {
	for i, cp := range c.Coupons {
		if cp.Code == code {
			c.Coupons = append(c.Coupons[:i], c.Coupons[i+1:]...)
			return true
		}
	}
	return false
}

// CouponCodes lists the applied codes in application order.
func (c *Cart) CouponCodes() []string {
	codes := make([]string, 0, len(c.Coupons))
	for _, cp := range c.Coupons {
		codes = append(codes, cp.Code)
	}
	return codes
}

// Recalculate refreshes line totals, coupon discounts and cart totals.
// A coupon discounts at most the subtotal of the lines it is restricted to,
// and the cart discount never exceeds the subtotal.
func (c *Cart) Recalculate(precision int32) {
	subtotal := decimal.Zero
	for i := range c.Items {
		line := c.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity))).Round(precision)
		c.Items[i].LineTotal = line
		subtotal = subtotal.Add(line)
	}

	discount := decimal.Zero
	for i := range c.Coupons {
		eligible := c.eligibleSubtotal(c.Coupons[i].ProductIDs)
		d := decimal.Min(c.Coupons[i].Amount, eligible)
		if remaining := subtotal.Sub(discount); d.GreaterThan(remaining) {
			d = remaining
		}
		c.Coupons[i].Discount = d.Round(precision)
		discount = discount.Add(c.Coupons[i].Discount)
	}

	c.Subtotal = subtotal
	c.Discount = discount
	c.Total = subtotal.Sub(discount)
}

func (c *Cart) eligibleSubtotal(productIDs []uint64) decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		if len(productIDs) == 0 || containsID(productIDs, it.ProductID) || (it.VariationID != 0 && containsID(productIDs, it.VariationID)) {
			total = total.Add(it.LineTotal)
		}
	}
	return total
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
