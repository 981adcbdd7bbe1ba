package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
)

type Order struct {
	ID          uint64                        `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID   string                        `gorm:"column:session_id;type:text;index" json:"-"`
	Items       datatypes.JSONSlice[CartItem] `gorm:"column:items" json:"items"`
	CouponCodes datatypes.JSONSlice[string]   `gorm:"column:coupon_codes" json:"coupon_codes"`
	BundleID    uint64                        `gorm:"column:bundle_id;index" json:"bundle_id,omitempty"`
	Subtotal    decimal.Decimal               `gorm:"column:subtotal;type:numeric(20,4)" json:"subtotal"`
	Discount    decimal.Decimal               `gorm:"column:discount;type:numeric(20,4)" json:"discount"`
	Total       decimal.Decimal               `gorm:"column:total;type:numeric(20,4)" json:"total"`
	Status      string                        `gorm:"column:status;type:text" json:"status"`
	CreatedAt   time.Time                     `gorm:"column:created_at" json:"created_at"`
}

func (Order) TableName() string {
	return "bundle_orders"
}
