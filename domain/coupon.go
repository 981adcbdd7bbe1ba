package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CouponState is the lifecycle position of a bundle's synthetic coupon.
type CouponState string

const (
	CouponStateNone       CouponState = "NONE"
	CouponStatePending    CouponState = "PENDING"
	CouponStateCreated    CouponState = "CREATED"
	CouponStateApplied    CouponState = "APPLIED"
	CouponStateConsumed   CouponState = "CONSUMED"
	CouponStateExpired    CouponState = "EXPIRED"
	CouponStateSuperseded CouponState = "SUPERSEDED"
)

// Coupon is a synthetic single-purpose discount code carrying a bundle's
// discount through cart, checkout and order.
type Coupon struct {
	ID            uint64                      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string                      `gorm:"column:code;type:text;uniqueIndex;not null" json:"code"`
	Amount        decimal.Decimal             `gorm:"column:amount;type:numeric(20,4)" json:"amount"`
	BundleID      uint64                      `gorm:"column:bundle_id;index" json:"bundle_id"`
	ProductIDs    datatypes.JSONSlice[uint64] `gorm:"column:product_ids" json:"product_ids"`
	IndividualUse bool                        `gorm:"column:individual_use" json:"individual_use"`
	UsageLimit    int                         `gorm:"column:usage_limit" json:"usage_limit"`
	UsageCount    int                         `gorm:"column:usage_count;default:0" json:"usage_count"`
	SessionID     string                      `gorm:"column:session_id;type:text" json:"-"`
	SupersededAt  *time.Time                  `gorm:"column:superseded_at" json:"superseded_at,omitempty"`
	CreatedAt     time.Time                   `gorm:"column:created_at;index" json:"created_at"`
}

func (Coupon) TableName() string {
	return "bundle_coupons"
}

func (c Coupon) IsUsed() bool {
	return c.UsageCount > 0
}

// CanBeUsed reports whether the usage limit still allows a redemption.
func (c Coupon) CanBeUsed() bool {
	return c.UsageLimit <= 0 || c.UsageCount < c.UsageLimit
}

// State of a coupon record that still exists. Expired coupons have been
// deleted and have no record.
func (c Coupon) State() CouponState {
	switch {
	case c.IsUsed():
		return CouponStateConsumed
	case c.SupersededAt != nil:
		return CouponStateSuperseded
	default:
		return CouponStateCreated
	}
}

// CouponSummary aggregates synthetic coupons per bundle. BundleName is empty
// and BundleDeleted set when the bundle no longer exists.
type CouponSummary struct {
	BundleID      uint64          `json:"bundle_id"`
	BundleName    string          `json:"bundle_name"`
	BundleDeleted bool            `json:"bundle_deleted"`
	Created       int             `json:"created"`
	Used          int             `json:"used"`
	Outstanding   int             `json:"outstanding"`
	UsedAmount    decimal.Decimal `json:"used_amount"`
}

// SweepResult is the outcome of one coupon janitor run.
type SweepResult struct {
	DeletedCount int       `json:"deleted_count"`
	KeptCount    int       `json:"kept_count"`
	SkippedCount int       `json:"skipped_count"`
	RanAt        time.Time `json:"ran_at"`
	Cached       bool      `json:"cached"`
}
