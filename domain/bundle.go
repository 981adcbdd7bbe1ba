package domain

import (
	"sort"
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.bundles (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name            TEXT NOT NULL,
//     description     TEXT,
//     product_ids     JSONB,
//     discount_tiers  JSONB,
//     ...display and style columns...
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     updated_at      TIMESTAMPTZ DEFAULT NOW()
// );

type CartBehavior string

const (
	CartBehaviorSidecart CartBehavior = "sidecart"
	CartBehaviorRedirect CartBehavior = "redirect"
)

// DiscountTier grants Discount percent off once the selection holds Quantity items.
type DiscountTier struct {
	Quantity int     `json:"quantity"`
	Discount float64 `json:"discount"`
}

// NoDiscountTier is returned when no tier qualifies.
var NoDiscountTier = DiscountTier{Quantity: 1, Discount: 0}

type Bundle struct {
	ID            uint64                            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string                            `gorm:"column:name;type:text;not null" json:"name"`
	Description   string                            `gorm:"column:description;type:text" json:"description"`
	ProductIDs    datatypes.JSONSlice[uint64]       `gorm:"column:product_ids" json:"product_ids"`
	DiscountTiers datatypes.JSONSlice[DiscountTier] `gorm:"column:discount_tiers" json:"discount_tiers"`

	ShowTitle       bool `gorm:"column:show_title" json:"show_title"`
	ShowDescription bool `gorm:"column:show_description" json:"show_description"`
	ShowPrice       bool `gorm:"column:show_price" json:"show_price"`
	ShowTierTable   bool `gorm:"column:show_tier_table" json:"show_tier_table"`

	PrimaryColor string `gorm:"column:primary_color;type:text" json:"primary_color"`
	AccentColor  string `gorm:"column:accent_color;type:text" json:"accent_color"`
	ButtonText   string `gorm:"column:button_text;type:text" json:"button_text"`

	UseQuantity  bool         `gorm:"column:use_quantity" json:"use_quantity"`
	MaxQuantity  int          `gorm:"column:max_quantity" json:"max_quantity"`
	Enabled      bool         `gorm:"column:enabled;index" json:"enabled"`
	CartBehavior CartBehavior `gorm:"column:cart_behavior;type:text" json:"cart_behavior"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Bundle) TableName() string {
	return "bundles"
}

func (b Bundle) HasProduct(productID uint64) bool {
	for _, id := range b.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// NormalizeTiers returns a copy of tiers sorted ascending by quantity.
func NormalizeTiers(tiers []DiscountTier) []DiscountTier {
	out := make([]DiscountTier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity < out[j].Quantity
	})
	return out
}
