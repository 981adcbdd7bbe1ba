package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CREATE TABLE public.products (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     parent_id       BIGINT DEFAULT 0,
//     name            TEXT,
//     sku             TEXT,
//     price           NUMERIC(20,4),
//     stock_quantity  INTEGER,
//     manage_stock    BOOLEAN,
//     purchasable     BOOLEAN,
//     status          TEXT,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

const (
	ProductStatusPublish = "publish"
	ProductStatusDraft   = "draft"
)

// Product is a sellable catalog entry. Variations are products whose
// ParentID points at the base product.
type Product struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ParentID      uint64          `gorm:"column:parent_id;index;default:0" json:"parent_id"`
	Name          string          `gorm:"column:name;type:text" json:"name"`
	SKU           string          `gorm:"column:sku;type:text" json:"sku"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(20,4)" json:"price"`
	StockQuantity int             `gorm:"column:stock_quantity" json:"stock_quantity"`
	ManageStock   bool            `gorm:"column:manage_stock" json:"manage_stock"`
	Purchasable   bool            `gorm:"column:purchasable" json:"purchasable"`
	Status        string          `gorm:"column:status;type:text" json:"status"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p Product) IsVariation() bool {
	return p.ParentID != 0
}

// IsSellable reports whether the product can be priced and added to a cart.
func (p Product) IsSellable() bool {
	if !p.Purchasable || p.Status != ProductStatusPublish {
		return false
	}
	if p.ManageStock && p.StockQuantity <= 0 {
		return false
	}
	return true
}
