package model

import (
	"time"

	"gorm.io/gorm"
)

// Stock status values carried over from the catalog frontend.
const (
	StockInStock      = "In Stock"
	StockOut          = "Out-of-stock"
	StockGettingReady = "Getting Ready"
)

// Product is a seller-owned catalog entry with a mutable stock counter.
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title    string `gorm:"size:128;not null" json:"title"`
	Price    int64  `gorm:"not null" json:"price"` // paise
	Category string `gorm:"size:64" json:"category"`

	// StockCount is only meaningful while StockStatus is "In Stock";
	// it stays NULL for products that are not stock-tracked.
	StockStatus  string `gorm:"size:32;not null" json:"stock_status"`
	StockCount   *int64 `json:"stock_count"`
	DeliveryDays int    `gorm:"not null;default:0" json:"delivery_days"`

	SellerTitle string `gorm:"size:128;not null;index" json:"seller_title"`
	SellerID    uint   `gorm:"not null;index" json:"seller_id"`
}

func (Product) TableName() string { return "products" }

// Purchasable reports whether the product can be ordered right now.
func (p *Product) Purchasable() bool {
	return p.StockStatus == StockInStock && p.StockCount != nil && *p.StockCount > 0
}
