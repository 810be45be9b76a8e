package model

import (
	"time"

	"gorm.io/gorm"
)

// Buyer is the customer identity the auth middleware resolves tokens against.
type Buyer struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username  string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email     string `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Phone     string `gorm:"size:32" json:"phone"`
	AuthToken string `gorm:"size:64;uniqueIndex;not null" json:"-"`
}

func (Buyer) TableName() string { return "buyers" }

// BuyerOrderRef is the buyer-side order history projection: one row per
// placed order, insertion-ordered, rebuildable from the orders table.
type BuyerOrderRef struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	BuyerID uint `gorm:"not null;index" json:"buyer_id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
}

func (BuyerOrderRef) TableName() string { return "buyer_orders" }

// Seller owns products and receives a denormalized copy of each order placed
// against them.
type Seller struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username    string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	SellerTitle string `gorm:"size:128;uniqueIndex;not null" json:"seller_title"`
	Email       string `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Phone       string `gorm:"size:32" json:"phone"`
	AuthToken   string `gorm:"size:64;uniqueIndex;not null" json:"-"`
}

func (Seller) TableName() string { return "sellers" }

// SellerOrderEntry is the seller-side ledger row: a read-optimized copy of
// the order reference plus buyer contact and address snapshots. The orders
// table remains the source of truth.
type SellerOrderEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SellerID uint `gorm:"not null;index" json:"seller_id"`
	OrderID  uint `gorm:"not null;index" json:"order_id"`

	BuyerName  string `gorm:"size:128" json:"buyer_name"`
	BuyerEmail string `gorm:"size:128" json:"buyer_email"`
	BuyerPhone string `gorm:"size:32" json:"buyer_phone"`

	Address DeliveryAddress `gorm:"embedded;embeddedPrefix:addr_" json:"delivery_address"`
}

func (SellerOrderEntry) TableName() string { return "seller_orders" }
