package model

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryAddress is a value snapshot embedded into orders and ledger rows.
// It is copied from the request at order time and never re-joined from the
// buyer's saved addresses, so historical orders keep the address they shipped to.
type DeliveryAddress struct {
	Name    string `gorm:"size:128" json:"name"`
	Phone   string `gorm:"size:32" json:"phone"`
	Email   string `gorm:"size:128" json:"email"`
	Street  string `gorm:"size:255" json:"street"`
	Area    string `gorm:"size:128" json:"area"`
	City    string `gorm:"size:64" json:"city"`
	State   string `gorm:"size:64" json:"state"`
	Pincode string `gorm:"size:16" json:"pincode"`
}

// Order is the authoritative record of a confirmed purchase. Product and
// seller titles are denormalized at creation time; both may change on the
// live entities afterwards without touching past orders.
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderNo   string `gorm:"size:64;uniqueIndex;not null" json:"order_no"`
	BuyerID   uint   `gorm:"not null;index" json:"buyer_id"`
	ProductID uint   `gorm:"not null;index" json:"product_id"`
	SellerID  uint   `gorm:"not null;index" json:"seller_id"`

	ProductTitle string `gorm:"size:128;not null" json:"product_title"`
	SellerTitle  string `gorm:"size:128;not null" json:"seller_title"`
	OrderPrice   int64  `gorm:"not null" json:"order_price"` // total, paise
	Quantity     int    `gorm:"not null;default:1" json:"quantity"`

	Address DeliveryAddress `gorm:"embedded;embeddedPrefix:addr_" json:"delivery_address"`

	// PaymentStatus is the payment state seen at order time, kept as a plain
	// mirror; the payments table stays authoritative for the live state.
	PaymentStatus string `gorm:"size:16;not null" json:"payment_status"`
	PaymentID     *uint  `gorm:"index" json:"payment_id"`

	Payment *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Order) TableName() string { return "orders" }
