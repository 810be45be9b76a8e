package model

import (
	"time"

	"gorm.io/gorm"
)

// Payment lifecycle states. A payment starts as "created" and moves to a
// terminal state once the gateway confirmation is verified.
const (
	PaymentCreated  = "created"
	PaymentCaptured = "captured"
	PaymentFailed   = "failed"
	PaymentDeclined = "declined"
	PaymentRefunded = "refunded"
)

// Payment mirrors one gateway-side order locally, keyed by the gateway order id.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RazorpayOrderID   string  `gorm:"size:64;uniqueIndex;not null" json:"razorpay_order_id"`
	RazorpayPaymentID *string `gorm:"size:64" json:"razorpay_payment_id"` // NULL until captured

	Amount   int64  `gorm:"not null" json:"amount"` // paise
	Currency string `gorm:"size:8;not null" json:"currency"`
	Status   string `gorm:"size:16;not null;default:created" json:"status"`

	// OrderID is set once, by the order orchestrator, after the order commits.
	OrderID *uint `gorm:"index" json:"order_id"`

	Contact string `gorm:"size:32" json:"contact"`
	Email   string `gorm:"size:128" json:"email"`
}

func (Payment) TableName() string { return "payments" }

// TerminalPaymentStatus reports whether s is a state a verified gateway
// confirmation may move a payment into.
func TerminalPaymentStatus(s string) bool {
	switch s {
	case PaymentCaptured, PaymentFailed, PaymentDeclined, PaymentRefunded:
		return true
	}
	return false
}
