package queue

import "fmt"

// MailMessage is the order-confirmation event that flows through the outbox
// into Kafka and ends up as an email. All fields are value snapshots taken at
// order time.
type MailMessage struct {
	OrderNo      string `json:"order_no"`
	Email        string `json:"email"`
	ProductTitle string `json:"product_title"`
	SellerTitle  string `json:"seller_title"`
	OrderPrice   int64  `json:"order_price"` // paise
	Address      string `json:"address"`     // preformatted single line
}

// Validate does minimal field checks so the consumer never emails garbage.
func (m MailMessage) Validate() error {
	if m.OrderNo == "" {
		return fmt.Errorf("order_no is required")
	}
	if m.Email == "" {
		return fmt.Errorf("email is required")
	}
	if m.ProductTitle == "" {
		return fmt.Errorf("product_title is required")
	}
	if m.OrderPrice <= 0 {
		return fmt.Errorf("order_price must be > 0")
	}
	return nil
}
