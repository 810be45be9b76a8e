package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"tejcart/internal/mail"
)

// Consumer reads mail events from Kafka and hands them to the mailer.
// Delivery failures are logged and the message is moved past: confirmation
// mail is fire-and-forget, the order itself is long since committed.
type Consumer struct {
	r      *kafka.Reader
	mailer mail.Mailer
}

func NewConsumer(brokers []string, topic, groupID string, mailer mail.Mailer) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1e3,
			MaxBytes: 1e6,
		}),
		mailer: mailer,
	}
}

func (c *Consumer) Close() error { return c.r.Close() }

func (c *Consumer) Run(ctx context.Context) {
	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			return // ctx cancelled / connection closed
		}

		var msg MailMessage
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			log.Printf("mail consumer unmarshal: %v", err)
			continue
		}
		if err := msg.Validate(); err != nil {
			log.Printf("mail consumer skip invalid event: %v", err)
			continue
		}

		subject := "Order Confirmation from TejCart"
		if err := c.mailer.Send(ctx, msg.Email, subject, confirmationBody(msg)); err != nil {
			log.Printf("mail consumer send order %s: %v", msg.OrderNo, err)
		}
	}
}

// confirmationBody renders the plain-text confirmation. Price is stored in
// paise, shown in rupees.
func confirmationBody(msg MailMessage) string {
	return fmt.Sprintf(
		"Thank you for your purchase!\n\n"+
			"Order: %s\n"+
			"Product: %s\n"+
			"Price: Rs %d.%02d\n"+
			"Seller: %s\n"+
			"Shipping address: %s\n",
		msg.OrderNo,
		msg.ProductTitle,
		msg.OrderPrice/100, msg.OrderPrice%100,
		msg.SellerTitle,
		msg.Address,
	)
}
