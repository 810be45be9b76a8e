package queue

import (
	"context"

	rd "github.com/redis/go-redis/v9"
)

// Outbox appends mail events to a Redis Stream. The append is cheap and local
// to the request; the relay forwards entries to Kafka out of band, so a slow
// or down broker never delays order placement.
type Outbox struct {
	rdb    *rd.Client
	stream string
}

func NewOutbox(rdb *rd.Client, stream string) *Outbox {
	return &Outbox{rdb: rdb, stream: stream}
}

// Publish appends one mail event to the stream.
func (o *Outbox) Publish(ctx context.Context, msg MailMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	return o.rdb.XAdd(ctx, &rd.XAddArgs{
		Stream: o.stream,
		Values: map[string]interface{}{
			"order_no":      msg.OrderNo,
			"email":         msg.Email,
			"product_title": msg.ProductTitle,
			"seller_title":  msg.SellerTitle,
			"order_price":   msg.OrderPrice,
			"address":       msg.Address,
		},
	}).Err()
}
