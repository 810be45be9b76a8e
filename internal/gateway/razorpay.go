package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"tejcart/internal/model"
)

// Order is the remote payment-intent descriptor the gateway returns. Its id
// is the key every local payment record is looked up by.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Client is a Razorpay-style REST client. It is constructed once at process
// start and injected wherever gateway access is needed.
type Client struct {
	http      *resty.Client
	keySecret string
}

// NewClient builds a client with basic auth and a hard per-request timeout so
// a stuck gateway surfaces as an error instead of hanging the request.
func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(keyID, keySecret).
		SetTimeout(timeout)
	return &Client{http: c, keySecret: keySecret}
}

// CreateOrder creates a remote payment intent for the given amount in paise.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (Order, error) {
	var out Order
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"amount":   amount,
			"currency": currency,
			"receipt":  receipt,
		}).
		SetResult(&out).
		Post("/v1/orders")
	if err != nil {
		return Order{}, fmt.Errorf("%w: create order: %v", model.ErrGateway, err)
	}
	if resp.IsError() {
		return Order{}, fmt.Errorf("%w: create order: status=%d body=%s", model.ErrGateway, resp.StatusCode(), resp.String())
	}
	if out.ID == "" {
		return Order{}, fmt.Errorf("%w: create order: empty order id in response", model.ErrGateway)
	}
	return out, nil
}

// VerifySignature checks a payment confirmation against the client's secret.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}
