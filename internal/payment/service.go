package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tejcart/internal/gateway"
	"tejcart/internal/model"
)

// GatewayClient is the slice of the gateway the payment service needs.
type GatewayClient interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (gateway.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// Service owns the payment lifecycle. It is the only writer of payment rows,
// except for the one-shot order back-reference set through AttachOrder.
type Service struct {
	db *gorm.DB
	gw GatewayClient
}

func NewService(db *gorm.DB, gw GatewayClient) *Service {
	return &Service{db: db, gw: gw}
}

// Initiate creates a remote gateway order and persists the mirroring payment
// row in "created" state. When the gateway call fails no local row is written.
func (s *Service) Initiate(ctx context.Context, amount int64, currency, contact, email string) (gateway.Order, error) {
	if currency == "" {
		currency = "INR"
	}
	receipt := "receipt_order_" + uuid.NewString()

	remote, err := s.gw.CreateOrder(ctx, amount, currency, receipt)
	if err != nil {
		return gateway.Order{}, err
	}

	p := &model.Payment{
		RazorpayOrderID: remote.ID,
		Amount:          remote.Amount,
		Currency:        remote.Currency,
		Status:          model.PaymentCreated,
		Contact:         contact,
		Email:           email,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return gateway.Order{}, fmt.Errorf("persist payment: %w", err)
	}
	return remote, nil
}

// Confirm applies a verified gateway confirmation to the payment record.
//
// The signature is checked before anything is read or written; a mismatch
// leaves the record untouched. Replaying an identical confirmation is a no-op
// returning the stored record, so gateway retries are safe.
func (s *Service) Confirm(ctx context.Context, orderID, paymentID, signature, reportedStatus string) (*model.Payment, error) {
	if !s.gw.VerifySignature(orderID, paymentID, signature) {
		// Logged separately from ordinary validation noise: a mismatch here
		// means someone sent a confirmation the gateway never signed.
		log.Printf("payment: SECURITY signature mismatch for gateway order %s", orderID)
		return nil, model.ErrSignatureInvalid
	}

	status := reportedStatus
	if status == "" {
		status = model.PaymentCaptured
	}
	if !model.TerminalPaymentStatus(status) {
		return nil, fmt.Errorf("confirm: %q is not a terminal payment status", reportedStatus)
	}

	var p model.Payment
	err := s.db.WithContext(ctx).First(&p, "razorpay_order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("load payment: %w", err)
	}

	if p.Status != model.PaymentCreated {
		if p.Status == status && p.RazorpayPaymentID != nil && *p.RazorpayPaymentID == paymentID {
			return &p, nil // replayed confirmation
		}
		return nil, model.ErrPaymentConflict
	}

	p.Status = status
	p.RazorpayPaymentID = &paymentID
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return &p, nil
}

// FindByGatewayOrder loads the payment mirroring the given gateway order.
func (s *Service) FindByGatewayOrder(ctx context.Context, orderID string) (*model.Payment, error) {
	var p model.Payment
	err := s.db.WithContext(ctx).First(&p, "razorpay_order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("load payment: %w", err)
	}
	return &p, nil
}

// AttachOrder sets the payment's order back-reference after the order has
// committed. Called exactly once per placed order.
func (s *Service) AttachOrder(ctx context.Context, razorpayOrderID string, orderID uint) error {
	res := s.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("razorpay_order_id = ?", razorpayOrderID).
		Update("order_id", orderID)
	if res.Error != nil {
		return fmt.Errorf("attach order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}
