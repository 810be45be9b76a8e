package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tejcart/internal/model"
)

// PaymentLinker is the slice of the payment service the orchestrator uses.
type PaymentLinker interface {
	FindByGatewayOrder(ctx context.Context, razorpayOrderID string) (*model.Payment, error)
	AttachOrder(ctx context.Context, razorpayOrderID string, orderID uint) error
}

// LedgerWriter appends order summaries to the buyer and seller projections.
type LedgerWriter interface {
	AppendBuyerOrder(ctx context.Context, buyerID, orderID uint) error
	AppendSellerOrder(ctx context.Context, sellerTitle string, o *model.Order) error
}

// Locker guards against the same gateway order being placed twice in flight.
// Implementations may fail open: a lock error never blocks placement.
type Locker interface {
	Acquire(ctx context.Context, key, token string) (bool, error)
	Release(ctx context.Context, key, token string) error
}

// PostCommitHook runs after a placement has committed; failures are the
// hook's own problem and must never affect the order.
type PostCommitHook func(ctx context.Context, o *model.Order)

// PlaceOrderRequest carries everything needed to place one order. The address
// is copied by value into the order row, never referenced.
type PlaceOrderRequest struct {
	ProductID       uint
	RazorpayOrderID string
	Quantity        int
	Address         model.DeliveryAddress
}

// Service coordinates stock decrement, order persistence, payment linking and
// ledger propagation into one user-facing placement operation.
type Service struct {
	db       *gorm.DB
	payments PaymentLinker
	ledger   LedgerWriter
	locks    Locker // optional
	hooks    []PostCommitHook
}

func NewService(db *gorm.DB, payments PaymentLinker, ledger LedgerWriter, locks Locker) *Service {
	return &Service{db: db, payments: payments, ledger: ledger, locks: locks}
}

// AddPostCommitHook registers a hook invoked after each successful placement.
func (s *Service) AddPostCommitHook(h PostCommitHook) {
	s.hooks = append(s.hooks, h)
}

// PlaceOrder places one order.
//
// The order row and the conditional stock decrement commit in a single
// transaction; the decrement is the commit point. Everything after the commit
// (payment link, ledger appends, hooks) is best-effort: failures are logged
// and the caller still gets the placed order back.
func (s *Service) PlaceOrder(ctx context.Context, buyerID uint, req PlaceOrderRequest) (*model.Order, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	// Serialize concurrent submissions of the same gateway order. The lock is
	// always released at the end, so a failed placement can be retried.
	if s.locks != nil && req.RazorpayOrderID != "" {
		token := uuid.NewString()
		ok, err := s.locks.Acquire(ctx, req.RazorpayOrderID, token)
		if err != nil {
			log.Printf("order: placement lock for %s unavailable, proceeding: %v", req.RazorpayOrderID, err)
		} else if !ok {
			return nil, model.ErrPlacementInProgress
		} else {
			defer func() {
				if err := s.locks.Release(ctx, req.RazorpayOrderID, token); err != nil {
					log.Printf("order: release placement lock %s: %v", req.RazorpayOrderID, err)
				}
			}()
		}
	}

	var prod model.Product
	if err := s.db.WithContext(ctx).First(&prod, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if !prod.Purchasable() || *prod.StockCount < int64(req.Quantity) {
		return nil, model.ErrOutOfStock
	}

	// Mirror the payment state known right now; a missing payment record is
	// non-fatal since it may still be recorded out of band.
	payStatus := "pending"
	var paymentID *uint
	if req.RazorpayOrderID != "" {
		if pay, err := s.payments.FindByGatewayOrder(ctx, req.RazorpayOrderID); err == nil {
			payStatus = pay.Status
			paymentID = &pay.ID
		} else if !errors.Is(err, model.ErrPaymentNotFound) {
			log.Printf("order: lookup payment %s: %v", req.RazorpayOrderID, err)
		}
	}

	o := &model.Order{
		OrderNo:       newOrderNo(),
		BuyerID:       buyerID,
		ProductID:     prod.ID,
		SellerID:      prod.SellerID,
		ProductTitle:  prod.Title,
		SellerTitle:   prod.SellerTitle,
		OrderPrice:    prod.Price * int64(req.Quantity),
		Quantity:      req.Quantity,
		Address:       req.Address,
		PaymentStatus: payStatus,
		PaymentID:     paymentID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		// Conditional decrement: the stock check is part of the UPDATE, so
		// two concurrent placements can never both consume the last unit.
		res := tx.Model(&model.Product{}).
			Where("id = ? AND stock_count >= ?", prod.ID, req.Quantity).
			UpdateColumn("stock_count", gorm.Expr("stock_count - ?", req.Quantity))
		if res.Error != nil {
			return fmt.Errorf("decrement stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return model.ErrOutOfStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// From here on the order is placed; nothing below may undo it.
	if req.RazorpayOrderID != "" {
		if err := s.payments.AttachOrder(ctx, req.RazorpayOrderID, o.ID); err != nil {
			log.Printf("order %s: link payment %s: %v", o.OrderNo, req.RazorpayOrderID, err)
		}
	}
	if err := s.ledger.AppendBuyerOrder(ctx, buyerID, o.ID); err != nil {
		log.Printf("order %s: buyer ledger append: %v", o.OrderNo, err)
	}
	if err := s.ledger.AppendSellerOrder(ctx, o.SellerTitle, o); err != nil {
		log.Printf("order %s: seller ledger append: %v", o.OrderNo, err)
	}
	for _, h := range s.hooks {
		h(ctx, o)
	}

	return o, nil
}

// GetOrder fetches one of the buyer's orders with payment and product joined.
func (s *Service) GetOrder(ctx context.Context, buyerID, orderID uint) (*model.Order, error) {
	var o model.Order
	err := s.db.WithContext(ctx).
		Preload("Payment").
		Preload("Product").
		Where("id = ? AND buyer_id = ?", orderID, buyerID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &o, nil
}

// ListBuyerOrders returns all of the buyer's orders, newest first.
func (s *Service) ListBuyerOrders(ctx context.Context, buyerID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("buyer_id = ?", buyerID).
		Order("id desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func newOrderNo() string {
	return "TC" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
