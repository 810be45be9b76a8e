package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tejcart/internal/model"
)

// Propagator appends read-optimized order summaries to the buyer and seller
// projections. Both are side channels: the orders table stays authoritative
// and either projection can be rebuilt from it.
type Propagator struct {
	db *gorm.DB
}

func NewPropagator(db *gorm.DB) *Propagator {
	return &Propagator{db: db}
}

// AppendBuyerOrder records the order id in the buyer's order history.
func (p *Propagator) AppendBuyerOrder(ctx context.Context, buyerID, orderID uint) error {
	ref := &model.BuyerOrderRef{BuyerID: buyerID, OrderID: orderID}
	if err := p.db.WithContext(ctx).Create(ref).Error; err != nil {
		return fmt.Errorf("append buyer order: %w", err)
	}
	return nil
}

// AppendSellerOrder copies the order reference plus buyer contact and address
// snapshots onto the seller matched by the order's seller title. The buyer
// contact comes from the delivery address, frozen at order time.
func (p *Propagator) AppendSellerOrder(ctx context.Context, sellerTitle string, o *model.Order) error {
	var seller model.Seller
	err := p.db.WithContext(ctx).First(&seller, "seller_title = ?", sellerTitle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrSellerNotFound
		}
		return fmt.Errorf("lookup seller: %w", err)
	}

	entry := &model.SellerOrderEntry{
		SellerID:   seller.ID,
		OrderID:    o.ID,
		BuyerName:  o.Address.Name,
		BuyerEmail: o.Address.Email,
		BuyerPhone: o.Address.Phone,
		Address:    o.Address,
	}
	if err := p.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append seller order: %w", err)
	}
	return nil
}

// SellerEntries lists a seller's ledger in insertion order.
func (p *Propagator) SellerEntries(ctx context.Context, sellerID uint) ([]model.SellerOrderEntry, error) {
	var entries []model.SellerOrderEntry
	err := p.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list seller orders: %w", err)
	}
	return entries, nil
}

// BuyerOrderIDs lists the buyer's order history projection in insertion order.
func (p *Propagator) BuyerOrderIDs(ctx context.Context, buyerID uint) ([]uint, error) {
	var refs []model.BuyerOrderRef
	err := p.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("id asc").
		Find(&refs).Error
	if err != nil {
		return nil, fmt.Errorf("list buyer orders: %w", err)
	}
	ids := make([]uint, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.OrderID)
	}
	return ids, nil
}
