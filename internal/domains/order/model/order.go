package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	basketModel "storefront-checkout/internal/domains/basket/model"
	checkoutModel "storefront-checkout/internal/domains/checkout/model"
)

// =====================================================
// ORDER STATUS
// =====================================================
const (
	StatusNotFinished = "NOT_FINISHED" // stored, payment pending
	StatusOK          = "OK"
)

// =====================================================
// ORDER ENTITY
// =====================================================

// Order is a finalized basket. ID is the challenge token of the submit that
// created it, so a replayed form hits the same row.
type Order struct {
	ID                string
	UserID            uuid.UUID
	BasketID          uuid.UUID
	Status            string
	PaymentID         string
	ShippingID        string
	DeliveryAddressID *uuid.UUID
	Currency          string
	ProductsTotal     decimal.Decimal
	Discount          decimal.Decimal
	DeliveryCost      decimal.Decimal
	PaymentCost       decimal.Decimal
	Total             decimal.Decimal
	Remark            string
	ClientIP          string
	TransactionID     string
	VoucherCodes      []string
	Items             []OrderItem
	CreatedAt         time.Time
	PaidAt            *time.Time
}

type OrderItem struct {
	ArticleID uuid.UUID
	ArticleNo string
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// NewOrder snapshots the basket into an unfinished order.
func NewOrder(req checkoutModel.FinalizeRequest, now time.Time) *Order {
	b := req.Basket
	o := &Order{
		ID:                req.OrderID,
		BasketID:          b.ID,
		Status:            StatusNotFinished,
		PaymentID:         b.PaymentID,
		ShippingID:        b.ShippingID,
		DeliveryAddressID: req.DeliveryAddressID,
		Currency:          b.Currency,
		ProductsTotal:     b.ProductsPrice(),
		Discount:          b.Discount,
		DeliveryCost:      b.DeliveryCost,
		PaymentCost:       b.PaymentCost,
		Total:             b.Total(),
		Remark:            req.Remark,
		ClientIP:          req.ClientIP,
		VoucherCodes:      b.VoucherCodes,
		Items:             make([]OrderItem, 0, len(b.Items)),
		CreatedAt:         now,
	}
	if req.User != nil {
		o.UserID = req.User.ID
	}
	for _, it := range b.Items {
		o.Items = append(o.Items, newOrderItem(it))
	}
	return o
}

func newOrderItem(it basketModel.Item) OrderItem {
	return OrderItem{
		ArticleID: it.ArticleID,
		ArticleNo: it.ArticleNo,
		Title:     it.Title,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Total:     it.Total(),
	}
}

// =====================================================
// VOUCHER
// =====================================================

type Voucher struct {
	Code          string
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	MinOrderValue decimal.Decimal
	UsedAt        *time.Time
}

// IsUsable checks a voucher against the basket's products price at now.
func (v *Voucher) IsUsable(now time.Time, productsPrice decimal.Decimal) bool {
	if v.UsedAt != nil {
		return false
	}
	if v.ValidFrom != nil && now.Before(*v.ValidFrom) {
		return false
	}
	if v.ValidUntil != nil && now.After(*v.ValidUntil) {
		return false
	}
	return productsPrice.GreaterThanOrEqual(v.MinOrderValue)
}
