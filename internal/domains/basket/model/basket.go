package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// BASKET ENTITY
// =====================================================

// Basket is the active, not yet ordered basket of one session.
type Basket struct {
	ID                uuid.UUID
	SessionID         string
	UserID            *uuid.UUID
	PaymentID         string
	ShippingID        string
	DeliveryAddressID *uuid.UUID
	VoucherCodes      []string
	Currency          string
	Items             []Item
	DeliveryCost      decimal.Decimal
	PaymentCost       decimal.Decimal
	Discount          decimal.Decimal
	ReservedUntil     *time.Time
	UpdatedAt         time.Time
}

// Item is one basket line.
type Item struct {
	ArticleID    uuid.UUID
	ArticleNo    string
	Title        string
	Quantity     int
	UnitPrice    decimal.Decimal
	Downloadable bool // needs the downloadable-goods agreement
	Intangible   bool // service / intangible goods agreement
}

func (i Item) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ProductsCount returns the number of distinct lines.
func (b *Basket) ProductsCount() int {
	if b == nil {
		return 0
	}
	return len(b.Items)
}

// ItemsQuantity sums line quantities.
func (b *Basket) ItemsQuantity() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, it := range b.Items {
		n += it.Quantity
	}
	return n
}

// ProductsPrice is the sum of line totals before discounts and costs.
func (b *Basket) ProductsPrice() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range b.Items {
		sum = sum.Add(it.Total())
	}
	return sum
}

// PriceForPayment is the amount payment-method price ranges are checked
// against: products minus discount plus delivery. Payment cost is excluded.
func (b *Basket) PriceForPayment() decimal.Decimal {
	price := b.ProductsPrice().Sub(b.Discount).Add(b.DeliveryCost)
	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// Total is what the customer is charged.
func (b *Basket) Total() decimal.Decimal {
	return b.PriceForPayment().Add(b.PaymentCost)
}

func (b *Basket) HasDownloadableAgreementArticles() bool {
	for _, it := range b.Items {
		if it.Downloadable {
			return true
		}
	}
	return false
}

func (b *Basket) HasIntangibleAgreementArticles() bool {
	for _, it := range b.Items {
		if it.Intangible {
			return true
		}
	}
	return false
}

// IsReservationExpired reports whether a stock reservation has lapsed.
func (b *Basket) IsReservationExpired(now time.Time) bool {
	return b.ReservedUntil != nil && now.After(*b.ReservedUntil)
}
