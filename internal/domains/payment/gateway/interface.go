package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// =====================================================
// GATEWAY INTERFACE
// =====================================================

// Gateway collects the money for an order.
//
// A decline is not an error: it comes back as ChargeResult with Approved
// false. err is reserved for transport failures.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

type ChargeRequest struct {
	OrderID   string
	PaymentID string
	Amount    decimal.Decimal
	Currency  string
	DynValue  map[string]string // payment form data, e.g. account holder
}

// ChargeResult of a declined charge carries either a gateway code
// or a message; both empty means a generic decline.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	Code          int
	Message       string
}
