package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	basketModel "storefront-checkout/internal/domains/basket/model"
	"storefront-checkout/internal/domains/order/model"
)

// =====================================================
// ORDER REPOSITORY INTERFACE
// =====================================================
type Repository interface {
	Exists(ctx context.Context, orderID string) (bool, error)

	// GetVouchers returns the vouchers found for codes; unknown codes are
	// simply missing from the result.
	GetVouchers(ctx context.Context, codes []string) ([]model.Voucher, error)

	// InTx runs fn in one transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(tx TxRepository) error) error

	// RecordCapture stores the gateway transaction id on an unfinished order
	// outside any transaction. Captured orders are never cleaned up.
	RecordCapture(ctx context.Context, orderID, transactionID string) error

	// CleanupUnfinished deletes uncaptured unfinished orders created before
	// cutoff and puts their stock back. Returns the number of orders removed.
	CleanupUnfinished(ctx context.Context, cutoff time.Time) (int, error)
}

// TxRepository is the write side, bound to one transaction.
type TxRepository interface {
	// ReserveStock locks the articles and decrements stock. Lines that can
	// no longer be ordered fail with *checkoutModel.CatalogError.
	ReserveStock(ctx context.Context, items []basketModel.Item) error

	// InsertOrder stores order and items; a duplicate id is model.ErrOrderExists.
	InsertOrder(ctx context.Context, order *model.Order) error

	MarkPaid(ctx context.Context, orderID, transactionID string) error
	MarkVouchersUsed(ctx context.Context, codes []string, orderID string) error
	CloseBasket(ctx context.Context, basketID uuid.UUID) error

	// CancelUnfinished removes a single uncaptured order and restores its stock.
	CancelUnfinished(ctx context.Context, orderID string) error
}
