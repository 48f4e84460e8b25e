package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	checkoutModel "storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/order/model"
	userModel "storefront-checkout/internal/domains/user/model"
)

// =====================================================
// ORDER SERVICE INTERFACE
// =====================================================
type OrderService interface {
	// Finalize turns the basket into a paid order. Catalog faults come back
	// as *checkoutModel.CatalogError; every other business outcome is a result.
	Finalize(ctx context.Context, req checkoutModel.FinalizeRequest) (checkoutModel.OrderResult, error)

	// CleanupUnfinished drops orders stuck before payment for longer than olderThan.
	CleanupUnfinished(ctx context.Context, olderThan time.Duration) (int, error)
}

// AddressProvider resolves a user's delivery address, nil when unknown.
type AddressProvider interface {
	GetDeliveryAddress(ctx context.Context, userID, addressID uuid.UUID) (*userModel.Address, error)
}

// Mailer sends the order confirmation to the customer.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *model.Order, user *userModel.User) error
}
