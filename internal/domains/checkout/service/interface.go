package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	basketModel "storefront-checkout/internal/domains/basket/model"
	"storefront-checkout/internal/domains/checkout/model"
	userModel "storefront-checkout/internal/domains/user/model"
	"storefront-checkout/internal/infrastructure/session"
)

// =====================================================
// CHECKOUT SERVICE INTERFACE
// =====================================================
type CheckoutService interface {
	// Render guards the order page and prepares its data.
	Render(ctx context.Context, req model.RenderRequest) (model.RenderResult, error)

	// Execute submits the order form.
	Execute(ctx context.Context, req model.ExecuteRequest) (model.ExecuteResult, error)
}

// =====================================================
// COLLABORATORS
// =====================================================

// BasketProvider returns the session's active basket or nil.
type BasketProvider interface {
	GetActiveBasket(ctx context.Context, sessionID string, userID *uuid.UUID) (*basketModel.Basket, error)
	RenewReservation(ctx context.Context, basketID uuid.UUID) error
}

// UserProvider returns nil when the user does not exist or is inactive.
type UserProvider interface {
	GetAuthenticatedUser(ctx context.Context, userID uuid.UUID) (*userModel.User, error)
	GetDeliveryAddress(ctx context.Context, userID, addressID uuid.UUID) (*userModel.Address, error)
}

// OrderHook runs user side effects once an order attempt finished.
type OrderHook interface {
	OnOrderExecute(ctx context.Context, basket *basketModel.Basket, user *userModel.User, result model.OrderResult) error
}

// OrderPersistence turns a basket into a stored order. Catalog faults are
// returned as *model.CatalogError.
type OrderPersistence interface {
	Finalize(ctx context.Context, req model.FinalizeRequest) (model.OrderResult, error)
}

// PaymentValidator checks the basket's payment selection.
type PaymentValidator interface {
	IsValidPayment(ctx context.Context, check PaymentCheck) (bool, error)
}

type PaymentCheck struct {
	PaymentID     string
	ShippingSetID string
	User          *userModel.User
	Price         decimal.Decimal
	DynValue      map[string]string
}

// ErrorDisplay queues messages for the next view.
type ErrorDisplay interface {
	AddErrorToDisplay(ctx context.Context, sessionID, view string, msg session.Message) error
	TakeErrors(ctx context.Context, sessionID, view string) ([]session.Message, error)
}

// Settings is the shop configuration the checkout reads.
type Settings struct {
	ConfirmAGB                    bool
	EnableIntangibleProdAgreement bool
	BasketReservationEnabled      bool
	ShowOrderButtonOnTop          bool
}

func (s Settings) agreements() model.AgreementConfig {
	return model.AgreementConfig{
		ConfirmAGB:                    s.ConfirmAGB,
		EnableIntangibleProdAgreement: s.EnableIntangibleProdAgreement,
	}
}
