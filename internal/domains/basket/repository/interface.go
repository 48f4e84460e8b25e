package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront-checkout/internal/domains/basket/model"
)

type RepositoryInterface interface {
	// GetActiveBasket returns the open basket of the session, or of the user
	// when logged in. nil when there is none.
	GetActiveBasket(ctx context.Context, sessionID string, userID *uuid.UUID) (*model.Basket, error)

	// RenewReservation pushes reserved_until forward.
	RenewReservation(ctx context.Context, basketID uuid.UUID) error
}
