package repository

import (
	"context"

	"storefront-checkout/internal/domains/payment/model"
)

type Repository interface {
	// GetMethod returns model.ErrMethodNotFound for unknown or inactive methods.
	GetMethod(ctx context.Context, id string) (*model.Method, error)
}
