package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	basketModel "storefront-checkout/internal/domains/basket/model"
	checkoutModel "storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/user/model"
)

type Service interface {
	// GetAuthenticatedUser returns nil for unknown or inactive users.
	GetAuthenticatedUser(ctx context.Context, userID uuid.UUID) (*model.User, error)

	// GetDeliveryAddress returns nil when the address is gone or foreign.
	GetDeliveryAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error)

	// OnOrderExecute schedules group assignment for a placed order.
	OnOrderExecute(ctx context.Context, basket *basketModel.Basket, user *model.User, result checkoutModel.OrderResult) error

	// ApplyOrderGroups moves the user into customer and loyalty groups.
	ApplyOrderGroups(ctx context.Context, payload model.OrderExecutedPayload) error
}

// TaskEnqueuer is implemented by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
