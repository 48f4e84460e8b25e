package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-checkout/internal/domains/user/model"
	"storefront-checkout/internal/domains/user/service"
	"storefront-checkout/internal/shared/utils"
)

// OrderExecutedHandler assigns customer and loyalty groups after an order.
type OrderExecutedHandler struct {
	users service.Service
}

func NewOrderExecutedHandler(users service.Service) *OrderExecutedHandler {
	return &OrderExecutedHandler{users: users}
}

func (h *OrderExecutedHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.OrderExecutedPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		return err
	}

	log.Info().
		Str("user_id", payload.UserID).
		Str("basket_id", payload.BasketID).
		Str("order_total", payload.OrderTotal.String()).
		Msg("Processing order executed")

	err := h.users.ApplyOrderGroups(ctx, payload)
	if errors.Is(err, model.ErrUserNotFound) {
		// user was deleted meanwhile, nothing to assign
		return fmt.Errorf("user %s: %v: %w", payload.UserID, err, asynq.SkipRetry)
	}
	return err
}
