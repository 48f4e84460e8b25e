package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"storefront-checkout/internal/domains/order/model"
	"storefront-checkout/internal/domains/order/service"
	"storefront-checkout/internal/shared/utils"
)

// CleanupHandler removes orders that never got past payment.
type CleanupHandler struct {
	orders     service.OrderService
	defaultTTL time.Duration
}

func NewCleanupHandler(orders service.OrderService, defaultTTL time.Duration) *CleanupHandler {
	return &CleanupHandler{orders: orders, defaultTTL: defaultTTL}
}

func (h *CleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.CleanupPayload
	if len(task.Payload()) > 0 {
		if err := utils.UnmarshalTask(task, &payload); err != nil {
			return err
		}
	}

	olderThan := h.defaultTTL
	if payload.OlderThanMinutes > 0 {
		olderThan = time.Duration(payload.OlderThanMinutes) * time.Minute
	}

	start := time.Now()
	n, err := h.orders.CleanupUnfinished(ctx, olderThan)
	if err != nil {
		return err
	}

	log.Info().
		Int("removed", n).
		Dur("older_than", olderThan).
		Dur("took", time.Since(start)).
		Msg("Unfinished order cleanup done")
	return nil
}
