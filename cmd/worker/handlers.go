package main

import (
	"github.com/hibiken/asynq"

	orderJob "storefront-checkout/internal/domains/order/job"
	orderModel "storefront-checkout/internal/domains/order/model"
	userJob "storefront-checkout/internal/domains/user/job"
	userModel "storefront-checkout/internal/domains/user/model"
	"storefront-checkout/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	orderExecuted     *userJob.OrderExecutedHandler
	cleanupUnfinished *orderJob.CleanupHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		orderExecuted:     userJob.NewOrderExecutedHandler(c.UserService),
		cleanupUnfinished: orderJob.NewCleanupHandler(c.OrderService, c.Config.Worker.UnfinishedOrderTTL),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(userModel.TypeOrderExecuted, h.orderExecuted.ProcessTask)
	mux.HandleFunc(orderModel.TypeCleanupUnfinished, h.cleanupUnfinished.ProcessTask)
}
