package model

import (
	"github.com/shopspring/decimal"
)

const TypeOrderExecuted = "user:order_executed"

// OrderExecutedPayload is enqueued after an order was placed.
type OrderExecutedPayload struct {
	UserID     string          `json:"user_id"`
	BasketID   string          `json:"basket_id"`
	OrderTotal decimal.Decimal `json:"order_total"`
	Currency   string          `json:"currency"`
	ResultCode int             `json:"result_code"`
}
