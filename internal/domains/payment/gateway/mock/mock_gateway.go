package mock

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"storefront-checkout/internal/domains/payment/gateway"
)

// =====================================================
// MOCK GATEWAY
// =====================================================

// DeclineField in the payment form makes the mock decline:
//
//	"1"          generic decline
//	"code:<n>"   decline with gateway code n
//	"text:<msg>" decline with message msg
const DeclineField = "mock_decline"

// MockGateway approves everything unless told otherwise through DeclineField.
type MockGateway struct {
	prefix string
}

func NewMockGateway(prefix string) gateway.Gateway {
	return &MockGateway{prefix: prefix}
}

func (m *MockGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("mock gateway: negative amount %s", req.Amount)
	}

	rule := strings.TrimSpace(req.DynValue[DeclineField])
	switch {
	case rule == "":
		return &gateway.ChargeResult{
			Approved:      true,
			TransactionID: m.prefix + req.OrderID,
		}, nil

	case strings.HasPrefix(rule, "code:"):
		code, err := strconv.Atoi(strings.TrimPrefix(rule, "code:"))
		if err != nil {
			return nil, fmt.Errorf("mock gateway: bad decline code %q", rule)
		}
		return &gateway.ChargeResult{Code: code}, nil

	case strings.HasPrefix(rule, "text:"):
		return &gateway.ChargeResult{Message: strings.TrimPrefix(rule, "text:")}, nil

	default:
		return &gateway.ChargeResult{}, nil
	}
}
