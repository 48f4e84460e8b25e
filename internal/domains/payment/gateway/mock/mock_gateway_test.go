package mock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-checkout/internal/domains/payment/gateway"
)

func TestMockGateway(t *testing.T) {
	g := NewMockGateway("MOCK-")
	ctx := context.Background()
	req := gateway.ChargeRequest{OrderID: "o1", Amount: decimal.NewFromInt(10)}

	res, err := g.Charge(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.Equal(t, "MOCK-o1", res.TransactionID)

	tests := []struct {
		rule string
		want gateway.ChargeResult
	}{
		{"1", gateway.ChargeResult{}},
		{"code:7", gateway.ChargeResult{Code: 7}},
		{"text:Card declined", gateway.ChargeResult{Message: "Card declined"}},
	}
	for _, tt := range tests {
		req.DynValue = map[string]string{DeclineField: tt.rule}
		res, err := g.Charge(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, tt.want, *res, tt.rule)
	}

	req.DynValue = map[string]string{DeclineField: "code:x"}
	_, err = g.Charge(ctx, req)
	assert.Error(t, err)
}
