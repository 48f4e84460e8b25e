package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	checkoutService "storefront-checkout/internal/domains/checkout/service"
	"storefront-checkout/internal/domains/payment/model"
	userModel "storefront-checkout/internal/domains/user/model"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) GetMethod(ctx context.Context, id string) (*model.Method, error) {
	args := m.Called(ctx, id)
	method, _ := args.Get(0).(*model.Method)
	return method, args.Error(1)
}

func debitNote() *model.Method {
	return &model.Method{
		ID:              "oxiddebitnote",
		IsActive:        true,
		FromAmount:      decimal.NewFromInt(0),
		ToAmount:        decimal.NewFromInt(1000),
		AllowedShipSets: []string{"standard"},
		UserGroups:      []string{"customer"},
		RequiredFields:  []string{"lsbankname"},
	}
}

func validCheck() checkoutService.PaymentCheck {
	return checkoutService.PaymentCheck{
		PaymentID:     "oxiddebitnote",
		ShippingSetID: "standard",
		User:          &userModel.User{Groups: []string{"customer"}},
		Price:         decimal.NewFromInt(50),
		DynValue:      map[string]string{"lsbankname": "Bank"},
	}
}

func TestIsValidPayment(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		modify func(c *checkoutService.PaymentCheck)
		want   bool
	}{
		{"valid", func(c *checkoutService.PaymentCheck) {}, true},
		{"too expensive", func(c *checkoutService.PaymentCheck) { c.Price = decimal.NewFromInt(5000) }, false},
		{"wrong shipping set", func(c *checkoutService.PaymentCheck) { c.ShippingSetID = "express" }, false},
		{"wrong group", func(c *checkoutService.PaymentCheck) { c.User.Groups = []string{"b2b"} }, false},
		{"no user", func(c *checkoutService.PaymentCheck) { c.User = nil }, false},
		{"missing form field", func(c *checkoutService.PaymentCheck) { c.DynValue = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			repo.On("GetMethod", ctx, "oxiddebitnote").Return(debitNote(), nil)
			v := NewValidator(repo, 0)

			check := validCheck()
			tt.modify(&check)

			ok, err := v.IsValidPayment(ctx, check)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestIsValidPayment_UnknownAndEmpty(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetMethod", ctx, "gone").Return(nil, model.ErrMethodNotFound)
	v := NewValidator(repo, 0)

	ok, err := v.IsValidPayment(ctx, checkoutService.PaymentCheck{PaymentID: "gone"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.IsValidPayment(ctx, checkoutService.PaymentCheck{})
	require.NoError(t, err)
	assert.False(t, ok)
	repo.AssertNumberOfCalls(t, "GetMethod", 1)
}

func TestIsValidPayment_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetMethod", ctx, "oxiddebitnote").Return(nil, errors.New("db down"))

	_, err := NewValidator(repo, 0).IsValidPayment(ctx, validCheck())
	assert.Error(t, err)
}

func TestIsValidPayment_CachesMethods(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetMethod", ctx, "oxiddebitnote").Return(debitNote(), nil).Once()
	v := NewValidator(repo, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := v.IsValidPayment(ctx, validCheck())
		require.NoError(t, err)
		assert.True(t, ok)
	}
	repo.AssertExpectations(t)
}
