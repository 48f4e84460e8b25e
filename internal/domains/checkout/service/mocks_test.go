package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	basketModel "storefront-checkout/internal/domains/basket/model"
	"storefront-checkout/internal/domains/checkout/model"
	userModel "storefront-checkout/internal/domains/user/model"
)

type mockBaskets struct{ mock.Mock }

func (m *mockBaskets) GetActiveBasket(ctx context.Context, sessionID string, userID *uuid.UUID) (*basketModel.Basket, error) {
	args := m.Called(ctx, sessionID, userID)
	b, _ := args.Get(0).(*basketModel.Basket)
	return b, args.Error(1)
}

func (m *mockBaskets) RenewReservation(ctx context.Context, basketID uuid.UUID) error {
	return m.Called(ctx, basketID).Error(0)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetAuthenticatedUser(ctx context.Context, userID uuid.UUID) (*userModel.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*userModel.User)
	return u, args.Error(1)
}

func (m *mockUsers) GetDeliveryAddress(ctx context.Context, userID, addressID uuid.UUID) (*userModel.Address, error) {
	args := m.Called(ctx, userID, addressID)
	a, _ := args.Get(0).(*userModel.Address)
	return a, args.Error(1)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) Finalize(ctx context.Context, req model.FinalizeRequest) (model.OrderResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.OrderResult), args.Error(1)
}

type mockHook struct{ mock.Mock }

func (m *mockHook) OnOrderExecute(ctx context.Context, basket *basketModel.Basket, user *userModel.User, result model.OrderResult) error {
	return m.Called(ctx, basket, user, result).Error(0)
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) IsValidPayment(ctx context.Context, check PaymentCheck) (bool, error) {
	args := m.Called(ctx, check)
	return args.Bool(0), args.Error(1)
}
