package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	checkoutModel "storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/order/model"
	"storefront-checkout/internal/shared/utils"
)

type mockOrders struct{ mock.Mock }

func (m *mockOrders) Finalize(ctx context.Context, req checkoutModel.FinalizeRequest) (checkoutModel.OrderResult, error) {
	args := m.Called(req)
	return args.Get(0).(checkoutModel.OrderResult), args.Error(1)
}

func (m *mockOrders) CleanupUnfinished(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(olderThan)
	return args.Int(0), args.Error(1)
}

func TestCleanupHandler(t *testing.T) {
	t.Run("empty payload uses default ttl", func(t *testing.T) {
		orders := &mockOrders{}
		orders.On("CleanupUnfinished", time.Hour).Return(2, nil)

		err := NewCleanupHandler(orders, time.Hour).ProcessTask(context.Background(), asynq.NewTask(model.TypeCleanupUnfinished, nil))
		require.NoError(t, err)
		orders.AssertExpectations(t)
	})

	t.Run("payload overrides ttl", func(t *testing.T) {
		orders := &mockOrders{}
		orders.On("CleanupUnfinished", 30*time.Minute).Return(0, nil)

		task, err := utils.MarshalTask(model.TypeCleanupUnfinished, model.CleanupPayload{OlderThanMinutes: 30})
		require.NoError(t, err)

		require.NoError(t, NewCleanupHandler(orders, time.Hour).ProcessTask(context.Background(), task))
		orders.AssertExpectations(t)
	})

	t.Run("malformed payload skips retry", func(t *testing.T) {
		err := NewCleanupHandler(&mockOrders{}, time.Hour).
			ProcessTask(context.Background(), asynq.NewTask(model.TypeCleanupUnfinished, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("service error is retried", func(t *testing.T) {
		orders := &mockOrders{}
		orders.On("CleanupUnfinished", time.Hour).Return(0, errors.New("db down"))

		err := NewCleanupHandler(orders, time.Hour).ProcessTask(context.Background(), asynq.NewTask(model.TypeCleanupUnfinished, nil))
		require.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})
}
