package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	basketModel "storefront-checkout/internal/domains/basket/model"
	checkoutModel "storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/user/model"
	"storefront-checkout/internal/domains/user/repository"
	"storefront-checkout/internal/shared/utils"
	"storefront-checkout/pkg/logger"
)

type userService struct {
	repo      repository.Repository
	queue     TaskEnqueuer
	taskQueue string
	maxRetry  int
	loyalty   map[string]decimal.Decimal
}

func NewUserService(
	repo repository.Repository,
	queue TaskEnqueuer,
	taskQueue string,
	maxRetry int,
	loyalty map[string]decimal.Decimal,
) Service {
	return &userService{
		repo:      repo,
		queue:     queue,
		taskQueue: taskQueue,
		maxRetry:  maxRetry,
		loyalty:   loyalty,
	}
}

func (s *userService) GetAuthenticatedUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, nil
	}
	return u, nil
}

func (s *userService) GetDeliveryAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.Address, error) {
	a, err := s.repo.GetAddress(ctx, userID, addressID)
	if errors.Is(err, model.ErrAddressNotFound) {
		return nil, nil
	}
	return a, err
}

// =====================================================
// ORDER HOOK
// =====================================================

func (s *userService) OnOrderExecute(ctx context.Context, basket *basketModel.Basket, user *model.User, result checkoutModel.OrderResult) error {
	if user == nil || basket == nil || !result.IsPlaced() {
		return nil
	}

	payload := model.OrderExecutedPayload{
		UserID:     user.ID.String(),
		BasketID:   basket.ID.String(),
		OrderTotal: basket.Total(),
		Currency:   basket.Currency,
		ResultCode: result.Normalize().Code,
	}

	task, err := utils.MarshalTask(model.TypeOrderExecuted, payload,
		asynq.Queue(s.taskQueue),
		asynq.MaxRetry(s.maxRetry),
		asynq.TaskID("order-executed:"+payload.BasketID),
	)
	if err != nil {
		return err
	}

	info, err := s.queue.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return model.NewUserError(model.ErrCodeGroupUpdate, "enqueue order executed task", err)
	}

	logger.Info("📨 order executed task enqueued", map[string]interface{}{
		"task_id": info.ID,
		"user_id": payload.UserID,
		"queue":   info.Queue,
	})
	return nil
}

// ApplyOrderGroups is run by the worker.
func (s *userService) ApplyOrderGroups(ctx context.Context, payload model.OrderExecutedPayload) error {
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", payload.UserID, err)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	remove, add := groupChanges(u, payload.OrderTotal, s.loyalty)
	if len(remove) == 0 && len(add) == 0 {
		return nil
	}

	if err := s.repo.UpdateGroups(ctx, userID, remove, add); err != nil {
		return model.NewUserError(model.ErrCodeGroupUpdate, "update groups", err)
	}

	logger.Info("user groups updated", map[string]interface{}{
		"user_id": payload.UserID,
		"removed": remove,
		"added":   add,
	})
	return nil
}

func groupChanges(u *model.User, total decimal.Decimal, loyalty map[string]decimal.Decimal) (remove, add []string) {
	if u.InGroup(model.GroupNotYetOrdered) {
		remove = append(remove, model.GroupNotYetOrdered)
	}
	if !u.InGroup(model.GroupCustomer) {
		add = append(add, model.GroupCustomer)
	}

	groups := make([]string, 0, len(loyalty))
	for g := range loyalty {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, g := range groups {
		if total.GreaterThanOrEqual(loyalty[g]) && !u.InGroup(g) {
			add = append(add, g)
		}
	}
	return remove, add
}
