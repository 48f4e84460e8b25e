package service

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"

	checkoutService "storefront-checkout/internal/domains/checkout/service"
	"storefront-checkout/internal/domains/payment/model"
	"storefront-checkout/internal/domains/payment/repository"
	"storefront-checkout/pkg/logger"
)

// Validator decides whether a basket may be paid with the selected method.
type Validator struct {
	repo    repository.Repository
	methods *cache.Cache
}

// NewValidator caches method rows for ttl; zero disables caching.
func NewValidator(repo repository.Repository, ttl time.Duration) *Validator {
	v := &Validator{repo: repo}
	if ttl > 0 {
		v.methods = cache.New(ttl, 2*ttl)
	}
	return v
}

var _ checkoutService.PaymentValidator = (*Validator)(nil)

// IsValidPayment implements checkoutService.PaymentValidator. An unknown
// method is a plain false, not an error.
func (v *Validator) IsValidPayment(ctx context.Context, check checkoutService.PaymentCheck) (bool, error) {
	if check.PaymentID == "" {
		return false, nil
	}

	m, err := v.method(ctx, check.PaymentID)
	if errors.Is(err, model.ErrMethodNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !m.AcceptsAmount(check.Price) {
		logger.Info("payment rejected: amount out of range", map[string]interface{}{
			"payment_id": m.ID,
			"price":      check.Price.String(),
		})
		return false, nil
	}
	if !m.AllowsShipSet(check.ShippingSetID) {
		return false, nil
	}

	var groups []string
	if check.User != nil {
		groups = check.User.Groups
	}
	if !m.AllowsGroups(groups) {
		return false, nil
	}

	if field, missing := m.MissingField(check.DynValue); missing {
		logger.Info("payment rejected: missing form field", map[string]interface{}{
			"payment_id": m.ID,
			"field":      field,
		})
		return false, nil
	}

	return true, nil
}

func (v *Validator) method(ctx context.Context, id string) (*model.Method, error) {
	if v.methods != nil {
		if cached, ok := v.methods.Get(id); ok {
			return cached.(*model.Method), nil
		}
	}

	m, err := v.repo.GetMethod(ctx, id)
	if err != nil {
		return nil, err
	}

	if v.methods != nil {
		v.methods.SetDefault(id, m)
	}
	return m, nil
}
