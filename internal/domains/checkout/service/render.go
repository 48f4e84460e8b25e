package service

import (
	"context"
	"fmt"
	"html"

	"github.com/google/uuid"

	basketModel "storefront-checkout/internal/domains/basket/model"
	"storefront-checkout/internal/domains/checkout/model"
	userModel "storefront-checkout/internal/domains/user/model"
	"storefront-checkout/internal/infrastructure/session"
	"storefront-checkout/pkg/logger"
)

// =====================================================
// RENDER - ORDER PAGE
// =====================================================

func (s *checkoutService) Render(ctx context.Context, req model.RenderRequest) (model.RenderResult, error) {
	if req.SessionID == "" {
		return model.RenderResult{Redirect: model.ViewStart}, nil
	}

	basket, err := s.baskets.GetActiveBasket(ctx, req.SessionID, req.UserID)
	if err != nil {
		return model.RenderResult{}, fmt.Errorf("load basket: %w", err)
	}

	if s.settings.BasketReservationEnabled {
		if basket != nil {
			if err := s.baskets.RenewReservation(ctx, basket.ID); err != nil {
				return model.RenderResult{}, fmt.Errorf("renew reservation: %w", err)
			}
		}
		if basket.ProductsCount() == 0 {
			return model.RenderResult{Redirect: model.ViewBasket}, nil
		}
	}

	user, err := s.currentUser(ctx, req.UserID)
	if err != nil {
		return model.RenderResult{}, err
	}

	// ==================== CAN WE PROCEED? ====================
	switch {
	case user == nil && basket.ProductsCount() > 0:
		return model.RenderResult{Redirect: model.ViewBasket}, nil
	case user == nil || basket.ProductsCount() == 0:
		return model.RenderResult{Redirect: model.ViewStart}, nil
	}

	valid, err := s.paymentIsValid(ctx, req.SessionID, basket, user)
	if err != nil {
		return model.RenderResult{}, err
	}
	if !valid {
		return model.RenderResult{Redirect: model.ViewPayment}, nil
	}

	view, err := s.orderView(ctx, req, basket, user)
	if err != nil {
		return model.RenderResult{}, err
	}

	// ==================== RELOAD BLOCKER ====================
	token, err := s.sessions.IssueChallenge(ctx, req.SessionID)
	if err != nil {
		return model.RenderResult{}, fmt.Errorf("issue challenge: %w", err)
	}
	view.Challenge = token

	return model.RenderResult{View: view}, nil
}

func (s *checkoutService) paymentIsValid(ctx context.Context, sessionID string, basket *basketModel.Basket, user *userModel.User) (bool, error) {
	if basket.PaymentID == "" {
		return false, nil
	}

	check := PaymentCheck{
		PaymentID: basket.PaymentID,
		User:      user,
		Price:     basket.PriceForPayment(),
	}
	if _, err := s.sessions.Get(ctx, sessionID, session.KeyShippingSet, &check.ShippingSetID); err != nil {
		return false, fmt.Errorf("load shipping set: %w", err)
	}
	if check.ShippingSetID == "" {
		check.ShippingSetID = basket.ShippingID
	}
	if _, err := s.sessions.Get(ctx, sessionID, session.KeyDynValue, &check.DynValue); err != nil {
		return false, fmt.Errorf("load dynvalue: %w", err)
	}

	valid, err := s.payments.IsValidPayment(ctx, check)
	if err != nil {
		return false, fmt.Errorf("validate payment: %w", err)
	}
	return valid, nil
}

func (s *checkoutService) orderView(ctx context.Context, req model.RenderRequest, basket *basketModel.Basket, user *userModel.User) (*model.OrderView, error) {
	view := &model.OrderView{
		ConfirmAGBActive:     s.settings.ConfirmAGB,
		ConfirmAGBError:      req.AgreementError,
		ShowOrderButtonOnTop: s.settings.ShowOrderButtonOnTop,
		AddressError:         req.AddressError,
		PaymentID:            basket.PaymentID,
		Basket:               summarize(basket),
	}

	var remark string
	if _, err := s.sessions.Get(ctx, req.SessionID, session.KeyOrderRemark, &remark); err != nil {
		return nil, fmt.Errorf("load order remark: %w", err)
	}
	view.OrderRemark = html.EscapeString(remark)

	if _, err := s.sessions.Get(ctx, req.SessionID, session.KeyShippingSet, &view.ShippingSetID); err != nil {
		return nil, fmt.Errorf("load shipping set: %w", err)
	}
	if view.ShippingSetID == "" {
		view.ShippingSetID = basket.ShippingID
	}

	if _, err := s.sessions.Get(ctx, req.SessionID, session.KeyDeliveryAddressID, &view.DeliveryAddressID); err != nil {
		return nil, fmt.Errorf("load delivery address id: %w", err)
	}
	if view.DeliveryAddressID == "" && basket.DeliveryAddressID != nil {
		view.DeliveryAddressID = basket.DeliveryAddressID.String()
	}

	var delivery *userModel.Address
	if view.DeliveryAddressID != "" {
		addrID, err := uuid.Parse(view.DeliveryAddressID)
		if err == nil {
			delivery, err = s.users.GetDeliveryAddress(ctx, user.ID, addrID)
			if err != nil {
				return nil, fmt.Errorf("load delivery address: %w", err)
			}
		}
	}
	view.DeliveryAddressHash = userModel.DeliveryAddressHash(user.Billing, delivery)

	queued, err := s.display.TakeErrors(ctx, req.SessionID, model.ViewOrder)
	if err != nil {
		// display errors are cosmetic
		logger.Error("take queued order errors", err)
	}
	view.Errors = queued

	return view, nil
}

func summarize(b *basketModel.Basket) model.BasketSummary {
	return model.BasketSummary{
		ProductsCount:   b.ProductsCount(),
		ItemsQuantity:   b.ItemsQuantity(),
		ProductsPrice:   b.ProductsPrice(),
		Discount:        b.Discount,
		DeliveryCost:    b.DeliveryCost,
		PaymentCost:     b.PaymentCost,
		Total:           b.Total(),
		Currency:        b.Currency,
		HasDownloadable: b.HasDownloadableAgreementArticles(),
		HasIntangible:   b.HasIntangibleAgreementArticles(),
	}
}
