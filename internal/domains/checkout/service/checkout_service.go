package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	basketModel "storefront-checkout/internal/domains/basket/model"
	"storefront-checkout/internal/domains/checkout/model"
	userModel "storefront-checkout/internal/domains/user/model"
	"storefront-checkout/internal/infrastructure/session"
	"storefront-checkout/pkg/logger"
)

// =====================================================
// CHECKOUT SERVICE IMPLEMENTATION
// =====================================================
type checkoutService struct {
	sessions session.Store
	baskets  BasketProvider
	users    UserProvider
	orders   OrderPersistence
	hook     OrderHook
	payments PaymentValidator
	display  ErrorDisplay
	settings Settings
}

func NewCheckoutService(
	sessions session.Store,
	baskets BasketProvider,
	users UserProvider,
	orders OrderPersistence,
	hook OrderHook,
	payments PaymentValidator,
	display ErrorDisplay,
	settings Settings,
) CheckoutService {
	return &checkoutService{
		sessions: sessions,
		baskets:  baskets,
		users:    users,
		orders:   orders,
		hook:     hook,
		payments: payments,
		display:  display,
		settings: settings,
	}
}

var noOp = model.ExecuteResult{}

// =====================================================
// EXECUTE - SUBMIT ORDER
// =====================================================

func (s *checkoutService) Execute(ctx context.Context, req model.ExecuteRequest) (model.ExecuteResult, error) {
	if req.SessionID == "" {
		return noOp, nil
	}

	// ==================== STEP 1: RELOAD BLOCKER ====================
	orderID := req.Form.Challenge
	ok, err := s.sessions.ConsumeChallenge(ctx, req.SessionID, orderID)
	if err != nil {
		return noOp, fmt.Errorf("consume challenge: %w", err)
	}
	if !ok {
		logger.Info("order submit ignored: challenge mismatch", map[string]interface{}{
			"session_id": req.SessionID,
		})
		return noOp, nil
	}

	basket, err := s.baskets.GetActiveBasket(ctx, req.SessionID, req.UserID)
	if err != nil {
		return noOp, fmt.Errorf("load basket: %w", err)
	}

	user, err := s.currentUser(ctx, req.UserID)
	if err != nil {
		return noOp, err
	}

	pre := Preconditions(req.Form.Agreements(), basket, user != nil, s.settings.agreements())

	// ==================== STEP 2: AGREEMENTS ====================
	if !pre.AgreementsConfirmed() {
		return model.ExecuteResult{AgreementError: true}, nil
	}

	// ==================== STEP 3: USER ====================
	if !pre.UserPresent {
		return model.ExecuteResult{Directive: &model.NavigationDirective{View: model.ViewUser}}, nil
	}

	// ==================== STEP 4: BASKET ====================
	if !pre.BasketNonEmpty {
		return noOp, nil
	}

	// ==================== STEP 5: FINALIZE ====================
	finalize, err := s.finalizeRequest(ctx, req, orderID, basket, user)
	if err != nil {
		return noOp, err
	}

	result, err := s.orders.Finalize(ctx, finalize)
	if err != nil {
		if handled, qErr := s.queueCatalogFault(ctx, req.SessionID, err); handled {
			return noOp, qErr
		}
		return noOp, fmt.Errorf("finalize order: %w", err)
	}

	logger.Info("order finalized", map[string]interface{}{
		"order_id": orderID,
		"user_id":  user.ID.String(),
		"result":   result.String(),
	})

	// ==================== STEP 6: USER HOOK ====================
	if hookErr := s.hook.OnOrderExecute(ctx, basket, user, result); hookErr != nil {
		logger.ErrorWithFields("order execute hook failed", hookErr, map[string]interface{}{
			"order_id": orderID,
		})
	}

	// ==================== STEP 7: NEXT STEP ====================
	directive := Classify(result)
	if eff := directive.SessionEffect; eff != nil {
		if err := s.sessions.Set(ctx, req.SessionID, eff.Key, eff.Value); err != nil {
			logger.ErrorWithFields("apply session effect failed", err, map[string]interface{}{
				"key": eff.Key,
			})
		}
	}

	return model.ExecuteResult{Directive: &directive}, nil
}

func (s *checkoutService) currentUser(ctx context.Context, userID *uuid.UUID) (*userModel.User, error) {
	if userID == nil {
		return nil, nil
	}
	user, err := s.users.GetAuthenticatedUser(ctx, *userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *checkoutService) finalizeRequest(
	ctx context.Context,
	req model.ExecuteRequest,
	orderID string,
	basket *basketModel.Basket,
	user *userModel.User,
) (model.FinalizeRequest, error) {
	out := model.FinalizeRequest{
		OrderID:             orderID,
		Basket:              basket,
		User:                user,
		DeliveryAddressID:   basket.DeliveryAddressID,
		DeliveryAddressHash: req.Form.DeliveryAddressHash,
		ClientIP:            req.ClientIP,
	}

	var delAddrID string
	found, err := s.sessions.Get(ctx, req.SessionID, session.KeyDeliveryAddressID, &delAddrID)
	if err != nil {
		return out, fmt.Errorf("load delivery address id: %w", err)
	}
	if found && delAddrID != "" {
		id, err := uuid.Parse(delAddrID)
		if err != nil {
			// a foreign value in the session is treated as a changed address
			id = uuid.Nil
		}
		out.DeliveryAddressID = &id
	}

	if _, err := s.sessions.Get(ctx, req.SessionID, session.KeyOrderRemark, &out.Remark); err != nil {
		return out, fmt.Errorf("load order remark: %w", err)
	}
	if _, err := s.sessions.Get(ctx, req.SessionID, session.KeyDynValue, &out.DynValue); err != nil {
		return out, fmt.Errorf("load dynvalue: %w", err)
	}

	return out, nil
}

// queueCatalogFault turns a catalog fault into a display error. Out of stock
// goes to the basket so quantities can be fixed, the rest stay on the order page.
func (s *checkoutService) queueCatalogFault(ctx context.Context, sessionID string, err error) (bool, error) {
	var view, code string
	switch {
	case errors.Is(err, model.ErrOutOfStock):
		view, code = model.ViewBasket, model.ErrCodeOutOfStock
	case errors.Is(err, model.ErrArticleMissing):
		view, code = model.ViewOrder, model.ErrCodeArticleMissing
	case errors.Is(err, model.ErrInvalidArticleInput):
		view, code = model.ViewOrder, model.ErrCodeInvalidArticleInput
	default:
		return false, nil
	}

	msg := session.Message{Code: code, Message: err.Error()}
	var ce *model.CatalogError
	if errors.As(err, &ce) {
		msg.ArticleID = ce.ArticleID
	}

	logger.Warn("order aborted by catalog fault", map[string]interface{}{
		"session_id": sessionID,
		"code":       code,
		"article_id": msg.ArticleID,
	})

	if qErr := s.display.AddErrorToDisplay(ctx, sessionID, view, msg); qErr != nil {
		return true, fmt.Errorf("queue display error: %w", qErr)
	}
	return true, nil
}
