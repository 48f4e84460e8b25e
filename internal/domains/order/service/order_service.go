package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	checkoutModel "storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/order/model"
	"storefront-checkout/internal/domains/order/repository"
	"storefront-checkout/internal/domains/payment/gateway"
	userModel "storefront-checkout/internal/domains/user/model"
	"storefront-checkout/pkg/logger"
)

// =====================================================
// ORDER SERVICE IMPLEMENTATION
// =====================================================
type orderService struct {
	repo          repository.Repository
	addresses     AddressProvider
	gateway       gateway.Gateway
	mailer        Mailer
	minOrderPrice decimal.Decimal
	now           func() time.Time
}

func NewOrderService(
	repo repository.Repository,
	addresses AddressProvider,
	gw gateway.Gateway,
	mailer Mailer,
	minOrderPrice decimal.Decimal,
) OrderService {
	return &orderService{
		repo:          repo,
		addresses:     addresses,
		gateway:       gw,
		mailer:        mailer,
		minOrderPrice: minOrderPrice,
		now:           time.Now,
	}
}

// =====================================================
// FINALIZE
// =====================================================

func (s *orderService) Finalize(ctx context.Context, req checkoutModel.FinalizeRequest) (checkoutModel.OrderResult, error) {
	if req.Basket == nil || len(req.Basket.Items) == 0 || req.User == nil {
		return checkoutModel.OrderResult{}, model.NewOrderError(model.ErrCodeInvalidSnapshot, "cannot finalize", model.ErrEmptyBasket)
	}

	exists, err := s.repo.Exists(ctx, req.OrderID)
	if err != nil {
		return checkoutModel.OrderResult{}, err
	}
	if exists {
		return checkoutModel.OrderAlreadyExists(), nil
	}

	if s.belowMinimum(req) {
		return checkoutModel.BelowMinimumPrice(), nil
	}

	ok, err := s.vouchersUsable(ctx, req)
	if err != nil {
		return checkoutModel.OrderResult{}, err
	}
	if !ok {
		return checkoutModel.VoucherError(), nil
	}

	ok, err = s.deliveryAddressValid(ctx, req)
	if err != nil {
		return checkoutModel.OrderResult{}, err
	}
	if !ok {
		return checkoutModel.InvalidDeliveryAddressChanged(), nil
	}

	order := model.NewOrder(req, s.now())
	err = s.repo.InTx(ctx, func(tx repository.TxRepository) error {
		if err := tx.ReserveStock(ctx, req.Basket.Items); err != nil {
			return err
		}
		return tx.InsertOrder(ctx, order)
	})
	if errors.Is(err, model.ErrOrderExists) {
		return checkoutModel.OrderAlreadyExists(), nil
	}
	var catalogErr *checkoutModel.CatalogError
	if errors.As(err, &catalogErr) {
		return checkoutModel.OrderResult{}, catalogErr
	}
	if err != nil {
		return checkoutModel.OrderResult{}, fmt.Errorf("store order %s: %w", order.ID, err)
	}

	if result, paid, err := s.pay(ctx, order, req.DynValue); !paid {
		return result, err
	}

	if err := s.mailer.SendOrderConfirmation(ctx, order, req.User); err != nil {
		logger.ErrorWithFields("order confirmation mail failed", err, map[string]interface{}{
			"order_id": order.ID,
			"user_id":  req.User.ID.String(),
		})
		return checkoutModel.MailingError(), nil
	}

	logger.Info("✅ order finalized", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total.String(),
	})
	return checkoutModel.Success(), nil
}

// belowMinimum compares the discounted products price with the shop minimum.
func (s *orderService) belowMinimum(req checkoutModel.FinalizeRequest) bool {
	if s.minOrderPrice.IsZero() {
		return false
	}
	price := req.Basket.ProductsPrice().Sub(req.Basket.Discount)
	return price.LessThan(s.minOrderPrice)
}

func (s *orderService) vouchersUsable(ctx context.Context, req checkoutModel.FinalizeRequest) (bool, error) {
	codes := req.Basket.VoucherCodes
	if len(codes) == 0 {
		return true, nil
	}

	vouchers, err := s.repo.GetVouchers(ctx, codes)
	if err != nil {
		return false, err
	}

	byCode := make(map[string]model.Voucher, len(vouchers))
	for _, v := range vouchers {
		byCode[v.Code] = v
	}

	now := s.now()
	price := req.Basket.ProductsPrice()
	for _, code := range codes {
		v, found := byCode[code]
		if !found || !v.IsUsable(now, price) {
			logger.Info("voucher rejected", map[string]interface{}{
				"code":  code,
				"found": found,
			})
			return false, nil
		}
	}
	return true, nil
}

// deliveryAddressValid checks that the selected delivery address still
// belongs to the user and that neither address changed since render.
func (s *orderService) deliveryAddressValid(ctx context.Context, req checkoutModel.FinalizeRequest) (bool, error) {
	var delivery *userModel.Address
	if req.DeliveryAddressID != nil {
		addr, err := s.addresses.GetDeliveryAddress(ctx, req.User.ID, *req.DeliveryAddressID)
		if err != nil {
			return false, err
		}
		if addr == nil {
			return false, nil
		}
		delivery = addr
	}

	return userModel.DeliveryAddressHash(req.User.Billing, delivery) == req.DeliveryAddressHash, nil
}

// pay charges the stored order. paid is false when the caller must stop and
// return result, err as they are.
func (s *orderService) pay(ctx context.Context, order *model.Order, dynValue map[string]string) (checkoutModel.OrderResult, bool, error) {
	charge, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
		OrderID:   order.ID,
		PaymentID: order.PaymentID,
		Amount:    order.Total,
		Currency:  order.Currency,
		DynValue:  dynValue,
	})
	if err != nil {
		logger.ErrorWithFields("payment gateway failed", err, map[string]interface{}{
			"order_id":   order.ID,
			"payment_id": order.PaymentID,
		})
	}

	if err != nil || !charge.Approved {
		if cancelErr := s.cancel(ctx, order.ID); cancelErr != nil {
			return checkoutModel.OrderResult{}, false, cancelErr
		}
		if err != nil {
			return checkoutModel.PaymentError(), false, nil
		}
		return declineResult(charge), false, nil
	}

	order.TransactionID = charge.TransactionID
	if err := s.repo.RecordCapture(ctx, order.ID, charge.TransactionID); err != nil {
		// the completion below writes the transaction id as well
		logger.ErrorWithFields("failed to record payment capture", err, map[string]interface{}{
			"order_id":       order.ID,
			"transaction_id": charge.TransactionID,
		})
	}

	err = s.repo.InTx(ctx, func(tx repository.TxRepository) error {
		if err := tx.MarkPaid(ctx, order.ID, charge.TransactionID); err != nil {
			return err
		}
		if err := tx.MarkVouchersUsed(ctx, order.VoucherCodes, order.ID); err != nil {
			return err
		}
		return tx.CloseBasket(ctx, order.BasketID)
	})
	if err != nil {
		// captured orders are skipped by cleanup and left for manual review
		logger.ErrorWithFields("failed to complete paid order", err, map[string]interface{}{
			"order_id":       order.ID,
			"transaction_id": charge.TransactionID,
		})
		return checkoutModel.OrderResult{}, false, model.NewOrderError(model.ErrCodePaymentFailed, "complete paid order", err)
	}

	order.Status = model.StatusOK
	return checkoutModel.OrderResult{}, true, nil
}

func (s *orderService) cancel(ctx context.Context, orderID string) error {
	err := s.repo.InTx(ctx, func(tx repository.TxRepository) error {
		return tx.CancelUnfinished(ctx, orderID)
	})
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return nil
}

// declineResult maps a gateway decline. Codes inside the named range would
// read as a different outcome, so they degrade to the generic payment error.
func declineResult(charge *gateway.ChargeResult) checkoutModel.OrderResult {
	switch {
	case charge.Code > checkoutModel.HighestNamedCode:
		return checkoutModel.PaymentErrorCode(charge.Code)
	case charge.Message != "":
		return checkoutModel.PaymentErrorText(charge.Message)
	default:
		return checkoutModel.PaymentError()
	}
}

// =====================================================
// CLEANUP
// =====================================================

func (s *orderService) CleanupUnfinished(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)

	n, err := s.repo.CleanupUnfinished(ctx, cutoff)
	if err != nil {
		return 0, model.NewOrderError(model.ErrCodeCleanupFailed, "cleanup unfinished orders", err)
	}

	if n > 0 {
		logger.Info("🧹 unfinished orders removed", map[string]interface{}{
			"count":  n,
			"cutoff": cutoff.Format(time.RFC3339),
		})
	}
	return n, nil
}
