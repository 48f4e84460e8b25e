package service

import (
	"strconv"

	"storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/infrastructure/session"
)

// Classify maps a finalize result to the next step. It is pure: session
// effects are described on the directive and applied by the caller.
//
// Rules are matched in order; the first hit wins.
func Classify(result model.OrderResult) model.NavigationDirective {
	r := result.Normalize()

	switch {
	case r.Kind == model.ResultMailingError:
		d := model.NavigationDirective{View: model.ViewThankYou}
		d.Params = []model.Param{{Key: model.ParamMailError, Value: "1"}}
		return d

	case r.Kind == model.ResultInvalidDeliveryAddressChanged:
		d := model.NavigationDirective{View: model.ViewOrder}
		d.Params = []model.Param{{Key: model.ParamAddressError, Value: "1"}}
		return d

	case r.Kind == model.ResultBelowMinimumPrice:
		return model.NavigationDirective{View: model.ViewOrder}

	case r.Kind == model.ResultVoucherError:
		return model.NavigationDirective{View: model.ViewBasket}

	case r.Kind == model.ResultPaymentError:
		return paymentDirective(int(model.ResultPaymentError))

	case r.Kind == model.ResultOrderAlreadyExists:
		// reload blocker
		return model.NavigationDirective{View: model.ViewThankYou, SuppressRedirect: true}

	case r.Kind == model.ResultPaymentErrorCode && r.Code > model.HighestNamedCode:
		return paymentDirective(r.Code)

	case r.Kind == model.ResultPaymentErrorText && r.Text != "":
		d := paymentDirective(-1)
		d.Params = append(d.Params, model.Param{Key: model.ParamPayErrorText, Value: r.Text})
		return d

	default:
		return model.NavigationDirective{View: model.ViewThankYou}
	}
}

func paymentDirective(code int) model.NavigationDirective {
	return model.NavigationDirective{
		View:          model.ViewPayment,
		Params:        []model.Param{{Key: model.ParamPayError, Value: strconv.Itoa(code)}},
		SessionEffect: &model.SessionEffect{Key: session.KeyPayError, Value: code},
	}
}
