package model

import (
	"strconv"
)

// ResultKind tags an OrderResult variant.
type ResultKind int

// Named variants carry a fixed numeric code equal to their kind value.
// Keep them first and contiguous: HighestNamedCode is derived from this
// block, and every integer above it is a gateway-specific payment error.
const (
	ResultSuccess ResultKind = iota
	ResultMailingError
	ResultPaymentError
	ResultOrderAlreadyExists
	ResultInvalidDeliveryAddressChanged
	ResultBelowMinimumPrice
	ResultVoucherError

	numNamedResults // sentinel, not a variant

	ResultPaymentErrorCode ResultKind = iota + 100
	ResultPaymentErrorText
)

// HighestNamedCode is the largest code that maps to a named variant. It
// follows the table rather than a fixed 3, so payment codes start above 6.
const HighestNamedCode = int(numNamedResults) - 1

var resultKindNames = map[ResultKind]string{
	ResultSuccess:                       "success",
	ResultMailingError:                  "mailing_error",
	ResultPaymentError:                  "payment_error",
	ResultOrderAlreadyExists:            "order_already_exists",
	ResultInvalidDeliveryAddressChanged: "invalid_delivery_address_changed",
	ResultBelowMinimumPrice:             "below_minimum_price",
	ResultVoucherError:                  "voucher_error",
	ResultPaymentErrorCode:              "payment_error_code",
	ResultPaymentErrorText:              "payment_error_text",
}

func (k ResultKind) String() string {
	if name, ok := resultKindNames[k]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(k)) + ")"
}

// IsNamed reports whether k is one of the fixed-code variants.
func (k ResultKind) IsNamed() bool {
	return k >= ResultSuccess && k < numNamedResults
}

// OrderResult is the outcome of one finalize attempt.
// Code is meaningful for named kinds and ResultPaymentErrorCode,
// Text only for ResultPaymentErrorText.
type OrderResult struct {
	Kind ResultKind
	Code int
	Text string
}

func Success() OrderResult                       { return named(ResultSuccess) }
func MailingError() OrderResult                  { return named(ResultMailingError) }
func PaymentError() OrderResult                  { return named(ResultPaymentError) }
func OrderAlreadyExists() OrderResult            { return named(ResultOrderAlreadyExists) }
func InvalidDeliveryAddressChanged() OrderResult { return named(ResultInvalidDeliveryAddressChanged) }
func BelowMinimumPrice() OrderResult             { return named(ResultBelowMinimumPrice) }
func VoucherError() OrderResult                  { return named(ResultVoucherError) }

func named(k ResultKind) OrderResult {
	return OrderResult{Kind: k, Code: int(k)}
}

// PaymentErrorCode builds a gateway-specific numeric error.
func PaymentErrorCode(code int) OrderResult {
	return OrderResult{Kind: ResultPaymentErrorCode, Code: code}
}

// PaymentErrorText builds a gateway-specific textual error.
func PaymentErrorText(text string) OrderResult {
	return OrderResult{Kind: ResultPaymentErrorText, Text: text}
}

// Normalize folds a numeric payment code that collides with a named code
// into the named variant, so equality matches win over the magnitude rule.
func (r OrderResult) Normalize() OrderResult {
	if r.Kind == ResultPaymentErrorCode && r.Code >= 0 && r.Code <= HighestNamedCode {
		return named(ResultKind(r.Code))
	}
	return r
}

// IsPlaced reports whether the order was stored.
func (r OrderResult) IsPlaced() bool {
	n := r.Normalize()
	return n.Kind == ResultSuccess || n.Kind == ResultMailingError
}

func (r OrderResult) String() string {
	switch r.Kind {
	case ResultPaymentErrorCode:
		return r.Kind.String() + "(" + strconv.Itoa(r.Code) + ")"
	case ResultPaymentErrorText:
		return r.Kind.String() + "(" + strconv.Quote(r.Text) + ")"
	default:
		return r.Kind.String()
	}
}
