package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	basketModel "storefront-checkout/internal/domains/basket/model"
	userModel "storefront-checkout/internal/domains/user/model"
	"storefront-checkout/internal/infrastructure/session"
)

// =====================================================
// EXECUTE (SUBMIT ORDER) REQUEST
// =====================================================
type ExecuteForm struct {
	Challenge             string `form:"stoken" json:"stoken"`
	TermsAgreed           string `form:"ord_agb" json:"ord_agb"`
	DownloadableAgreement string `form:"oxdownloadableproductsagreement" json:"oxdownloadableproductsagreement"`
	ServiceAgreement      string `form:"oxserviceproductsagreement" json:"oxserviceproductsagreement"`
	DeliveryAddressHash   string `form:"sDeliveryAddressMD5" json:"sDeliveryAddressMD5"`
}

// Validate validates ExecuteForm
func (f ExecuteForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Challenge, validation.Length(0, 128)),
		validation.Field(&f.TermsAgreed, validation.Length(0, 16)),
		validation.Field(&f.DownloadableAgreement, validation.Length(0, 16)),
		validation.Field(&f.ServiceAgreement, validation.Length(0, 16)),
		validation.Field(&f.DeliveryAddressHash, validation.Length(0, 64)),
	)
}

// Agreements converts the posted checkboxes.
func (f ExecuteForm) Agreements() AgreementInput {
	return AgreementInput{
		TermsAgreed:           Truthy(f.TermsAgreed),
		DownloadableAgreement: Truthy(f.DownloadableAgreement),
		ServiceAgreement:      Truthy(f.ServiceAgreement),
	}
}

// Truthy follows form semantics: only empty and "0" are false, so
// "false" or "off" still count as checked.
func Truthy(v string) bool {
	return v != "" && v != "0"
}

// ExecuteRequest is the input of OrderFinalizer.Execute.
type ExecuteRequest struct {
	SessionID string
	UserID    *uuid.UUID
	ClientIP  string
	Form      ExecuteForm
}

// FinalizeRequest is handed to order persistence. OrderID is the consumed
// challenge token, so a replay finds the order already stored.
type FinalizeRequest struct {
	OrderID             string
	Basket              *basketModel.Basket
	User                *userModel.User
	DeliveryAddressID   *uuid.UUID
	DeliveryAddressHash string
	Remark              string
	ClientIP            string
	DynValue            map[string]string
}

// ExecuteResult is either a directive or a NoOp (Directive == nil).
type ExecuteResult struct {
	Directive      *NavigationDirective
	AgreementError bool
}

func (r ExecuteResult) IsNoOp() bool {
	return r.Directive == nil
}

// =====================================================
// RENDER (ORDER PAGE) REQUEST
// =====================================================
type RenderRequest struct {
	SessionID      string
	UserID         *uuid.UUID
	AddressError   bool
	AgreementError bool
}

// RenderResult is either a redirect or the order page data.
type RenderResult struct {
	Redirect string     `json:"redirect,omitempty"`
	View     *OrderView `json:"view,omitempty"`
}

// OrderView is everything the order page template needs.
type OrderView struct {
	Challenge            string            `json:"stoken"`
	ConfirmAGBActive     bool              `json:"confirm_agb_active"`
	ConfirmAGBError      bool              `json:"confirm_agb_error"`
	ShowOrderButtonOnTop bool              `json:"show_order_button_on_top"`
	OrderRemark          string            `json:"order_remark,omitempty"`
	ShippingSetID        string            `json:"shipping_set_id,omitempty"`
	DeliveryAddressID    string            `json:"delivery_address_id,omitempty"`
	DeliveryAddressHash  string            `json:"delivery_address_hash"`
	AddressError         bool              `json:"address_error"`
	PaymentID            string            `json:"payment_id"`
	Basket               BasketSummary     `json:"basket"`
	Errors               []session.Message `json:"errors,omitempty"`
}

type BasketSummary struct {
	ProductsCount   int             `json:"products_count"`
	ItemsQuantity   int             `json:"items_quantity"`
	ProductsPrice   decimal.Decimal `json:"products_price"`
	Discount        decimal.Decimal `json:"discount"`
	DeliveryCost    decimal.Decimal `json:"delivery_cost"`
	PaymentCost     decimal.Decimal `json:"payment_cost"`
	Total           decimal.Decimal `json:"total"`
	Currency        string          `json:"currency"`
	HasDownloadable bool            `json:"has_downloadable"`
	HasIntangible   bool            `json:"has_intangible"`
}

// =====================================================
// EXECUTE RESPONSE
// =====================================================
type ExecuteResponse struct {
	Redirect         string               `json:"redirect,omitempty"`
	Directive        *NavigationDirective `json:"directive,omitempty"`
	SuppressRedirect bool                 `json:"suppress_redirect,omitempty"`
	View             *OrderView           `json:"view,omitempty"`
}
