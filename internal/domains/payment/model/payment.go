package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// =====================================================
// PAYMENT METHOD
// =====================================================

// Method is a payment option offered at checkout.
type Method struct {
	ID              string
	Name            string
	IsActive        bool
	FromAmount      decimal.Decimal
	ToAmount        decimal.Decimal // zero means no upper bound
	AllowedShipSets []string        // empty means any
	UserGroups      []string        // empty means everyone
	RequiredFields  []string        // dynvalue keys the form must fill
}

// AcceptsAmount checks the basket price against the method's range.
func (m *Method) AcceptsAmount(price decimal.Decimal) bool {
	if price.LessThan(m.FromAmount) {
		return false
	}
	return m.ToAmount.IsZero() || price.LessThanOrEqual(m.ToAmount)
}

func (m *Method) AllowsShipSet(shipSetID string) bool {
	return allowed(m.AllowedShipSets, shipSetID)
}

// AllowsGroups reports whether any of groups may use the method.
func (m *Method) AllowsGroups(groups []string) bool {
	if len(m.UserGroups) == 0 {
		return true
	}
	for _, g := range groups {
		if allowed(m.UserGroups, g) {
			return true
		}
	}
	return false
}

// MissingField returns the first required form field left blank in dyn.
func (m *Method) MissingField(dyn map[string]string) (string, bool) {
	for _, f := range m.RequiredFields {
		if strings.TrimSpace(dyn[f]) == "" {
			return f, true
		}
	}
	return "", false
}

func allowed(list []string, v string) bool {
	if len(list) == 0 {
		return true
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// =====================================================
// ERRORS
// =====================================================
const (
	ErrCodeMethodNotFound = "PAY001"
	ErrCodeGateway        = "PAY002"
)

var (
	ErrMethodNotFound = errors.New("payment method not found")
)
