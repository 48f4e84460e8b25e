package model

import (
	"net/url"
	"strings"
)

// Views a directive can point at.
const (
	ViewThankYou = "thankyou"
	ViewOrder    = "order"
	ViewBasket   = "basket"
	ViewPayment  = "payment"
	ViewUser     = "user"
	ViewStart    = "start"
)

// Query parameter names understood by the views.
const (
	ParamMailError    = "mailerror"
	ParamAddressError = "iAddressError"
	ParamPayError     = "payerror"
	ParamPayErrorText = "payerrortext"
)

// Param is a single query parameter, stored unescaped.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SessionEffect asks the caller to store Value under Key in the session.
type SessionEffect struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// NavigationDirective tells the web layer where to go next.
//
// SuppressRedirect is the reload blocker: the caller must stay on the
// current page even though View is set.
type NavigationDirective struct {
	View             string         `json:"view"`
	Params           []Param        `json:"params,omitempty"`
	SessionEffect    *SessionEffect `json:"session_effect,omitempty"`
	SuppressRedirect bool           `json:"suppress_redirect,omitempty"`
}

// Param returns the raw value for key.
func (d NavigationDirective) Param(key string) (string, bool) {
	for _, p := range d.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Query renders the params in order with RFC 3986 escaping (space is %20).
func (d NavigationDirective) Query() string {
	if len(d.Params) == 0 {
		return ""
	}

	var b strings.Builder
	for i, p := range d.Params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(p.Key))
		b.WriteByte('=')
		b.WriteString(escape(p.Value))
	}
	return b.String()
}

// URL is the relative target, e.g. "payment?payerror=7".
func (d NavigationDirective) URL() string {
	if q := d.Query(); q != "" {
		return d.View + "?" + q
	}
	return d.View
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
