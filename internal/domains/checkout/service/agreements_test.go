package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	basketModel "storefront-checkout/internal/domains/basket/model"
	"storefront-checkout/internal/domains/checkout/model"
)

func TestValidateAgreements(t *testing.T) {
	all := model.AgreementConfig{ConfirmAGB: true, EnableIntangibleProdAgreement: true}
	both := model.BasketFlags{HasDownloadableArticles: true, HasIntangibleArticles: true}

	tests := []struct {
		name  string
		in    model.AgreementInput
		flags model.BasketFlags
		cfg   model.AgreementConfig
		want  bool
	}{
		{"nothing required", model.AgreementInput{}, both, model.AgreementConfig{}, true},
		{"terms required and missing", model.AgreementInput{}, model.BasketFlags{}, model.AgreementConfig{ConfirmAGB: true}, false},
		{"terms required and given", model.AgreementInput{TermsAgreed: true}, model.BasketFlags{}, model.AgreementConfig{ConfirmAGB: true}, true},
		{"intangible rules off", model.AgreementInput{TermsAgreed: true}, both, model.AgreementConfig{ConfirmAGB: true}, true},
		{"downloadable missing", model.AgreementInput{TermsAgreed: true, ServiceAgreement: true}, both, all, false},
		{"service missing", model.AgreementInput{TermsAgreed: true, DownloadableAgreement: true}, both, all, false},
		{"all given", model.AgreementInput{TermsAgreed: true, DownloadableAgreement: true, ServiceAgreement: true}, both, all, true},
		{"no such articles", model.AgreementInput{TermsAgreed: true}, model.BasketFlags{}, all, true},
		{"only downloadable needed", model.AgreementInput{DownloadableAgreement: true}, model.BasketFlags{HasDownloadableArticles: true}, model.AgreementConfig{EnableIntangibleProdAgreement: true}, true},
		{"terms missing but others given", model.AgreementInput{DownloadableAgreement: true, ServiceAgreement: true}, both, all, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateAgreements(tt.in, tt.flags, tt.cfg))
		})
	}
}

func TestPreconditions(t *testing.T) {
	cfg := model.AgreementConfig{ConfirmAGB: true, EnableIntangibleProdAgreement: true}
	basket := &basketModel.Basket{Items: []basketModel.Item{{Quantity: 1, Intangible: true}}}

	pre := Preconditions(model.AgreementInput{TermsAgreed: true}, basket, true, cfg)
	assert.True(t, pre.LegalAgreementsConfirmed)
	assert.True(t, pre.DownloadableAgreementConfirmed)
	assert.False(t, pre.ServiceAgreementConfirmed)
	assert.False(t, pre.AgreementsConfirmed())
	assert.True(t, pre.BasketNonEmpty)
	assert.True(t, pre.UserPresent)

	assert.Equal(t,
		ValidateAgreements(model.AgreementInput{TermsAgreed: true}, basketFlags(basket), cfg),
		pre.AgreementsConfirmed(),
	)

	empty := Preconditions(model.AgreementInput{}, nil, false, model.AgreementConfig{})
	assert.True(t, empty.AgreementsConfirmed())
	assert.False(t, empty.BasketNonEmpty)
	assert.False(t, empty.UserPresent)
}
