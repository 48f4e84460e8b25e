package service

import (
	basketModel "storefront-checkout/internal/domains/basket/model"
	"storefront-checkout/internal/domains/checkout/model"
)

// ValidateAgreements reports whether every checkbox the shop and the basket
// demand was ticked. The checks are independent and all must pass.
func ValidateAgreements(in model.AgreementInput, flags model.BasketFlags, cfg model.AgreementConfig) bool {
	valid := true

	if cfg.ConfirmAGB && !in.TermsAgreed {
		valid = false
	}

	if cfg.EnableIntangibleProdAgreement {
		if flags.HasDownloadableArticles && !in.DownloadableAgreement {
			valid = false
		}
		if flags.HasIntangibleArticles && !in.ServiceAgreement {
			valid = false
		}
	}

	return valid
}

func basketFlags(b *basketModel.Basket) model.BasketFlags {
	if b == nil {
		return model.BasketFlags{}
	}
	return model.BasketFlags{
		HasDownloadableArticles: b.HasDownloadableAgreementArticles(),
		HasIntangibleArticles:   b.HasIntangibleAgreementArticles(),
	}
}

// Preconditions snapshots the checks Execute makes before finalizing.
func Preconditions(in model.AgreementInput, basket *basketModel.Basket, userPresent bool, cfg model.AgreementConfig) model.CheckoutPreconditions {
	flags := basketFlags(basket)
	return model.CheckoutPreconditions{
		LegalAgreementsConfirmed:       !cfg.ConfirmAGB || in.TermsAgreed,
		DownloadableAgreementConfirmed: !cfg.EnableIntangibleProdAgreement || !flags.HasDownloadableArticles || in.DownloadableAgreement,
		ServiceAgreementConfirmed:      !cfg.EnableIntangibleProdAgreement || !flags.HasIntangibleArticles || in.ServiceAgreement,
		BasketNonEmpty:                 basket.ProductsCount() > 0,
		UserPresent:                    userPresent,
	}
}
