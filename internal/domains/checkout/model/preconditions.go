package model

// CheckoutPreconditions is computed per request and never stored.
type CheckoutPreconditions struct {
	LegalAgreementsConfirmed       bool
	DownloadableAgreementConfirmed bool
	ServiceAgreementConfirmed      bool
	BasketNonEmpty                 bool
	UserPresent                    bool
}

// AgreementInput carries the checkbox values posted with the order form.
type AgreementInput struct {
	TermsAgreed           bool
	DownloadableAgreement bool
	ServiceAgreement      bool
}

// BasketFlags are the basket facts the agreement rules depend on.
type BasketFlags struct {
	HasDownloadableArticles bool
	HasIntangibleArticles   bool
}

// AgreementConfig is the slice of shop configuration the rules read.
type AgreementConfig struct {
	ConfirmAGB                    bool
	EnableIntangibleProdAgreement bool
}

// AgreementsConfirmed is true when every required checkbox was ticked.
func (p CheckoutPreconditions) AgreementsConfirmed() bool {
	return p.LegalAgreementsConfirmed && p.DownloadableAgreementConfirmed && p.ServiceAgreementConfirmed
}
