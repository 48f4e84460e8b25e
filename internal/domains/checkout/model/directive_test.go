package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectiveQuery(t *testing.T) {
	d := NavigationDirective{View: ViewPayment}
	assert.Equal(t, "payment", d.URL())

	d.Params = []Param{
		{Key: ParamPayError, Value: "-1"},
		{Key: ParamPayErrorText, Value: "Card declined & retry=no"},
	}

	assert.Equal(t, "payerror=-1&payerrortext=Card%20declined%20%26%20retry%3Dno", d.Query())
	assert.Equal(t, "payment?payerror=-1&payerrortext=Card%20declined%20%26%20retry%3Dno", d.URL())

	raw, ok := d.Param(ParamPayErrorText)
	assert.True(t, ok)
	assert.Equal(t, "Card declined & retry=no", raw)

	_, ok = d.Param(ParamMailError)
	assert.False(t, ok)
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"1", "on", "true", "yes", "false", "off", " "} {
		assert.True(t, Truthy(v), v)
	}
	for _, v := range []string{"", "0"} {
		assert.False(t, Truthy(v), v)
	}
}

func TestExecuteFormValidate(t *testing.T) {
	assert.NoError(t, ExecuteForm{Challenge: "abc", TermsAgreed: "1"}.Validate())
	assert.NoError(t, ExecuteForm{TermsAgreed: "yes", ServiceAgreement: "agreed"}.Validate())
	assert.Error(t, ExecuteForm{TermsAgreed: "this value is far too long for a checkbox"}.Validate())
}

func TestCatalogErrorMatching(t *testing.T) {
	err := fmt.Errorf("reserve stock: %w", NewOutOfStockError("id-1", "A-100", 3, 1))

	assert.True(t, errors.Is(err, ErrOutOfStock))
	assert.False(t, errors.Is(err, ErrArticleMissing))

	var ce *CatalogError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeOutOfStock, ce.Code())
	assert.Equal(t, 1, ce.Available)

	assert.Equal(t, ErrCodeArticleMissing, NewArticleMissingError("x").Code())
	assert.Equal(t, ErrCodeInvalidArticleInput, NewInvalidArticleInputError("x").Code())
}
