package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	basketModel "storefront-checkout/internal/domains/basket/model"
	"storefront-checkout/internal/domains/checkout/model"
	userModel "storefront-checkout/internal/domains/user/model"
	"storefront-checkout/internal/infrastructure/session"
)

const testSID = "sid-test"

type fixture struct {
	svc      CheckoutService
	sessions *session.MemoryStore
	queue    *session.ErrorQueue
	baskets  *mockBaskets
	users    *mockUsers
	orders   *mockOrders
	hook     *mockHook
	payments *mockPayments

	user   *userModel.User
	basket *basketModel.Basket
}

func newFixture(t *testing.T, settings Settings) *fixture {
	t.Helper()

	f := &fixture{
		sessions: session.NewMemoryStore(time.Hour, time.Minute),
		baskets:  &mockBaskets{},
		users:    &mockUsers{},
		orders:   &mockOrders{},
		hook:     &mockHook{},
		payments: &mockPayments{},
		user: &userModel.User{
			ID:       uuid.New(),
			Email:    "buyer@example.com",
			IsActive: true,
			Billing:  userModel.Address{FirstName: "Ada", LastName: "L", City: "Berlin", Country: "DE"},
		},
		basket: &basketModel.Basket{
			ID:        uuid.New(),
			SessionID: testSID,
			PaymentID: "oxidinvoice",
			Currency:  "EUR",
			Items: []basketModel.Item{
				{ArticleID: uuid.New(), ArticleNo: "A-1", Quantity: 1, UnitPrice: decimal.NewFromInt(20)},
				{ArticleID: uuid.New(), ArticleNo: "A-2", Quantity: 3, UnitPrice: decimal.NewFromInt(5)},
			},
		},
	}
	f.queue = session.NewErrorQueue(f.sessions)
	f.svc = NewCheckoutService(f.sessions, f.baskets, f.users, f.orders, f.hook, f.payments, f.queue, settings)

	t.Cleanup(func() {
		f.baskets.AssertExpectations(t)
		f.users.AssertExpectations(t)
		f.orders.AssertExpectations(t)
		f.hook.AssertExpectations(t)
		f.payments.AssertExpectations(t)
	})
	return f
}

func (f *fixture) userID() *uuid.UUID {
	id := f.user.ID
	return &id
}

func (f *fixture) issue(t *testing.T) string {
	t.Helper()
	token, err := f.sessions.IssueChallenge(context.Background(), testSID)
	require.NoError(t, err)
	return token
}

func (f *fixture) expectBasketAndUser() {
	f.baskets.On("GetActiveBasket", mock.Anything, testSID, f.userID()).Return(f.basket, nil)
	f.users.On("GetAuthenticatedUser", mock.Anything, f.user.ID).Return(f.user, nil)
}

func (f *fixture) request(token string) model.ExecuteRequest {
	return model.ExecuteRequest{
		SessionID: testSID,
		UserID:    f.userID(),
		ClientIP:  "203.0.113.9",
		Form:      model.ExecuteForm{Challenge: token, TermsAgreed: "1"},
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t, Settings{ConfirmAGB: true})
	ctx := context.Background()
	token := f.issue(t)

	f.expectBasketAndUser()
	f.orders.On("Finalize", mock.Anything, mock.MatchedBy(func(req model.FinalizeRequest) bool {
		return req.OrderID == token && req.Basket == f.basket && req.User == f.user && req.ClientIP == "203.0.113.9"
	})).Return(model.Success(), nil).Once()
	f.hook.On("OnOrderExecute", mock.Anything, f.basket, f.user, model.Success()).Return(nil).Once()

	res, err := f.svc.Execute(ctx, f.request(token))
	require.NoError(t, err)
	require.False(t, res.IsNoOp())

	assert.Equal(t, model.ViewThankYou, res.Directive.View)
	assert.Empty(t, res.Directive.Params)
	assert.False(t, res.AgreementError)

	var payErr int
	found, err := f.sessions.Get(ctx, testSID, session.KeyPayError, &payErr)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExecute_PassesSessionStateToFinalize(t *testing.T) {
	f := newFixture(t, Settings{})
	ctx := context.Background()
	token := f.issue(t)
	addrID := uuid.New()

	require.NoError(t, f.sessions.Set(ctx, testSID, session.KeyDeliveryAddressID, addrID.String()))
	require.NoError(t, f.sessions.Set(ctx, testSID, session.KeyOrderRemark, "ring twice"))

	f.expectBasketAndUser()
	f.orders.On("Finalize", mock.Anything, mock.MatchedBy(func(req model.FinalizeRequest) bool {
		return req.DeliveryAddressID != nil && *req.DeliveryAddressID == addrID &&
			req.Remark == "ring twice" && req.DeliveryAddressHash == "abc"
	})).Return(model.Success(), nil).Once()
	f.hook.On("OnOrderExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	req := f.request(token)
	req.Form.DeliveryAddressHash = "abc"
	_, err := f.svc.Execute(ctx, req)
	require.NoError(t, err)
}

func TestExecute_MissingTermsIsAgreementError(t *testing.T) {
	f := newFixture(t, Settings{ConfirmAGB: true})
	token := f.issue(t)
	f.expectBasketAndUser()

	req := f.request(token)
	req.Form.TermsAgreed = ""

	res, err := f.svc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.IsNoOp())
	assert.True(t, res.AgreementError)
	f.orders.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything)
	f.hook.AssertNotCalled(t, "OnOrderExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_IntangibleAgreementRequired(t *testing.T) {
	f := newFixture(t, Settings{EnableIntangibleProdAgreement: true})
	f.basket.Items[0].Downloadable = true
	token := f.issue(t)
	f.expectBasketAndUser()

	res, err := f.svc.Execute(context.Background(), f.request(token))
	require.NoError(t, err)
	assert.True(t, res.AgreementError)
}

func TestExecute_ChallengeMismatchIsNoOp(t *testing.T) {
	f := newFixture(t, Settings{})
	f.issue(t)

	res, err := f.svc.Execute(context.Background(), f.request("forged"))
	require.NoError(t, err)

	assert.True(t, res.IsNoOp())
	assert.False(t, res.AgreementError)
	f.baskets.AssertNotCalled(t, "GetActiveBasket", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_ReplayedTokenIsNoOp(t *testing.T) {
	f := newFixture(t, Settings{})
	token := f.issue(t)

	f.expectBasketAndUser()
	f.orders.On("Finalize", mock.Anything, mock.Anything).Return(model.Success(), nil).Once()
	f.hook.On("OnOrderExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	first, err := f.svc.Execute(context.Background(), f.request(token))
	require.NoError(t, err)
	require.False(t, first.IsNoOp())

	second, err := f.svc.Execute(context.Background(), f.request(token))
	require.NoError(t, err)
	assert.True(t, second.IsNoOp())
}

func TestExecute_NoUserGoesToUserView(t *testing.T) {
	f := newFixture(t, Settings{})
	token := f.issue(t)
	f.baskets.On("GetActiveBasket", mock.Anything, testSID, (*uuid.UUID)(nil)).Return(f.basket, nil)

	req := f.request(token)
	req.UserID = nil

	res, err := f.svc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res.Directive)
	assert.Equal(t, model.ViewUser, res.Directive.View)
	f.orders.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything)
}

func TestExecute_InactiveUserGoesToUserView(t *testing.T) {
	f := newFixture(t, Settings{})
	token := f.issue(t)
	f.baskets.On("GetActiveBasket", mock.Anything, testSID, f.userID()).Return(f.basket, nil)
	f.users.On("GetAuthenticatedUser", mock.Anything, f.user.ID).Return(nil, nil)

	res, err := f.svc.Execute(context.Background(), f.request(token))
	require.NoError(t, err)
	require.NotNil(t, res.Directive)
	assert.Equal(t, model.ViewUser, res.Directive.View)
}

func TestExecute_EmptyBasketIsNoOp(t *testing.T) {
	for name, basket := range map[string]*basketModel.Basket{
		"nil":   nil,
		"empty": {ID: uuid.New()},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, Settings{})
			token := f.issue(t)
			f.baskets.On("GetActiveBasket", mock.Anything, testSID, f.userID()).Return(basket, nil)
			f.users.On("GetAuthenticatedUser", mock.Anything, f.user.ID).Return(f.user, nil)

			res, err := f.svc.Execute(context.Background(), f.request(token))
			require.NoError(t, err)
			assert.True(t, res.IsNoOp())
			assert.False(t, res.AgreementError)
		})
	}
}

func TestExecute_CatalogFaults(t *testing.T) {
	articleID := uuid.NewString()

	tests := []struct {
		name string
		err  error
		view string
		code string
	}{
		{"out of stock", model.NewOutOfStockError(articleID, "A-1", 2, 0), model.ViewBasket, model.ErrCodeOutOfStock},
		{"article missing", model.NewArticleMissingError(articleID), model.ViewOrder, model.ErrCodeArticleMissing},
		{"invalid input", model.NewInvalidArticleInputError(articleID), model.ViewOrder, model.ErrCodeInvalidArticleInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Settings{})
			ctx := context.Background()
			token := f.issue(t)
			f.expectBasketAndUser()
			f.orders.On("Finalize", mock.Anything, mock.Anything).Return(model.OrderResult{}, tt.err).Once()

			res, err := f.svc.Execute(ctx, f.request(token))
			require.NoError(t, err)
			assert.True(t, res.IsNoOp())
			f.hook.AssertNotCalled(t, "OnOrderExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

			queued, err := f.queue.TakeErrors(ctx, testSID, tt.view)
			require.NoError(t, err)
			require.Len(t, queued, 1)
			assert.Equal(t, tt.code, queued[0].Code)
			assert.Equal(t, articleID, queued[0].ArticleID)
		})
	}
}

func TestExecute_OutOfStockQueuesOnlyForBasket(t *testing.T) {
	f := newFixture(t, Settings{})
	ctx := context.Background()
	token := f.issue(t)
	f.expectBasketAndUser()
	f.orders.On("Finalize", mock.Anything, mock.Anything).
		Return(model.OrderResult{}, model.NewOutOfStockError("a", "A-1", 1, 0)).Once()

	_, err := f.svc.Execute(ctx, f.request(token))
	require.NoError(t, err)

	orderErrs, err := f.queue.TakeErrors(ctx, testSID, model.ViewOrder)
	require.NoError(t, err)
	assert.Empty(t, orderErrs)
}

func TestExecute_OtherErrorsPropagate(t *testing.T) {
	f := newFixture(t, Settings{})
	token := f.issue(t)
	boom := errors.New("connection refused")
	f.expectBasketAndUser()
	f.orders.On("Finalize", mock.Anything, mock.Anything).Return(model.OrderResult{}, boom).Once()

	_, err := f.svc.Execute(context.Background(), f.request(token))
	assert.ErrorIs(t, err, boom)
}

func TestExecute_GatewayCode(t *testing.T) {
	f := newFixture(t, Settings{})
	ctx := context.Background()
	token := f.issue(t)
	f.expectBasketAndUser()
	f.orders.On("Finalize", mock.Anything, mock.Anything).Return(model.PaymentErrorCode(7), nil).Once()
	f.hook.On("OnOrderExecute", mock.Anything, f.basket, f.user, model.PaymentErrorCode(7)).Return(nil).Once()

	res, err := f.svc.Execute(ctx, f.request(token))
	require.NoError(t, err)
	require.NotNil(t, res.Directive)
	assert.Equal(t, model.ViewPayment, res.Directive.View)
	assert.Equal(t, "payerror=7", res.Directive.Query())

	var payErr int
	found, err := f.sessions.Get(ctx, testSID, session.KeyPayError, &payErr)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 7, payErr)
}

func TestExecute_GatewayText(t *testing.T) {
	f := newFixture(t, Settings{})
	ctx := context.Background()
	token := f.issue(t)
	f.expectBasketAndUser()
	f.orders.On("Finalize", mock.Anything, mock.Anything).Return(model.PaymentErrorText("Card declined"), nil).Once()
	f.hook.On("OnOrderExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	res, err := f.svc.Execute(ctx, f.request(token))
	require.NoError(t, err)
	require.NotNil(t, res.Directive)
	assert.Equal(t, "payment?payerror=-1&payerrortext=Card%20declined", res.Directive.URL())

	var payErr int
	_, err = f.sessions.Get(ctx, testSID, session.KeyPayError, &payErr)
	require.NoError(t, err)
	assert.Equal(t, -1, payErr)
}

func TestExecute_HookErrorDoesNotAbort(t *testing.T) {
	f := newFixture(t, Settings{})
	token := f.issue(t)
	f.expectBasketAndUser()
	f.orders.On("Finalize", mock.Anything, mock.Anything).Return(model.MailingError(), nil).Once()
	f.hook.On("OnOrderExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("queue down")).Once()

	res, err := f.svc.Execute(context.Background(), f.request(token))
	require.NoError(t, err)
	require.NotNil(t, res.Directive)
	assert.Equal(t, "thankyou?mailerror=1", res.Directive.URL())
}

func TestExecute_OrderAlreadyExistsNeverRedirects(t *testing.T) {
	f := newFixture(t, Settings{})
	f.expectBasketAndUser()
	f.orders.On("Finalize", mock.Anything, mock.Anything).Return(model.OrderAlreadyExists(), nil).Twice()
	f.hook.On("OnOrderExecute", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	for i := 0; i < 2; i++ {
		res, err := f.svc.Execute(context.Background(), f.request(f.issue(t)))
		require.NoError(t, err)
		require.NotNil(t, res.Directive)
		assert.True(t, res.Directive.SuppressRedirect, "attempt %d", i+1)
	}
}

func TestExecute_EmptySessionIsNoOp(t *testing.T) {
	f := newFixture(t, Settings{})

	res, err := f.svc.Execute(context.Background(), model.ExecuteRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsNoOp())
}
