package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/domains/checkout/model"
	"storefront-checkout/internal/domains/checkout/service"
	"storefront-checkout/internal/shared/middleware"
	"storefront-checkout/internal/shared/response"
	"storefront-checkout/pkg/logger"
)

// =====================================================
// CHECKOUT HANDLER
// =====================================================
type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// =====================================================
// ROUTES REGISTRATION
// =====================================================

// RegisterRoutes mounts the order step. submitGuards run before POST only.
func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup, submitGuards ...gin.HandlerFunc) {
	checkout := router.Group("/checkout")
	{
		checkout.GET("/order", h.ShowOrder) // GET /api/v1/checkout/order?iAddressError=1
		checkout.POST("/order", append(submitGuards, h.ExecuteOrder)...)
	}
}

// =====================================================
// SHOW ORDER PAGE
// =====================================================

// ShowOrder godoc
// @Summary Order confirmation step
// @Description Guards the order step and returns its view data with a fresh stoken
// @Tags Checkout
// @Produce json
// @Success 200 {object} response.Response{data=model.RenderResult}
// @Failure 500 {object} response.Response
// @Router /v1/checkout/order [get]
func (h *CheckoutHandler) ShowOrder(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		response.BadRequest(c, model.ErrCodeSessionRequired, model.ErrSessionRequired.Error(), nil)
		return
	}

	userID, _ := middleware.GetAuthenticatedUserID(c)
	result, err := h.checkoutService.Render(c.Request.Context(), model.RenderRequest{
		SessionID:    sessionID,
		UserID:       userID,
		AddressError: model.Truthy(c.Query(model.ParamAddressError)),
	})
	if err != nil {
		logger.Error("render order step failed", err)
		response.InternalServerError(c, model.ErrCodeInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// EXECUTE ORDER
// =====================================================

// ExecuteOrder godoc
// @Summary Submit the order
// @Description Finalizes the basket; answers with the next step or the re-rendered order step
// @Tags Checkout
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Success 200 {object} response.Response{data=model.ExecuteResponse}
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /v1/checkout/order [post]
func (h *CheckoutHandler) ExecuteOrder(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		response.BadRequest(c, model.ErrCodeSessionRequired, model.ErrSessionRequired.Error(), nil)
		return
	}

	var form model.ExecuteForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, model.ErrCodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	if err := form.Validate(); err != nil {
		response.BadRequest(c, model.ErrCodeInvalidRequest, "Invalid request", err)
		return
	}

	userID, _ := middleware.GetAuthenticatedUserID(c)
	ctx := c.Request.Context()

	result, err := h.checkoutService.Execute(ctx, model.ExecuteRequest{
		SessionID: sessionID,
		UserID:    userID,
		ClientIP:  middleware.GetClientIP(c),
		Form:      form,
	})
	if err != nil {
		logger.ErrorWithFields("execute order failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		response.InternalServerError(c, model.ErrCodeInternal)
		return
	}

	// Navigate
	if !result.IsNoOp() && !result.Directive.SuppressRedirect {
		response.Success(c, http.StatusOK, model.ExecuteResponse{
			Redirect:  result.Directive.URL(),
			Directive: result.Directive,
		})
		return
	}

	// Stay on the order step: render it again
	rendered, err := h.checkoutService.Render(ctx, model.RenderRequest{
		SessionID:      sessionID,
		UserID:         userID,
		AgreementError: result.AgreementError,
	})
	if err != nil {
		logger.Error("re-render order step failed", err)
		response.InternalServerError(c, model.ErrCodeInternal)
		return
	}

	response.Success(c, http.StatusOK, model.ExecuteResponse{
		Redirect:         rendered.Redirect,
		Directive:        result.Directive,
		SuppressRedirect: !result.IsNoOp(),
		View:             rendered.View,
	})
}
