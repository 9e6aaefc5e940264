package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/techbites/storefront/internal/application/cart"
	"github.com/techbites/storefront/internal/application/checkout"
	"github.com/techbites/storefront/internal/interfaces/http/dto"
)

// CheckoutHandler hands the session cart off to the messaging link
type CheckoutHandler struct {
	BaseHandler
	carts    *cartapp.Registry
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(carts *cartapp.Registry, svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, checkout: svc}
}

// Checkout godoc
// @Summary      Compose the order message and link
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body dto.CheckoutRequest true "Delivery address"
// @Success      200 {object} dto.Response{data=checkout.Order}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.checkout.Checkout(c.Request.Context(), sessionStore(c, h.carts), req.Address)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
