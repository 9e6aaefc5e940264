package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/techbites/storefront/internal/application/cart"
	catalogapp "github.com/techbites/storefront/internal/application/catalog"
	"github.com/techbites/storefront/internal/domain/shared"
	"github.com/techbites/storefront/internal/interfaces/http/dto"
	"github.com/techbites/storefront/internal/interfaces/http/middleware"
)

// ErrProductNotFound is returned when a cart add names a product missing from the catalog
var ErrProductNotFound = shared.NewDomainError("NOT_FOUND", "Produto não encontrado")

// CartHandler handles the session cart API
type CartHandler struct {
	BaseHandler
	carts  *cartapp.Registry
	loader *catalogapp.Loader
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cartapp.Registry, loader *catalogapp.Loader) *CartHandler {
	return &CartHandler{carts: carts, loader: loader}
}

// Get godoc
// @Summary      Get the session cart
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID header string false "Session id, defaults to the session cookie"
// @Success      200 {object} dto.Response{data=dto.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	entries, total := sessionView(c, h.carts).Snapshot()
	h.Success(c, dto.NewCartResponse(entries, total))
}

// AddItem godoc
// @Summary      Add a catalog product to the session cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body dto.AddItemRequest true "Product to add"
// @Success      201 {object} dto.Response{data=cart.Entry}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, ok := h.loader.Find(req.ProductID)
	if !ok {
		h.HandleError(c, ErrProductNotFound)
		return
	}

	entry := sessionStore(c, h.carts).Add(c.Request.Context(), product)
	h.Created(c, entry)
}

// RemoveItem godoc
// @Summary      Remove one entry from the session cart
// @Description  Removing an unknown entry is not an error
// @Tags         cart
// @Param        cart_id path string true "Cart entry id"
// @Success      204
// @Router       /cart/items/{cart_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var uri dto.RemoveItemURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sessionStore(c, h.carts).Remove(c.Request.Context(), uri.CartID)
	h.NoContent(c)
}
