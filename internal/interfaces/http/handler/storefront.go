package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/techbites/storefront/internal/application/cart"
	catalogapp "github.com/techbites/storefront/internal/application/catalog"
	"github.com/techbites/storefront/internal/application/checkout"
	"github.com/techbites/storefront/internal/domain/catalog"
	"github.com/techbites/storefront/internal/domain/shared"
	"github.com/techbites/storefront/internal/infrastructure/logger"
	"github.com/techbites/storefront/internal/interfaces/http/dto"
	"github.com/techbites/storefront/internal/interfaces/http/middleware"
	"github.com/techbites/storefront/internal/interfaces/http/view"
)

// StorefrontHandler serves the storefront page and its form actions
type StorefrontHandler struct {
	BaseHandler
	loader   *catalogapp.Loader
	carts    *cartapp.Registry
	checkout *checkout.Service
	renderer *view.Renderer

	// pulses holds only raised flags; each removes itself once lowered
	mu     sync.Mutex
	pulses map[string]*view.Pulse
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(
	loader *catalogapp.Loader,
	carts *cartapp.Registry,
	svc *checkout.Service,
	renderer *view.Renderer,
) *StorefrontHandler {
	return &StorefrontHandler{
		loader:   loader,
		carts:    carts,
		checkout: svc,
		renderer: renderer,
		pulses:   make(map[string]*view.Pulse),
	}
}

// pageState is what the request decides about the page, beyond catalog and cart
type pageState struct {
	category catalog.Category
	cartOpen bool
	address  string
	alert    string
	orderURL string
}

// Index renders the storefront page.
// ?categoria= picks the category and ?carrinho=aberto opens the cart modal.
func (h *StorefrontHandler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, pageState{
		category: catalog.ParseCategory(c.Query("categoria")),
		cartOpen: c.Query("carrinho") == "aberto",
	})
}

// AddItem adds the posted product and returns to the same category
func (h *StorefrontHandler) AddItem(c *gin.Context) {
	var form dto.AddItemForm
	if err := c.ShouldBind(&form); err != nil {
		h.redirect(c, pageURL(catalog.ParseCategory(form.Category), false))
		return
	}
	category := catalog.ParseCategory(form.Category)

	product, ok := h.loader.Find(form.ProductID)
	if !ok {
		logger.L(c.Request.Context()).Warn("Add of unknown product ignored", zap.Int64("product_id", form.ProductID))
		h.redirect(c, pageURL(category, false))
		return
	}

	sessionStore(c, h.carts).Add(c.Request.Context(), product)
	h.triggerPulse(middleware.GetSessionID(c))
	h.redirect(c, pageURL(category, false))
}

// RemoveItem drops the posted cart entry and keeps the cart modal open
func (h *StorefrontHandler) RemoveItem(c *gin.Context) {
	var form dto.RemoveItemForm
	if err := c.ShouldBind(&form); err == nil {
		sessionStore(c, h.carts).Remove(c.Request.Context(), form.CartID)
	}
	h.redirect(c, pageURL(catalog.ParseCategory(form.Category), true))
}

// Checkout validates the address and re-renders the cart modal in place.
// A failure shows the alert; a success shows the link that opens the messaging app.
func (h *StorefrontHandler) Checkout(c *gin.Context) {
	var form dto.CheckoutForm
	_ = c.ShouldBind(&form)
	state := pageState{
		category: catalog.ParseCategory(form.Category),
		cartOpen: true,
		address:  form.Address,
	}

	order, err := h.checkout.Checkout(c.Request.Context(), sessionStore(c, h.carts), form.Address)
	if err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) {
			h.HandleError(c, err)
			return
		}
		state.alert = domainErr.Message
		h.render(c, dto.GetHTTPStatus(domainErr.Code), state)
		return
	}
	state.orderURL = order.URL
	h.render(c, http.StatusOK, state)
}

// render only reads the session cart, so requests that never change it add no state
func (h *StorefrontHandler) render(c *gin.Context, status int, state pageState) {
	store := sessionView(c, h.carts)
	entries, total := store.Snapshot()

	page := view.Page{
		Ready:          store.Ready(),
		Tabs:           view.NewTabs(state.category),
		ActiveCategory: state.category,
		Products:       h.loader.ByCategory(state.category),
		Cart:           entries,
		Total:          total,
		CartOpen:       state.cartOpen || state.alert != "" || state.orderURL != "",
		Pulse:          h.pulseActive(middleware.GetSessionID(c)),
		Address:        state.address,
		Alert:          state.alert,
		OrderURL:       state.orderURL,
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		logger.L(c.Request.Context()).Error("Failed to render storefront", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *StorefrontHandler) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

func (h *StorefrontHandler) triggerPulse(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pulses[sessionID]
	if !ok {
		p = view.NewPulse(view.PulseDuration)
		p.OnLower(func() { h.dropPulse(sessionID, p) })
		h.pulses[sessionID] = p
	}
	p.Trigger()
}

func (h *StorefrontHandler) pulseActive(sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	p, ok := h.pulses[sessionID]
	return ok && p.Active()
}

// dropPulse keeps a flag that was raised again before the lock was taken
func (h *StorefrontHandler) dropPulse(sessionID string, p *view.Pulse) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pulses[sessionID] == p && !p.Active() {
		delete(h.pulses, sessionID)
	}
}

func pageURL(category catalog.Category, cartOpen bool) string {
	q := url.Values{"categoria": {category.String()}}
	if cartOpen {
		q.Set("carrinho", "aberto")
	}
	return "/?" + q.Encode()
}
