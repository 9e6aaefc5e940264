package handler

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techbites/storefront/internal/interfaces/http/view"
)

func TestStorefrontHandler_Index(t *testing.T) {
	f := newFixture(t)

	t.Run("default category", func(t *testing.T) {
		w := f.getJSON("/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		body := w.Body.String()
		assert.Contains(t, body, "X-Burguer")
		assert.NotContains(t, body, "Refri")
		assert.NotContains(t, body, "VER CARRINHO")
	})

	t.Run("selected category", func(t *testing.T) {
		body := f.getJSON("/?categoria=Bebidas").Body.String()
		assert.Contains(t, body, "Refri")
		assert.NotContains(t, body, "X-Burguer")
	})

	t.Run("unknown category falls back to the default", func(t *testing.T) {
		body := f.getJSON("/?categoria=nada").Body.String()
		assert.Contains(t, body, "X-Burguer")
	})
}

func TestStorefrontHandler_CookielessRequestsAddNoState(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 500; i++ {
		w := f.anonymous(http.MethodGet, "/")
		require.Equal(t, http.StatusOK, w.Code)
	}
	f.anonymous(http.MethodGet, "/?carrinho=aberto")
	f.anonymous(http.MethodGet, "/api/v1/cart")

	assert.Zero(t, f.carts.Len())
	assert.Zero(t, f.pulseCount())
}

func TestStorefrontHandler_PulseIsReleased(t *testing.T) {
	f := newFixture(t)

	f.postForm("/carrinho/adicionar", "product_id=1")
	assert.Equal(t, 1, f.pulseCount())
	assert.Contains(t, f.getJSON("/").Body.String(), "floating pulse")

	assert.Eventually(t, func() bool { return f.pulseCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.NotContains(t, f.getJSON("/").Body.String(), "floating pulse")
	assert.Equal(t, 1, f.store().Len())
}

func TestStorefrontHandler_EmptyCatalog(t *testing.T) {
	f := newFixture(t, withSource(&stubSource{}))
	body := f.getJSON("/").Body.String()
	assert.Contains(t, body, view.EmptyCategoryText)
}

func TestStorefrontHandler_AddAndRemove(t *testing.T) {
	f := newFixture(t)

	w := f.postForm("/carrinho/adicionar", "product_id=3&categoria=Bebidas")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?categoria=Bebidas", w.Header().Get("Location"))
	require.Equal(t, 1, f.store().Len())

	body := f.getJSON("/?categoria=Bebidas").Body.String()
	assert.Contains(t, body, "VER CARRINHO (1)")
	assert.Contains(t, body, "R$ 15,00")
	assert.Contains(t, body, "floating pulse")

	w = f.postForm("/carrinho/remover", "cart_id=e1&categoria=Bebidas")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "aberto", loc.Query().Get("carrinho"))
	assert.Equal(t, 0, f.store().Len())

	body = f.getJSON(loc.String()).Body.String()
	assert.Contains(t, body, "Seu Pedido", "removing the last item keeps the modal open")
	assert.NotContains(t, body, "VER CARRINHO")
}

func TestStorefrontHandler_AddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	w := f.postForm("/carrinho/adicionar", "product_id=42")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, f.store().Len())
}

func TestStorefrontHandler_OpenCart(t *testing.T) {
	f := newFixture(t)
	f.postForm("/carrinho/adicionar", "product_id=1")

	body := f.getJSON("/?carrinho=aberto").Body.String()
	assert.Contains(t, body, "Seu Pedido")
	assert.Contains(t, body, `value="e1"`)
}

func TestStorefrontHandler_Checkout(t *testing.T) {
	t.Run("shows the messaging link in place", func(t *testing.T) {
		f := newFixture(t)
		f.postForm("/carrinho/adicionar", "product_id=1")

		w := f.postForm("/checkout", "endereco="+url.QueryEscape("Rua A, 1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Location"))
		body := w.Body.String()
		assert.Contains(t, body, `href="https://wa.me/5511999999999?text=`)
		assert.Contains(t, body, "%20")
		assert.Equal(t, 1, strings.Count(body, `target="_blank"`), "only the hand-off link opens a new tab")
		assert.Contains(t, body, `value="Rua A, 1"`)
	})

	t.Run("empty cart still gets a link", func(t *testing.T) {
		f := newFixture(t)

		w := f.postForm("/checkout", "endereco="+url.QueryEscape("Rua A, 1"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `href="https://wa.me/5511999999999?text=`)
	})

	t.Run("missing address shows the alert", func(t *testing.T) {
		f := newFixture(t)
		f.postForm("/carrinho/adicionar", "product_id=1")

		w := f.postForm("/checkout", "endereco=")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Por favor, informe o endereço!")
		assert.Contains(t, body, "Seu Pedido")
		assert.NotContains(t, body, `target="_blank"`, "no link is opened")
		assert.NotContains(t, body, "wa.me")
		assert.Equal(t, 1, f.store().Len())
	})
}
