package checkout

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techbites/storefront/internal/domain/cart"
	"github.com/techbites/storefront/internal/domain/catalog"
)

func entry(name string, price string, id string) cart.Entry {
	return cart.Entry{
		Product: catalog.Product{
			ID:       1,
			Name:     name,
			Price:    decimal.RequireFromString(price),
			Category: catalog.CategoryBurgers,
		},
		CartID: id,
	}
}

func TestComposer_Compose(t *testing.T) {
	composer := NewComposer("")

	t.Run("builds the order message and link", func(t *testing.T) {
		entries := []cart.Entry{entry("X", "10", "a"), entry("Y", "15", "b")}

		order, err := composer.Compose(entries, decimal.NewFromInt(25), "Rua A, 1")
		require.NoError(t, err)

		expected := "*NOVO PEDIDO*\n\n- X\n- Y\n\n*Total:* R$ 25,00\n*Endereço:* Rua A, 1"
		assert.Equal(t, expected, order.Message)
		assert.True(t, strings.HasPrefix(order.URL, "https://wa.me/5511999999999?text="))

		parsed, err := url.Parse(order.URL)
		require.NoError(t, err)
		assert.Equal(t, expected, parsed.Query().Get("text"))
	})

	t.Run("encodes spaces as %20", func(t *testing.T) {
		order, err := composer.Compose([]cart.Entry{entry("X Bacon", "10", "a")}, decimal.NewFromInt(10), "Rua A")
		require.NoError(t, err)

		assert.NotContains(t, order.URL, "+")
		assert.Contains(t, order.URL, "X%20Bacon")
		assert.Contains(t, order.URL, "?text=*NOVO%20PEDIDO*%0A%0A")
	})

	t.Run("blank address aborts", func(t *testing.T) {
		for _, address := range []string{"", "   ", "\t\n"} {
			order, err := composer.Compose([]cart.Entry{entry("X", "10", "a")}, decimal.NewFromInt(10), address)
			assert.Nil(t, order)
			assert.True(t, errors.Is(err, ErrAddressRequired))
			assert.Equal(t, "Por favor, informe o endereço!", err.Error())
		}
	})

	t.Run("address is validated before the cart", func(t *testing.T) {
		_, err := composer.Compose(nil, decimal.Zero, "")
		assert.ErrorIs(t, err, ErrAddressRequired)
	})

	t.Run("empty cart still produces a link", func(t *testing.T) {
		order, err := composer.Compose(nil, decimal.Zero, "Rua A, 1")
		require.NoError(t, err)
		assert.Equal(t, "*NOVO PEDIDO*\n\n\n*Total:* R$ 0,00\n*Endereço:* Rua A, 1", order.Message)
		assert.True(t, strings.HasPrefix(order.URL, DefaultEndpoint+"?text="))
	})

	t.Run("address is trimmed", func(t *testing.T) {
		order, err := composer.Compose([]cart.Entry{entry("X", "10", "a")}, decimal.NewFromInt(10), "  Rua B  ")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(order.Message, "*Endereço:* Rua B"))
	})

	t.Run("repeated products are listed once per entry", func(t *testing.T) {
		order, err := composer.Compose([]cart.Entry{entry("X", "10", "a"), entry("X", "10", "b")}, decimal.NewFromInt(20), "Rua A")
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(order.Message, "- X\n"))
	})
}

func TestNewComposer_Endpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, NewComposer("  ").Endpoint())
	assert.Equal(t, "https://wa.me/5521000000000", NewComposer("https://wa.me/5521000000000").Endpoint())
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"integer", "25", "25,00"},
		{"one decimal", "7.5", "7,50"},
		{"rounds half up", "10.005", "10,01"},
		{"zero", "0", "0,00"},
		{"large", "1234.5", "1234,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"a b", "a%20b"},
		{"*Total:*", "*Total%3A*"},
		{"R$ 10,00", "R%24%2010%2C00"},
		{"Endereço", "Endere%C3%A7o"},
		{"a+b&c=d", "a%2Bb%26c%3Dd"},
		{"linha\nnova", "linha%0Anova"},
		{"-_.!~*'()", "-_.!~*'()"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := EncodeComponent(tt.in)
			assert.Equal(t, tt.want, got)

			decoded, err := url.QueryUnescape(got)
			require.NoError(t, err)
			assert.Equal(t, tt.in, decoded)
		})
	}
}
