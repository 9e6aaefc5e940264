package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/techbites/storefront/internal/domain/cart"
	"github.com/techbites/storefront/internal/domain/shared"
)

// DefaultEndpoint is the messaging link orders are sent to
const DefaultEndpoint = "https://wa.me/5511999999999"

// Checkout errors
var (
	ErrAddressRequired = shared.NewDomainError("ADDRESS_REQUIRED", "Por favor, informe o endereço!")
	ErrEmptyCart       = shared.NewDomainError("CART_EMPTY", "O carrinho está vazio")
)

// Order is a composed checkout hand-off
type Order struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Composer turns a cart into a pre-filled messaging link
type Composer struct {
	endpoint string
}

// NewComposer creates a composer for endpoint, or DefaultEndpoint when empty
func NewComposer(endpoint string) *Composer {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Composer{endpoint: endpoint}
}

// Endpoint returns the messaging endpoint
func (c *Composer) Endpoint() string {
	return c.endpoint
}

// Compose builds the order message and link.
// A blank address is the only rejection; an empty cart yields an order with no item lines.
func (c *Composer) Compose(entries []cart.Entry, total decimal.Decimal, address string) (*Order, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrAddressRequired
	}

	message := Message(entries, total, address)
	return &Order{
		Message: message,
		URL:     c.endpoint + "?text=" + EncodeComponent(message),
	}, nil
}

// Message renders the order text
func Message(entries []cart.Entry, total decimal.Decimal, address string) string {
	var b strings.Builder
	b.WriteString("*NOVO PEDIDO*\n\n")
	for _, e := range entries {
		b.WriteString("- ")
		b.WriteString(e.Name)
		b.WriteString("\n")
	}
	b.WriteString("\n*Total:* R$ ")
	b.WriteString(FormatAmount(total))
	b.WriteString("\n*Endereço:* ")
	b.WriteString(address)
	return b.String()
}

// FormatAmount renders an amount with two decimals and a comma separator
func FormatAmount(amount decimal.Decimal) string {
	return strings.Replace(amount.StringFixed(2), ".", ",", 1)
}
