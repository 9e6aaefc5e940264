package view

import (
	"github.com/shopspring/decimal"

	"github.com/techbites/storefront/internal/domain/cart"
	"github.com/techbites/storefront/internal/domain/catalog"
)

// EmptyCategoryText is shown when the active category has no products
const EmptyCategoryText = "Nenhum item encontrado nesta categoria..."

// Tab is one entry of the category navigation
type Tab struct {
	Category catalog.Category
	Active   bool
}

// Page is everything the storefront template needs for one render
type Page struct {
	// Ready is false until the session cart has been hydrated; the page is then blank
	Ready bool

	Tabs           []Tab
	ActiveCategory catalog.Category
	Products       []catalog.Product

	Cart     []cart.Entry
	Total    decimal.Decimal
	CartOpen bool
	Pulse    bool

	Address string
	Alert   string
	// OrderURL is the composed hand-off link, set after a successful checkout
	OrderURL string
}

// NewTabs marks the active category among the fixed set
func NewTabs(active catalog.Category) []Tab {
	categories := catalog.Categories()
	tabs := make([]Tab, len(categories))
	for i, c := range categories {
		tabs[i] = Tab{Category: c, Active: c == active}
	}
	return tabs
}

// CartCount is the number of entries shown on the floating cart button
func (p Page) CartCount() int {
	return len(p.Cart)
}

// ShowCartButton reports whether the floating cart button is rendered
func (p Page) ShowCartButton() bool {
	return len(p.Cart) > 0
}

// ShowEmptyText reports whether the empty category message is rendered
func (p Page) ShowEmptyText() bool {
	return len(p.Products) == 0
}
