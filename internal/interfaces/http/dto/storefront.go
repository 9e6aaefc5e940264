package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/techbites/storefront/internal/domain/cart"
	"github.com/techbites/storefront/internal/domain/catalog"
)

// CategoriesResponse lists the menu sections in display order
type CategoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
	Default    catalog.Category   `json:"default"`
}

// ProductsQuery filters the product listing
type ProductsQuery struct {
	Category string `form:"categoria"`
}

// AddItemRequest adds one catalog product to the session cart
type AddItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
}

// RemoveItemURI addresses one cart entry
type RemoveItemURI struct {
	CartID string `uri:"cart_id" binding:"required"`
}

// CheckoutRequest carries the delivery address typed by the user.
// Emptiness is checked by the composer so the domain message is returned.
type CheckoutRequest struct {
	Address string `json:"endereco" binding:"max=500"`
}

// CartResponse is the session cart as seen by the API
type CartResponse struct {
	Items []cart.Entry `json:"items"`
	Count int          `json:"count"`
	Total json.Number  `json:"total"`
}

// NewCartResponse builds a CartResponse, never returning a null item list
func NewCartResponse(items []cart.Entry, total decimal.Decimal) CartResponse {
	if items == nil {
		items = []cart.Entry{}
	}
	return CartResponse{
		Items: items,
		Count: len(items),
		Total: json.Number(total.StringFixed(2)),
	}
}

// HealthResponse reports liveness plus catalog status
type HealthResponse struct {
	Status        string `json:"status"`
	CatalogLoaded bool   `json:"catalog_loaded"`
	ProductCount  int    `json:"product_count"`
	CatalogError  string `json:"catalog_error,omitempty"`
}

// AddItemForm is posted by the "+" button of a product card
type AddItemForm struct {
	ProductID int64  `form:"product_id" binding:"required,gt=0"`
	Category  string `form:"categoria"`
}

// RemoveItemForm is posted by the "Remover" button of a cart entry
type RemoveItemForm struct {
	CartID   string `form:"cart_id" binding:"required"`
	Category string `form:"categoria"`
}

// CheckoutForm is posted by the "Pedir via WhatsApp" button
type CheckoutForm struct {
	Address  string `form:"endereco" binding:"max=500"`
	Category string `form:"categoria"`
}
