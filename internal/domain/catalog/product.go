package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/techbites/storefront/internal/domain/shared"
)

// Product is one purchasable menu item as published by the catalog backend.
// Field names on the wire follow the `produtos` relation.
type Product struct {
	ID          int64           `json:"id" validate:"gt=0"`
	Name        string          `json:"nome" validate:"required"`
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"preco"`
	Category    Category        `json:"categoria" validate:"required"`
	Image       string          `json:"imagem"`
}

// MarshalJSON writes the price as a JSON number, the way the catalog backend publishes it
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price json.RawMessage `json:"preco"`
	}{
		product: product(p),
		Price:   json.RawMessage(p.Price.String()),
	})
}

var validate = validator.New()

// ErrInvalidProduct is returned for catalog rows that cannot be offered
var ErrInvalidProduct = shared.NewDomainError("INVALID_PRODUCT", "Invalid product")

// Validate checks that a fetched row can be shown and added to a cart
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		return fmt.Errorf("%w: product %d: invalid fields %s", ErrInvalidProduct, p.ID, strings.Join(fields, ","))
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: product %d: price cannot be negative", ErrInvalidProduct, p.ID)
	}
	return nil
}

// Rejection records a row dropped by Sanitize
type Rejection struct {
	Index int
	Err   error
}

// Sanitize keeps the valid rows in their original order and reports the rest
func Sanitize(rows []Product) ([]Product, []Rejection) {
	valid := make([]Product, 0, len(rows))
	var rejected []Rejection
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			rejected = append(rejected, Rejection{Index: i, Err: err})
			continue
		}
		valid = append(valid, row)
	}
	return valid, rejected
}
