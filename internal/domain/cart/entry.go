package cart

import (
	"encoding/json"

	"github.com/techbites/storefront/internal/domain/catalog"
)

// Entry is one product instance placed in the cart.
// CartID tells apart repeated additions of the same product.
type Entry struct {
	catalog.Product
	CartID string `json:"idCarrinho"`
}

// MarshalJSON flattens the product fields next to idCarrinho
func (e Entry) MarshalJSON() ([]byte, error) {
	type product catalog.Product
	return json.Marshal(struct {
		product
		Price  json.RawMessage `json:"preco"`
		CartID string          `json:"idCarrinho"`
	}{
		product: product(e.Product),
		Price:   json.RawMessage(e.Price.String()),
		CartID:  e.CartID,
	})
}

// Encode serializes the entry sequence as a JSON array
func Encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// Decode parses a JSON array produced by Encode
func Decode(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
