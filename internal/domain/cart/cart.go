package cart

import (
	"github.com/shopspring/decimal"

	"github.com/techbites/storefront/internal/domain/catalog"
)

// Cart is an ordered sequence of entries; insertion order is display order
type Cart struct {
	entries []Entry
}

// New creates a cart holding a copy of entries
func New(entries []Entry) *Cart {
	c := &Cart{entries: make([]Entry, 0, len(entries))}
	c.entries = append(c.entries, entries...)
	return c
}

// Add appends product under the given cart instance identifier
func (c *Cart) Add(product catalog.Product, cartID string) Entry {
	entry := Entry{Product: product, CartID: cartID}
	c.entries = append(c.entries, entry)
	return entry
}

// Remove drops the entry with cartID and reports whether it was present
func (c *Cart) Remove(cartID string) bool {
	for i, e := range c.entries {
		if e.CartID == cartID {
			c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether an entry with cartID exists
func (c *Cart) Contains(cartID string) bool {
	for _, e := range c.entries {
		if e.CartID == cartID {
			return true
		}
	}
	return false
}

// Total sums the entry prices
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.entries {
		total = total.Add(e.Price)
	}
	return total
}

// Len returns the number of entries
func (c *Cart) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in display order
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Reset empties the cart
func (c *Cart) Reset() {
	c.entries = c.entries[:0:0]
}
