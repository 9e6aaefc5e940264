package catalog

import "strings"

// Category is the menu section a product belongs to
type Category string

// The storefront menu sections, in display order
const (
	CategoryBurgers Category = "Burguers"
	CategorySides   Category = "Acompanhamentos"
	CategoryDrinks  Category = "Bebidas"
)

// DefaultCategory is the section shown before the user picks one
const DefaultCategory = CategoryBurgers

var categories = []Category{CategoryBurgers, CategorySides, CategoryDrinks}

// Categories returns the fixed category set in display order
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// String returns the category tag
func (c Category) String() string {
	return string(c)
}

// IsKnown reports whether the category belongs to the fixed set
func (c Category) IsKnown() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps user input to a known category.
// Matching is case-insensitive; unknown or empty input yields DefaultCategory.
func ParseCategory(s string) Category {
	if c, ok := LookupCategory(s); ok {
		return c
	}
	return DefaultCategory
}

// LookupCategory finds the known category matching s, ignoring case and surrounding spaces
func LookupCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// FilterByCategory returns the products tagged with category, preserving catalog order
func FilterByCategory(products []Product, category Category) []Product {
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
