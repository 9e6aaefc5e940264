package catalog

import "context"

// ProductSource is the read-only catalog backend.
// ListProducts returns every row of the product relation.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]Product, error)
}
