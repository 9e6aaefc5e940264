package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/techbites/storefront/internal/domain/catalog"
	"github.com/techbites/storefront/internal/infrastructure/persistence/models"
)

// GormProductSource reads the catalog from the produtos table
type GormProductSource struct {
	db    *gorm.DB
	table string
}

// NewGormProductSource creates a product source over db.
// An empty table name uses the model default.
func NewGormProductSource(db *gorm.DB, table string) *GormProductSource {
	if table == "" {
		table = models.ProductModel{}.TableName()
	}
	return &GormProductSource{db: db, table: table}
}

// ListProducts returns every row ordered by id
func (s *GormProductSource) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := s.db.WithContext(ctx).Table(s.table).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]catalog.Product, 0, len(rows))
	for i := range rows {
		products = append(products, rows[i].ToDomain())
	}
	return products, nil
}
