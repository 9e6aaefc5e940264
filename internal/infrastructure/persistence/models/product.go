package models

import (
	"github.com/shopspring/decimal"

	"github.com/techbites/storefront/internal/domain/catalog"
)

// ProductModel maps one row of the produtos relation
type ProductModel struct {
	ID        int64           `gorm:"column:id;primaryKey"`
	Nome      string          `gorm:"column:nome;type:text;not null"`
	Descricao *string         `gorm:"column:descricao;type:text"`
	Preco     decimal.Decimal `gorm:"column:preco;type:numeric(10,2);not null"`
	Categoria string          `gorm:"column:categoria;type:text;not null"`
	Imagem    *string         `gorm:"column:imagem;type:text"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "produtos"
}

// ToDomain converts the row to a catalog product
func (m *ProductModel) ToDomain() catalog.Product {
	return catalog.Product{
		ID:          m.ID,
		Name:        m.Nome,
		Description: deref(m.Descricao),
		Price:       m.Preco,
		Category:    catalog.Category(m.Categoria),
		Image:       deref(m.Imagem),
	}
}

// FromDomain populates the row from a catalog product
func (m *ProductModel) FromDomain(p catalog.Product) {
	m.ID = p.ID
	m.Nome = p.Name
	m.Descricao = optional(p.Description)
	m.Preco = p.Price
	m.Categoria = p.Category.String()
	m.Imagem = optional(p.Image)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
