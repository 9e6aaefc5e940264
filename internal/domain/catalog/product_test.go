package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_JSON(t *testing.T) {
	t.Run("decodes a produtos row", func(t *testing.T) {
		raw := `{"id":7,"nome":"X-Tudo","descricao":"Completo","preco":29.9,"categoria":"Burguers","imagem":"https://img.example.com/x.png"}`

		var p Product
		require.NoError(t, json.Unmarshal([]byte(raw), &p))

		assert.Equal(t, int64(7), p.ID)
		assert.Equal(t, "X-Tudo", p.Name)
		assert.Equal(t, "Completo", p.Description)
		assert.True(t, decimal.RequireFromString("29.9").Equal(p.Price))
		assert.Equal(t, CategoryBurgers, p.Category)
		assert.Equal(t, "https://img.example.com/x.png", p.Image)
	})

	t.Run("encodes price as a number", func(t *testing.T) {
		p := product(1, "X", 10, CategoryBurgers)

		data, err := json.Marshal(p)
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Equal(t, float64(10), fields["preco"])
		assert.Equal(t, "X", fields["nome"])
		assert.Equal(t, "Burguers", fields["categoria"])
	})
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		wantErr bool
	}{
		{name: "valid product", product: product(1, "X", 10, CategoryBurgers)},
		{name: "free product", product: product(2, "Ketchup", 0, CategorySides)},
		{name: "unknown category is accepted", product: product(3, "Pudim", 6, "Sobremesas")},
		{name: "zero id", product: product(0, "X", 10, CategoryBurgers), wantErr: true},
		{name: "negative id", product: product(-1, "X", 10, CategoryBurgers), wantErr: true},
		{name: "empty name", product: product(4, "", 10, CategoryBurgers), wantErr: true},
		{name: "empty category", product: product(5, "X", 10, ""), wantErr: true},
		{name: "negative price", product: product(6, "X", -1, CategoryBurgers), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidProduct))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSanitize(t *testing.T) {
	rows := []Product{
		product(1, "X", 10, CategoryBurgers),
		product(0, "broken", 10, CategoryBurgers),
		product(2, "Refri", 5, CategoryDrinks),
		product(3, "", 5, CategoryDrinks),
	}

	valid, rejected := Sanitize(rows)

	require.Len(t, valid, 2)
	assert.Equal(t, int64(1), valid[0].ID)
	assert.Equal(t, int64(2), valid[1].ID)

	require.Len(t, rejected, 2)
	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, 3, rejected[1].Index)
}
