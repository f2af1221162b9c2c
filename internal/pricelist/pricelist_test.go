package pricelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
shop: Связной
categories:
  - id: 224
    name: Смартфоны
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Диагональ (дюйм)": "6.5"
      "Цвет": золотистый
`

func TestParse(t *testing.T) {
	t.Parallel()

	pl, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "Связной", pl.Shop)
	require.Len(t, pl.Categories, 1)
	assert.Equal(t, "Смартфоны", pl.Categories[0].Name)

	require.Len(t, pl.Goods, 1)
	good := pl.Goods[0]
	assert.EqualValues(t, 4216292, good.ID)
	assert.EqualValues(t, 224, good.Category)
	assert.EqualValues(t, 110000, good.Price)
	assert.EqualValues(t, 116990, good.PriceRRC)
	assert.EqualValues(t, 14, good.Quantity)
	assert.Equal(t, "6.5", good.Parameters["Диагональ (дюйм)"])
	assert.Equal(t, "золотистый", good.Parameters["Цвет"])
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad yaml", yaml: "shop: [unclosed"},
		{name: "missing shop", yaml: "categories: []\ngoods: []"},
		{
			name: "unnamed category",
			yaml: "shop: s\ncategories:\n  - id: 1\n",
		},
		{
			name: "good without name",
			yaml: "shop: s\ncategories:\n  - id: 1\n    name: c\ngoods:\n  - id: 7\n    category: 1\n",
		},
		{
			name: "good with unknown category",
			yaml: "shop: s\ncategories:\n  - id: 1\n    name: c\ngoods:\n  - id: 7\n    category: 2\n    name: g\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}
