package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHits(t *testing.T) {
	t.Parallel()

	body := `{
		"hits": {
			"total": {"value": 2, "relation": "eq"},
			"hits": [
				{"_index": "listings", "_id": "7", "_source": {
					"id": 7, "external_id": 4216292, "name": "Смартфон Apple iPhone XS Max 512GB (золотистый)",
					"shop_id": 1, "product_id": 3, "quantity": 14, "price": 110000, "price_rrc": 116990
				}},
				{"_index": "listings", "_id": "8", "_source": {
					"id": 8, "external_id": 4216313, "name": "Смартфон Apple iPhone XR 256GB (красный)",
					"shop_id": 1, "product_id": 4, "quantity": 9, "price": 65000, "price_rrc": 69990
				}}
			]
		}
	}`

	total, listings, err := decodeHits(strings.NewReader(body))
	require.NoError(t, err)

	assert.EqualValues(t, 2, total)
	require.Len(t, listings, 2)
	assert.EqualValues(t, 7, listings[0].ID)
	assert.Equal(t, "Смартфон Apple iPhone XS Max 512GB (золотистый)", listings[0].Name)
	assert.EqualValues(t, 110000, listings[0].Price)
	assert.EqualValues(t, 4216313, listings[1].ExternalID)
	assert.EqualValues(t, 9, listings[1].Quantity)
}

func TestDecodeHits_Empty(t *testing.T) {
	t.Parallel()

	total, listings, err := decodeHits(strings.NewReader(`{"hits":{"total":{"value":0},"hits":[]}}`))
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, listings)
}

func TestDecodeHits_BadBody(t *testing.T) {
	t.Parallel()

	_, _, err := decodeHits(strings.NewReader("not json"))
	require.Error(t, err)
}
