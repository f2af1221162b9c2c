package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/vkhromov/retail_orders/internal/models"
)

// Search runs a fuzzy full-text query over indexed listings.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.ProductInfo, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	return decodeHits(res.Body)
}

func decodeHits(body io.Reader) (int64, []models.ProductInfo, error) {
	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.ProductInfo `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&r); err != nil {
		return 0, nil, err
	}

	listings := make([]models.ProductInfo, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		listings[i] = hit.Source
	}
	return r.Hits.Total.Value, listings, nil
}

// IndexListings writes listings into the search index, one document per
// listing, keyed by listing id.
func IndexListings(ctx context.Context, es *elasticsearch.Client, index string, listings []models.ProductInfo) error {
	for _, listing := range listings {
		doc, err := json.Marshal(listing)
		if err != nil {
			return fmt.Errorf("search: encode listing %d: %w", listing.ID, err)
		}

		res, err := es.Index(
			index,
			bytes.NewReader(doc),
			es.Index.WithDocumentID(fmt.Sprint(listing.ID)),
			es.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("search: index listing %d: %w", listing.ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("search: index listing %d: %s", listing.ID, res.Status())
		}
	}
	return nil
}
