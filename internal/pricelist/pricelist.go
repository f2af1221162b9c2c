package pricelist

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PriceList is the YAML document a supplier uploads to refresh its catalog.
type PriceList struct {
	Shop       string     `yaml:"shop"`
	Categories []Category `yaml:"categories"`
	Goods      []Good     `yaml:"goods"`
}

type Category struct {
	ID   uint   `yaml:"id"`
	Name string `yaml:"name"`
}

type Good struct {
	ID         uint              `yaml:"id"`
	Category   uint              `yaml:"category"`
	Model      string            `yaml:"model"`
	Name       string            `yaml:"name"`
	Price      uint              `yaml:"price"`
	PriceRRC   uint              `yaml:"price_rrc"`
	Quantity   uint              `yaml:"quantity"`
	Parameters map[string]string `yaml:"parameters"`
}

func Parse(data []byte) (*PriceList, error) {
	var pl PriceList
	if err := yaml.Unmarshal(data, &pl); err != nil {
		return nil, fmt.Errorf("pricelist: bad yaml: %w", err)
	}

	if pl.Shop == "" {
		return nil, fmt.Errorf("pricelist: shop name is required")
	}

	categories := make(map[uint]struct{}, len(pl.Categories))
	for _, c := range pl.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("pricelist: category %d has no name", c.ID)
		}
		categories[c.ID] = struct{}{}
	}

	for i, g := range pl.Goods {
		if g.Name == "" {
			return nil, fmt.Errorf("pricelist: good #%d has no name", i)
		}
		if _, ok := categories[g.Category]; !ok {
			return nil, fmt.Errorf("pricelist: good %q references unknown category %d", g.Name, g.Category)
		}
	}

	return &pl, nil
}
