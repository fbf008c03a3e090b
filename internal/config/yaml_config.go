package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogConfig represents the structure of the catalog.yaml file.
// Brand lists and vocabulary are easier to maintain in YAML than env vars.
// Entries extend the built-in tables; they never remove built-in entries.
type CatalogConfig struct {
	DefaultBrand     string            `yaml:"default_brand,omitempty"`
	AllowedBrands    []string          `yaml:"allowed_brands"`
	FemaleOnlyBrands []string          `yaml:"female_only_brands"`
	BrandAliases     map[string]string `yaml:"brand_aliases"`
	ItemVocabulary   map[string]string `yaml:"item_vocabulary"`
	WarmupQueries    []WarmupQuery     `yaml:"warmup_queries"`
}

// WarmupQuery is a brand/item pair the cache warmer resolves ahead of traffic.
type WarmupQuery struct {
	Brand  string `yaml:"brand"`
	Item   string `yaml:"item"`
	Gender string `yaml:"gender,omitempty"`
}

// LoadCatalogConfig loads the YAML catalog file at path.
// Returns nil without error if the file doesn't exist.
func LoadCatalogConfig(path string) (*CatalogConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Catalog file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg CatalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetWarmupQueries returns the configured warm-up queries.
func (c *CatalogConfig) GetWarmupQueries() []WarmupQuery {
	if c == nil {
		return nil
	}
	return c.WarmupQueries
}
