package catalog

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps client supplied labels to canonical search terms.
// It has no error conditions: unknown labels pass through decoded.
type Normalizer struct {
	catalog *Catalog
}

// NewNormalizer creates a normalizer over the given catalog.
func NewNormalizer(c *Catalog) *Normalizer {
	return &Normalizer{catalog: c}
}

// Decode percent-decodes raw ("+" as space) and returns it in NFC form.
// Malformed escapes leave the text as received.
func Decode(raw string) string {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		decoded = raw
	}
	return norm.NFC.String(decoded)
}

// NormalizeBrand decodes a brand label and applies the alias table.
func (n *Normalizer) NormalizeBrand(raw string) string {
	brand := Decode(raw)
	if alias, ok := n.catalog.BrandAliases[brand]; ok {
		return alias
	}
	return brand
}

// NormalizeItem decodes an item name and translates it through the vocabulary
// table. Lookup is case-insensitive on the trimmed text.
func (n *Normalizer) NormalizeItem(raw string) string {
	item := Decode(raw)
	if translated, ok := n.catalog.ItemVocabulary[foldKey(item)]; ok {
		return translated
	}
	return item
}

func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
