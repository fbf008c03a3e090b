// Package catalog holds the brand and vocabulary tables used to turn client
// supplied item and brand labels into shop search terms.
package catalog

import (
	"kfit/internal/config"
)

// DefaultBrand replaces brands that may not be sent to the shop search.
const DefaultBrand = "무신사 스탠다드"

// Localized gender prefixes prepended to item names.
const (
	MalePrefix   = "남성 "
	FemalePrefix = "여성 "
)

var defaultAllowedBrands = []string{
	"MUSINSA Standard", "무신사 스탠다드",
	"thisisneverthat", "디스이즈네버댓",
	"COVERNAT", "커버낫",
	"ADER ERROR", "아더에러",
	"LMC", "엘엠씨",
	"MAHAGRID", "마하그리드",
	"Andersson Bell", "앤더슨벨",
	"KOOR", "쿠어",
	"8SECONDS", "에잇세컨즈",
	"SPAO", "스파오",
	"Matin Kim", "마뗑킴",
	"MARDI MERCREDI", "마르디 메크르디",
	"EMIS", "이미스",
	"Stand Oil", "스탠드오일",
	"Stylenanda", "스타일난다",
	"Kirsh", "키르시",
	"LEESLE", "리슬",
	"TCHAI KIM", "차이킴",
	"OUWR", "아워",
	"Bukchonzalak", "북촌잘락",
	"Soosulhwa", "수설화",
}

var defaultFemaleOnlyBrands = []string{
	"Matin Kim", "마뗑킴",
	"MARDI MERCREDI", "마르디 메크르디",
	"EMIS", "이미스",
	"Stand Oil", "스탠드오일",
	"Stylenanda", "스타일난다",
	"Kirsh", "키르시",
}

// Hanbok labels are shown in English but only match shop inventory in Korean.
var defaultBrandAliases = map[string]string{
	"LEESLE":       "리슬",
	"TCHAI KIM":    "차이킴",
	"OUWR":         "아워",
	"Bukchonzalak": "북촌잘락",
	"Soosulhwa":    "수설화",
}

var defaultItemVocabulary = map[string]string{
	"oversized tee":      "오버사이즈 티셔츠",
	"wide pants":         "와이드 팬츠",
	"bucket hat":         "버킷햇",
	"graphic sweatshirt": "그래픽 맨투맨",
	"denim jacket":       "데님 자켓",
	"denim":              "데님 자켓",
	"beanie":             "비니",
	"jogger pants":       "조거 팬츠",
	"logo sweatshirt":    "로고 맨투맨",
	"hoodie":             "후디",
	"cargo pants":        "카고 팬츠",
	"crossbody bag":      "크로스백",
	"sneakers":           "스니커즈",
	"mini skirt":         "미니스커트",
	"cardigan":           "가디건",
	"bomber jacket":      "봄버 자켓",
	"pleated skirt":      "플리츠 스커트",
	"tote bag":           "토트백",
	"cap":                "볼캡",
	"windbreaker":        "바람막이",
}

// Catalog is the immutable set of tables shared by the normalizer and the brand policy.
type Catalog struct {
	DefaultBrand     string
	AllowedBrands    map[string]struct{}
	FemaleOnlyBrands map[string]struct{}
	BrandAliases     map[string]string
	ItemVocabulary   map[string]string
}

// New builds a catalog from the built-in tables extended by cfg.
// A nil cfg yields the built-in tables only.
func New(cfg *config.CatalogConfig) *Catalog {
	c := &Catalog{
		DefaultBrand:     DefaultBrand,
		AllowedBrands:    toSet(defaultAllowedBrands),
		FemaleOnlyBrands: toSet(defaultFemaleOnlyBrands),
		BrandAliases:     make(map[string]string, len(defaultBrandAliases)),
		ItemVocabulary:   make(map[string]string, len(defaultItemVocabulary)),
	}
	for k, v := range defaultBrandAliases {
		c.BrandAliases[k] = v
	}
	for k, v := range defaultItemVocabulary {
		c.ItemVocabulary[foldKey(k)] = v
	}

	if cfg == nil {
		return c
	}

	if cfg.DefaultBrand != "" {
		c.DefaultBrand = cfg.DefaultBrand
	}
	for _, b := range cfg.AllowedBrands {
		c.AllowedBrands[b] = struct{}{}
	}
	for _, b := range cfg.FemaleOnlyBrands {
		c.FemaleOnlyBrands[b] = struct{}{}
	}
	for k, v := range cfg.BrandAliases {
		c.BrandAliases[k] = v
	}
	for k, v := range cfg.ItemVocabulary {
		c.ItemVocabulary[foldKey(k)] = v
	}
	return c
}

// IsAllowed reports whether brand may be sent to the shop search verbatim.
func (c *Catalog) IsAllowed(brand string) bool {
	_, ok := c.AllowedBrands[brand]
	return ok
}

// IsFemaleOnly reports whether brand only carries womenswear.
func (c *Catalog) IsFemaleOnly(brand string) bool {
	_, ok := c.FemaleOnlyBrands[brand]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
