package catalog

import (
	"log/slog"

	"kfit/internal/models"
)

// BrandPolicy decides whether a brand may be used verbatim in a shop query.
type BrandPolicy struct {
	catalog *Catalog
}

// NewBrandPolicy creates a brand policy over the given catalog.
func NewBrandPolicy(c *Catalog) *BrandPolicy {
	return &BrandPolicy{catalog: c}
}

// Resolve applies the policy in order: brands outside the allow-list are
// replaced, then female-only brands are replaced for male queries.
func (p *BrandPolicy) Resolve(brand string, gender models.Gender) models.BrandPolicyResult {
	reason := models.ReasonNone
	switch {
	case !p.catalog.IsAllowed(brand):
		reason = models.ReasonNotAllowed
	case gender == models.GenderMale && p.catalog.IsFemaleOnly(brand):
		reason = models.ReasonGenderMismatch
	}

	if reason == models.ReasonNone {
		return models.BrandPolicyResult{EffectiveBrand: brand}
	}

	slog.Debug("brand substituted", "brand", brand, "reason", reason, "replacement", p.catalog.DefaultBrand)
	return models.BrandPolicyResult{
		EffectiveBrand: p.catalog.DefaultBrand,
		WasSubstituted: true,
		Reason:         reason,
	}
}

// GenderPrefix returns the localized prefix for gender, or "" when unknown.
func GenderPrefix(gender models.Gender) string {
	switch gender {
	case models.GenderMale:
		return MalePrefix
	case models.GenderFemale:
		return FemalePrefix
	default:
		return ""
	}
}
