package models

// Gender is the optional gender hint attached to a query.
type Gender string

// Gender constants
const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// IsKnown returns true if the gender hint is male or female.
func (g Gender) IsKnown() bool {
	return g == GenderMale || g == GenderFemale
}

// SearchQuery is a single resolution request as received from the client.
// It is created per request and never mutated.
type SearchQuery struct {
	Brand    string `json:"brand"`
	ItemName string `json:"item_name"`
	Gender   Gender `json:"gender,omitempty"`
}

// SubstitutionReason explains why a brand was replaced by the default brand.
type SubstitutionReason string

// Substitution reason constants
const (
	ReasonNone           SubstitutionReason = ""
	ReasonNotAllowed     SubstitutionReason = "not_allowed"
	ReasonGenderMismatch SubstitutionReason = "gender_mismatch"
)

// BrandPolicyResult is the outcome of applying the brand policy to a query.
type BrandPolicyResult struct {
	EffectiveBrand string             `json:"effective_brand"`
	WasSubstituted bool               `json:"was_substituted"`
	Reason         SubstitutionReason `json:"reason,omitempty"`
}
