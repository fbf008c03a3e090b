package models

import "testing"

func TestGender_IsKnown(t *testing.T) {
	tests := []struct {
		name     string
		gender   Gender
		expected bool
	}{
		{"male", GenderMale, true},
		{"female", GenderFemale, true},
		{"unknown", GenderUnknown, false},
		{"unrecognized value", Gender("other"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.gender.IsKnown(); got != tt.expected {
				t.Errorf("IsKnown() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestOutcomeConstants(t *testing.T) {
	if OutcomeCacheHit != "cache_hit" {
		t.Errorf("OutcomeCacheHit = %q, want %q", OutcomeCacheHit, "cache_hit")
	}
	if OutcomePlaceholder != "placeholder" {
		t.Errorf("OutcomePlaceholder = %q, want %q", OutcomePlaceholder, "placeholder")
	}
	if ReasonNotAllowed != "not_allowed" {
		t.Errorf("ReasonNotAllowed = %q, want %q", ReasonNotAllowed, "not_allowed")
	}
	if ReasonGenderMismatch != "gender_mismatch" {
		t.Errorf("ReasonGenderMismatch = %q, want %q", ReasonGenderMismatch, "gender_mismatch")
	}
}
