package validation

import (
	"net/url"
	"strconv"
	"strings"

	"kfit/internal/models"
)

// Placeholder dimension bounds and default.
const (
	MinDimension     = 16
	MaxDimension     = 2048
	DefaultDimension = 400
)

// MaxLabelLength bounds the text and brand query parameters.
const MaxLabelLength = 200

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes
// from being used as redirect targets.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ParseGender maps a gender hint to the model enum. Matching is
// case-insensitive; anything other than male/female is unknown.
func ParseGender(raw string) models.Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male":
		return models.GenderMale
	case "female":
		return models.GenderFemale
	default:
		return models.GenderUnknown
	}
}

// ParseDimension parses a width or height parameter, using the default for
// missing or non-numeric values, then clamps it.
func ParseDimension(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultDimension
	}
	return ClampDimension(n)
}

// ClampDimension keeps a placeholder dimension within [MinDimension, MaxDimension].
func ClampDimension(n int) int {
	if n < MinDimension {
		return MinDimension
	}
	if n > MaxDimension {
		return MaxDimension
	}
	return n
}

// TruncateLabel cuts a label to MaxLabelLength runes.
func TruncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxLabelLength {
		return s
	}
	return string(runes[:MaxLabelLength])
}
