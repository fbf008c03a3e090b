package models

import "time"

// Resolution lookup outcome constants
const (
	OutcomeCacheHit    = "cache_hit"
	OutcomeTier1       = "tier1"
	OutcomeTier2       = "tier2"
	OutcomeTier3       = "tier3"
	OutcomePlaceholder = "placeholder"
)

// ResolutionLookup represents a per-brand resolution count by outcome.
type ResolutionLookup struct {
	Brand      string
	Outcome    string
	Count      int64
	LastSeenAt time.Time
}
