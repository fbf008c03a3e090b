package shop

import "errors"

// Outcome tags the result of a shop search so callers never inspect errors.
type Outcome int

// Search outcomes
const (
	OutcomeFound       Outcome = iota // at least one item with an image
	OutcomeEmpty                      // request succeeded but nothing usable came back
	OutcomeRateLimited                // 429 on the first attempt and on the retry
	OutcomeUnavailable                // transport error, non-2xx, malformed body or open breaker
	OutcomeDisabled                   // credentials are not configured
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeEmpty:
		return "empty"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Result is the normalized first item of a shop search.
// ImageURL always uses the https scheme.
type Result struct {
	ImageURL string `json:"image"`
	Link     string `json:"link"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Mall     string `json:"mall"`
}

// Response is what a single Search call reports back.
type Response struct {
	Outcome  Outcome
	Result   *Result
	Attempts int
}

// Found returns true if the response carries a usable result.
func (r Response) Found() bool {
	return r.Outcome == OutcomeFound && r.Result != nil
}

// Errors recorded by the circuit breaker. They are logged, never returned to callers.
var (
	ErrUnexpectedStatus  = errors.New("unexpected shop search status")
	ErrMalformedResponse = errors.New("malformed shop search response")
)

type searchResponse struct {
	Total int          `json:"total"`
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Image    string `json:"image"`
	LPrice   string `json:"lprice"`
	MallName string `json:"mallName"`
}
