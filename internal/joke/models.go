package joke

import "strings"

// Ratings recognized in the stored collection. Free-form strings are rejected
// at the schema boundary; comparisons elsewhere are case-insensitive.
const (
	RatingG    = "G"
	RatingPG   = "PG"
	RatingPG13 = "PG-13"
	RatingR    = "R"
)

// Joke is a single entry of the stored collection. IDs are caller-assigned,
// unique and monotonically increasing; entries are never hard-deleted, only
// deactivated via Active=false.
type Joke struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Rating   string `json:"rating"`
	Category string `json:"category"`
	Active   bool   `json:"active"`
}

// ValidRating reports whether r names one of the recognized ratings
// (case-insensitive).
func ValidRating(r string) bool {
	switch strings.ToUpper(strings.TrimSpace(r)) {
	case RatingG, RatingPG, RatingPG13, RatingR:
		return true
	}
	return false
}

// Criteria selects the candidate pool for serving.
// Categories == nil means no category filter; an empty non-nil set matches nothing.
type Criteria struct {
	Ratings         []string
	Categories      []string
	ActiveOnly      bool
	MaxDisplayChars int
}

// DefaultCriteria is the public-read default: family-friendly ratings,
// active jokes only, no category restriction.
func DefaultCriteria() Criteria {
	return Criteria{Ratings: []string{RatingG, RatingPG}, ActiveOnly: true}
}
