package dedup

import (
	"math"

	"github.com/jokeoftheday/jotd/internal/joke"
	"github.com/jokeoftheday/jotd/internal/similarity"
)

// DefaultThreshold is the tuned similarity cutoff. The corpus is small and a
// human admin reviews every SIMILAR response, so a single fixed value is
// enough; false positives are cheap.
const DefaultThreshold = 0.82

// Verdict classifies a submitted joke against the existing collection.
type Verdict int

const (
	Novel Verdict = iota
	ExactMatch
	Similar
)

func (v Verdict) String() string {
	switch v {
	case ExactMatch:
		return "exact_match"
	case Similar:
		return "similar"
	}
	return "novel"
}

// Result carries the verdict plus, for non-novel outcomes, the best-matching
// joke and its score (rounded to 3 decimals).
type Result struct {
	Verdict Verdict
	Match   joke.Joke
	Score   float64
}

// Guard runs the duplicate check. Threshold is fixed in production
// (DefaultThreshold); the constructor parameter exists so tests can exercise
// the boundary exactly.
type Guard struct {
	threshold float64
}

func NewGuard(threshold float64) *Guard {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Guard{threshold: threshold}
}

// Classify normalizes the candidate once and scans the existing collection.
// A byte-equal normalized text short-circuits as ExactMatch immediately; an
// exact duplicate later in the collection must still win over an earlier
// high-but-inexact score, so the scan only stops on exactness. Jokes with
// empty text are skipped. The comparison is >=, so a score exactly at the
// threshold classifies as Similar and the submission is rejected.
func (g *Guard) Classify(candidate string, existing []joke.Joke) Result {
	normNew := similarity.Normalize(candidate)
	newSet := similarity.TrigramSet(normNew)

	best := Result{Verdict: Novel}
	for _, j := range existing {
		if j.Text == "" {
			continue
		}
		normOld := similarity.Normalize(j.Text)
		if normOld == normNew {
			return Result{Verdict: ExactMatch, Match: j, Score: 1}
		}
		score := similarity.Jaccard(similarity.TrigramSet(normOld), newSet)
		if score > best.Score {
			best.Score = score
			best.Match = j
		}
	}

	if best.Score >= g.threshold {
		best.Verdict = Similar
		best.Score = math.Round(best.Score*1000) / 1000
		return best
	}
	return Result{Verdict: Novel}
}
