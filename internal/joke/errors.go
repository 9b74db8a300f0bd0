package joke

import "fmt"

// Domain error taxonomy. Handlers own the mapping to HTTP status codes;
// nothing in this package or below knows about transports.

// SchemaError reports a malformed stored document or submission payload.
// Stored distinguishes corrupted storage (a server fault) from a bad
// submission (the caller's fault).
type SchemaError struct {
	Reason string
	Stored bool
}

func (e *SchemaError) Error() string { return "schema error: " + e.Reason }

// ConflictError reports that a conditional write lost the race: the version
// token supplied no longer matches the stored document. Never auto-retried;
// the caller must re-issue the whole read-classify-write cycle.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict writing %q: concurrent update won the race", e.Path)
}

// StoreUnavailableError wraps a transport or timeout failure talking to the
// backing store. Safe to retry at the caller's discretion.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string { return "backing store unavailable: " + e.Err.Error() }
func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// EmptyPoolError means no joke matched the requested filters. A content
// outcome, not a server fault.
type EmptyPoolError struct{}

func (e *EmptyPoolError) Error() string { return "no jokes match the requested filters" }

// DuplicateError: the submitted text normalizes to an exact match of an
// existing joke.
type DuplicateError struct {
	Match Joke
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate of joke %d", e.Match.ID)
}

// SimilarError: the submitted text scored at or above the similarity
// threshold against an existing joke. Score is rounded to 3 decimals for
// human review.
type SimilarError struct {
	Match Joke
	Score float64
}

func (e *SimilarError) Error() string {
	return fmt.Sprintf("too similar to joke %d (score %.3f)", e.Match.ID, e.Score)
}
