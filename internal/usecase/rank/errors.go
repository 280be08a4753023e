// Package rank scores a bounded batch of articles through an external scoring
// service under a fixed pacing delay, reusing recent results from an analysis cache.
package rank

import "errors"

// Sentinel errors for ranking operations.
var (
	// ErrScoringFailed indicates that a single article could not be scored.
	// The article is omitted from the ranked output.
	ErrScoringFailed = errors.New("article scoring failed")

	// ErrInvalidResponse indicates that the scoring service answered with a body
	// that does not contain the three expected scores.
	ErrInvalidResponse = errors.New("invalid scoring response")
)
