// Package fetch implements the source fetcher: it pulls every active feed source
// concurrently, isolates failures per source, and normalizes the surviving items
// into articles.
package fetch

import "errors"

var (
	// ErrFeedFetchFailed wraps every failed source fetch reported in FetchStats.
	ErrFeedFetchFailed = errors.New("feed fetch failed")

	// ErrInvalidFeedFormat means the body was neither RSS nor Atom. It is not retried.
	ErrInvalidFeedFormat = errors.New("invalid feed format")
)
