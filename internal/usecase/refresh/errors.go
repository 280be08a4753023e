package refresh

import "errors"

var (
	// ErrRefreshInProgress is returned when a refresh is requested while another
	// one is still running. The pipeline is not executed a second time.
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrNoArticles indicates a pipeline run that produced no scored articles.
	// Such a run never replaces the current snapshot.
	ErrNoArticles = errors.New("pipeline produced no scored articles")

	// ErrSourcesUnavailable indicates that the active source list could not be loaded.
	ErrSourcesUnavailable = errors.New("sources unavailable")

	// ErrNoResults is returned by the fallback chain when every provider came up empty.
	ErrNoResults = errors.New("no results available")
)
