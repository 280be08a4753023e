// Package pathutil maps request paths onto a fixed set of metric labels.
package pathutil

import "strings"

// Unmatched is the label for any path outside the known routes.
const Unmatched = "/other"

var knownPaths = map[string]struct{}{
	"/":                  {},
	"/digest":            {},
	"/digest/status":     {},
	"/digest/refresh":    {},
	"/resilience/status": {},
	"/health":            {},
	"/health/ready":      {},
	"/health/live":       {},
	"/metrics":           {},
}

// NormalizePath returns path without query or trailing slash if it is a known
// route, and Unmatched otherwise. This keeps label cardinality bounded no
// matter what clients request.
//
//	NormalizePath("/digest?limit=5")  // "/digest"
//	NormalizePath("/digest/")         // "/digest"
//	NormalizePath("/wp-admin.php")    // "/other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return Unmatched
}
