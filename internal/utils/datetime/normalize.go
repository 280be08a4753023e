// Package datetime normalizes the heterogeneous timestamps found in RSS and Atom
// feeds into validated UTC times.
package datetime

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Default acceptance bounds relative to now.
const (
	DefaultMaxAge  = 7 * 24 * time.Hour
	DefaultMaxSkew = 1 * time.Hour
)

// format groups, tried in order of how often feeds use them.
var (
	isoPattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`)
	rfc2822Pattern = regexp.MustCompile(`^(?:[A-Za-z]{3},?\s+)?\d{1,2}\s+[A-Za-z]{3}\s+\d{2,4}\s+\d{1,2}:\d{2}`)
	simplePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?: \d{2}:\d{2}(?::\d{2})?)?$`)

	isoLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z0700",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04",
	}
	rfc2822Layouts = []string{
		time.RFC1123Z,
		time.RFC1123,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		"Mon, 02 Jan 2006 15:04 -0700",
		"Mon, 2 Jan 2006 15:04 MST",
		"2 Jan 2006 15:04:05 -0700",
		"2 Jan 2006 15:04:05 MST",
		time.RFC822Z,
		time.RFC822,
	}
	simpleLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// Normalizer parses raw feed timestamps and rejects values outside
// [now-MaxAge, now+MaxSkew]. Rejection is silent: Normalize returns nil.
type Normalizer struct {
	MaxAge  time.Duration
	MaxSkew time.Duration
	Now     func() time.Time
}

// NewNormalizer returns a Normalizer with the default seven-day / one-hour bounds.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		MaxAge:  DefaultMaxAge,
		MaxSkew: DefaultMaxSkew,
		Now:     time.Now,
	}
}

// Normalize returns the UTC timestamp encoded in raw, or nil when raw is empty,
// unparseable, or out of bounds.
func (n *Normalizer) Normalize(raw string) *time.Time {
	t, ok := Parse(raw)
	if !ok {
		return nil
	}
	if !n.InBounds(t) {
		return nil
	}
	return &t
}

// InBounds reports whether t lies within [now-MaxAge, now+MaxSkew].
func (n *Normalizer) InBounds(t time.Time) bool {
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	if t.Before(now.Add(-n.MaxAge)) {
		return false
	}
	return !t.After(now.Add(n.MaxSkew))
}

// Parse converts raw into a UTC time without applying any bounds.
// The layouts of the matching format group are tried first; anything they
// cannot parse goes to the generic parser.
func Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	var layouts []string
	switch {
	case isoPattern.MatchString(s):
		layouts = isoLayouts
	case rfc2822Pattern.MatchString(s):
		layouts = rfc2822Layouts
	case simplePattern.MatchString(s):
		layouts = simpleLayouts
	}
	if t, ok := parseLayouts(s, layouts); ok {
		return t, true
	}
	return parseGeneric(s)
}

func parseLayouts(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseGeneric falls back to dateparse, which recovers most of the remaining
// formats seen in the wild. dateparse has panicked on some malformed inputs.
func parseGeneric(s string) (t time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}
