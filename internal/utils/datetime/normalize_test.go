package datetime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	n := NewNormalizer()
	n.Now = func() time.Time { return fixedNow }
	return n
}

func TestNormalize_Formats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{name: "RFC3339 UTC", raw: "2025-06-15T10:30:00Z", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC3339 offset", raw: "2025-06-15T19:30:00+09:00", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC3339 fractional", raw: "2025-06-15T10:30:00.123Z", want: time.Date(2025, 6, 15, 10, 30, 0, 123000000, time.UTC)},
		{name: "ISO without zone", raw: "2025-06-15T10:30:00", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC1123Z", raw: "Sun, 15 Jun 2025 10:30:00 +0000", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC1123 GMT", raw: "Sun, 15 Jun 2025 10:30:00 GMT", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC2822 single digit day", raw: "Mon, 9 Jun 2025 08:00:00 -0400", want: time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)},
		{name: "simple date time", raw: "2025-06-14 23:15:00", want: time.Date(2025, 6, 14, 23, 15, 0, 0, time.UTC)},
		{name: "simple date", raw: "2025-06-14", want: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)},
		{name: "surrounding whitespace", raw: "  2025-06-15T10:30:00Z\n", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "generic fallback", raw: "June 14, 2025 10:00am", want: time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)},
		{name: "RFC2822 trailing zone comment", raw: "Sun, 15 Jun 2025 10:30:00 +0000 (UTC)", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC2822 UT zone", raw: "Sun, 15 Jun 2025 10:30:00 UT", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC2822 two digit year", raw: "Sun, 15 Jun 25 10:30:00 +0000", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "RFC2822 without weekday or seconds", raw: "15 Jun 2025 10:30 GMT", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "ISO spaced offset", raw: "2025-06-15T10:30:00 +0000", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
		{name: "ISO fractional GMT", raw: "2025-06-15T10:30:00.000 GMT", want: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.raw)
			require.NotNil(t, got, "Normalize(%q) returned nil", tt.raw)
			assert.True(t, tt.want.Equal(*got), "Normalize(%q) = %v, want %v", tt.raw, *got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   "},
		{name: "malformed ISO", raw: "2025-13-40T99:99:99Z"},
		{name: "malformed simple", raw: "2025-02-30"},
		{name: "garbage", raw: "not a date at all"},
		{name: "older than seven days", raw: "2025-06-01T00:00:00Z"},
		{name: "far future", raw: "2030-01-01T00:00:00Z"},
		{name: "just beyond skew", raw: "2025-06-15T13:00:01Z"},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Nil(t, n.Normalize(tt.raw))
			})
		})
	}
}

func TestNormalize_Bounds(t *testing.T) {
	n := newTestNormalizer()

	lower := fixedNow.Add(-DefaultMaxAge)
	upper := fixedNow.Add(DefaultMaxSkew)

	assert.NotNil(t, n.Normalize(lower.Format(time.RFC3339)), "lower bound is inclusive")
	assert.NotNil(t, n.Normalize(upper.Format(time.RFC3339)), "upper bound is inclusive")
	assert.Nil(t, n.Normalize(lower.Add(-time.Second).Format(time.RFC3339)))
	assert.Nil(t, n.Normalize(upper.Add(time.Second).Format(time.RFC3339)))
}

func TestParse_NoBounds(t *testing.T) {
	got, ok := Parse("1999-12-31T23:59:59Z")
	require.True(t, ok)
	assert.Equal(t, 1999, got.Year())
}
