// Package recency selects the articles worth ranking by trying progressively
// wider publication windows until one contains enough articles.
package recency

import (
	"log/slog"
	"sort"
	"time"

	"newsdesk/internal/domain/entity"
)

// DefaultWindows are tried narrowest first.
var DefaultWindows = []time.Duration{
	2 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
}

// DefaultMinimum is the article count a window must reach to be selected.
const DefaultMinimum = 5

// Selection is the result of Apply.
type Selection struct {
	Articles []entity.Article
	// Window is the window that met the minimum; zero when Fallback is set.
	Window time.Duration
	// Fallback reports that no window met the minimum and every dated article was kept.
	Fallback bool
}

// Filter implements the adaptive recency policy.
type Filter struct {
	windows []time.Duration
	minimum int
}

// NewFilter creates a filter. Nil windows or a non-positive minimum use the defaults.
func NewFilter(windows []time.Duration, minimum int) *Filter {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	if minimum <= 0 {
		minimum = DefaultMinimum
	}
	ws := append([]time.Duration(nil), windows...)
	sort.Slice(ws, func(i, j int) bool { return ws[i] < ws[j] })
	return &Filter{windows: ws, minimum: minimum}
}

// Apply returns the subset of the first window holding at least the minimum
// number of articles, or every dated article when none does. Articles without
// a publication time are never selected. The result is sorted newest first.
func (f *Filter) Apply(articles []entity.Article, now time.Time) Selection {
	dated := make([]entity.Article, 0, len(articles))
	for _, a := range articles {
		if a.PublishedAt != nil {
			dated = append(dated, a)
		}
	}
	sortNewestFirst(dated)

	for _, w := range f.windows {
		cutoff := now.Add(-w)
		// dated is sorted, so the window is a prefix
		n := sort.Search(len(dated), func(i int) bool {
			return dated[i].PublishedAt.Before(cutoff)
		})
		if n >= f.minimum {
			slog.Debug("recency window selected",
				slog.Duration("window", w),
				slog.Int("articles", n),
				slog.Int("dated", len(dated)))
			return Selection{Articles: dated[:n:n], Window: w}
		}
	}

	slog.Info("no recency window met the minimum, using all dated articles",
		slog.Int("minimum", f.minimum),
		slog.Int("dated", len(dated)),
		slog.Int("undated", len(articles)-len(dated)))
	return Selection{Articles: dated, Fallback: true}
}

func sortNewestFirst(articles []entity.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(*articles[j].PublishedAt)
	})
}
