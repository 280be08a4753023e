// Package scraper provides the RSS/Atom feed fetcher used by the fetch use case.
// Feeds are downloaded with a plain HTTP GET and parsed with the gofeed library.
// Retry and circuit breaking are applied by the caller through the resilience registry.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/fetch"
	"newsdesk/internal/utils/text"
)

const (
	// userAgent identifies the fetcher to feed servers.
	userAgent = "NewsdeskBot/1.0"

	// maxFeedBytes caps the size of a single feed document.
	maxFeedBytes = 10 << 20

	// maxSnippetRunes bounds snippets derived from full content.
	maxSnippetRunes = 500
)

// RSSFetcher implements fetch.FeedFetcher using the gofeed library.
type RSSFetcher struct {
	client *http.Client
	parser *gofeed.Parser
}

// NewRSSFetcher creates a new RSSFetcher with the given HTTP client.
func NewRSSFetcher(client *http.Client) *RSSFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &RSSFetcher{
		client: client,
		parser: gofeed.NewParser(),
	}
}

// Fetch retrieves and parses an RSS/Atom feed from the given URL.
// Non-2xx responses are returned as *retry.HTTPError so the retry policy
// can tell transient statuses from permanent ones.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]fetch.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("GET %s", feedURL),
		}
	}

	feed, err := f.parser.Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fetch.ErrInvalidFeedFormat, err)
	}

	items := make([]fetch.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		items = append(items, toFeedItem(it))
	}
	return items, nil
}

// toFeedItem maps a gofeed item. content:encoded (or Atom content) becomes
// Content; description (or Atom summary) becomes the plain-text Snippet.
func toFeedItem(it *gofeed.Item) fetch.FeedItem {
	snippet := text.StripHTML(it.Description)
	if snippet == "" && it.Content != "" {
		snippet = text.Truncate(text.StripHTML(it.Content), maxSnippetRunes)
	}

	raw := strings.TrimSpace(it.Published)
	if raw == "" {
		raw = strings.TrimSpace(it.Updated)
	}

	return fetch.FeedItem{
		Title:        strings.TrimSpace(it.Title),
		Link:         strings.TrimSpace(it.Link),
		Content:      it.Content,
		Snippet:      snippet,
		RawPublished: raw,
	}
}
