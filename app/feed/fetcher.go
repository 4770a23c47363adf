package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/komat21/newstagger/app/normalize"
)

// Fetcher downloads and parses a single news feed. A failing feed must
// never take down the serving path, so Run degrades to an empty result
// on every transport or parse problem.
type Fetcher struct {
	parser    *gofeed.Parser
	client    *http.Client
	userAgent string
}

func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		parser: gofeed.NewParser(),
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 5,
			},
		},
		userAgent: userAgent,
	}
}

// Run fetches feedURL and returns up to maxItems normalized items in
// document order. Items whose normalized title or link is empty are
// dropped and do not count toward the limit.
func (f *Fetcher) Run(ctx context.Context, feedURL string, maxItems int) []Item {
	data, err := f.fetch(ctx, feedURL)
	if err != nil {
		slog.Error("Feed fetch failed", "url", feedURL, "error", err)
		return nil
	}

	parsed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Error("Feed parse failed", "url", feedURL, "error", err)
		return nil
	}

	items := make([]Item, 0, maxItems)
	for _, raw := range parsed.Items {
		if len(items) >= maxItems {
			break
		}

		item := f.normalizeItem(raw)
		if item.Title == "" || item.Link == "" {
			slog.Debug("Skipping item without title or link", "url", feedURL)
			continue
		}

		items = append(items, item)
	}

	slog.Debug("Feed fetched", "url", feedURL, "items", len(items))
	return items
}

func (f *Fetcher) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	return data, nil
}

func (f *Fetcher) normalizeItem(raw *gofeed.Item) Item {
	return Item{
		Title:       normalize.StripLeadingMarker(raw.Title),
		Summary:     normalize.StripLeadingMarker(raw.Description),
		Link:        strings.TrimSpace(raw.Link),
		PublishedAt: strings.TrimSpace(raw.Published),
	}
}
