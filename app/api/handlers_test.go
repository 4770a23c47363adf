package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/komat21/newstagger/app/feed"
	"github.com/komat21/newstagger/app/tags"
)

type fakeCatalog struct {
	urls  map[string]string
	order []string
}

func (f *fakeCatalog) Get(name string) (string, error) {
	url, ok := f.urls[name]
	if !ok {
		return "", fmt.Errorf("category '%s' not found", name)
	}
	return url, nil
}

func (f *fakeCatalog) Names() []string { return f.order }
func (f *fakeCatalog) Count() int      { return len(f.urls) }

type fakeFetcher struct {
	items []feed.Item
}

func (f *fakeFetcher) Run(ctx context.Context, feedURL string, maxItems int) []feed.Item {
	if len(f.items) > maxItems {
		return f.items[:maxItems]
	}
	return f.items
}

type fakeAnnotator struct {
	cache *tags.Cache
	tags  map[string][]string
}

func (f *fakeAnnotator) Annotate(ctx context.Context, items []feed.Item) {
	for _, item := range items {
		if t, ok := f.tags[item.Link]; ok {
			f.cache.Set(item.Link, t)
		}
	}
}

func newTestServer(catalog CatalogInterface, fetcher FetcherInterface,
	annotator AnnotatorInterface, cache *tags.Cache) http.Handler {
	return NewServer(NewHandler(catalog, fetcher, annotator, cache))
}

func doRequest(t *testing.T, server http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestGetNewsUnknownCategory(t *testing.T) {
	cache := tags.NewCache()
	server := newTestServer(
		&fakeCatalog{urls: map[string]string{}},
		&fakeFetcher{},
		&fakeAnnotator{cache: cache},
		cache,
	)

	w := doRequest(t, server, "/api/news/unknown")

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" {
		t.Error("Expected structured error message")
	}
}

func TestGetNewsEmptyFeed(t *testing.T) {
	cache := tags.NewCache()
	server := newTestServer(
		&fakeCatalog{urls: map[string]string{"経済": "https://news.example.com/business.xml"}},
		&fakeFetcher{items: nil},
		&fakeAnnotator{cache: cache},
		cache,
	)

	w := doRequest(t, server, "/api/news/経済")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" {
		t.Error("Expected structured error message")
	}
}

func TestGetNewsSuccess(t *testing.T) {
	cache := tags.NewCache()
	fetcher := &fakeFetcher{items: []feed.Item{
		{Title: "Foo News", Summary: "Foo summary", Link: "https://example.com/foo"},
		{Title: "Bar News", Summary: "Bar summary", Link: "https://example.com/bar"},
	}}
	annotator := &fakeAnnotator{cache: cache, tags: map[string][]string{
		"https://example.com/foo": {"タグA", "タグB"},
	}}

	server := newTestServer(
		&fakeCatalog{urls: map[string]string{"経済": "https://news.example.com/business.xml"}},
		fetcher,
		annotator,
		cache,
	)

	w := doRequest(t, server, "/api/news/経済")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body NewsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}

	if body.Category != "経済" {
		t.Errorf("Expected category '経済', got %q", body.Category)
	}
	if len(body.News) != 2 {
		t.Fatalf("Expected 2 news items, got %d", len(body.News))
	}

	first := body.News[0]
	if first.Title != "Foo News" {
		t.Errorf("Expected title 'Foo News', got %q", first.Title)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "タグA" {
		t.Errorf("Unexpected tags: %v", first.Tags)
	}

	// Items without a cache entry serve an empty tag list, never null.
	second := body.News[1]
	if second.Tags == nil || len(second.Tags) != 0 {
		t.Errorf("Expected empty tags for untagged item, got %v", second.Tags)
	}
	if !strings.Contains(w.Body.String(), `"tags":[]`) {
		t.Error("Expected empty tags serialized as [], not null")
	}
}

func TestGetNewsServesAtMostTenItems(t *testing.T) {
	items := make([]feed.Item, 0, 15)
	for i := 1; i <= 15; i++ {
		items = append(items, feed.Item{
			Title: fmt.Sprintf("Item %d", i),
			Link:  fmt.Sprintf("https://example.com/%d", i),
		})
	}

	cache := tags.NewCache()
	server := newTestServer(
		&fakeCatalog{urls: map[string]string{"経済": "https://news.example.com/business.xml"}},
		&fakeFetcher{items: items},
		&fakeAnnotator{cache: cache},
		cache,
	)

	w := doRequest(t, server, "/api/news/経済")

	var body NewsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.News) != 10 {
		t.Errorf("Expected 10 news items, got %d", len(body.News))
	}
}

func TestGetNewsTruncatesSummary(t *testing.T) {
	longSummary := strings.Repeat("あ", 200)

	cache := tags.NewCache()
	server := newTestServer(
		&fakeCatalog{urls: map[string]string{"経済": "https://news.example.com/business.xml"}},
		&fakeFetcher{items: []feed.Item{
			{Title: "Item", Summary: longSummary, Link: "https://example.com/1"},
		}},
		&fakeAnnotator{cache: cache},
		cache,
	)

	w := doRequest(t, server, "/api/news/経済")

	var body NewsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if got := len([]rune(body.News[0].Summary)); got != 150 {
		t.Errorf("Expected summary truncated to 150 runes, got %d", got)
	}
}

func TestGetIndexListsCategoriesInOrder(t *testing.T) {
	cache := tags.NewCache()
	server := newTestServer(
		&fakeCatalog{
			urls: map[string]string{
				"政治": "https://news.example.com/politics.xml",
				"経済": "https://news.example.com/business.xml",
			},
			order: []string{"政治", "経済"},
		},
		&fakeFetcher{},
		&fakeAnnotator{cache: cache},
		cache,
	)

	w := doRequest(t, server, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Categories []string `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Categories) != 2 || body.Categories[0] != "政治" || body.Categories[1] != "経済" {
		t.Errorf("Unexpected category list: %v", body.Categories)
	}
}

func TestGetHealth(t *testing.T) {
	cache := tags.NewCache()
	cache.Set("https://example.com/1", []string{"経済"})

	server := newTestServer(
		&fakeCatalog{urls: map[string]string{"経済": "https://news.example.com/business.xml"}},
		&fakeFetcher{},
		&fakeAnnotator{cache: cache},
		cache,
	)

	w := doRequest(t, server, "/health")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Timestamp  string `json:"timestamp"`
		Categories int    `json:"categories"`
		CachedTags int    `json:"cached_tags"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Timestamp == "" {
		t.Error("Expected timestamp in health response")
	}
	if body.Categories != 1 {
		t.Errorf("Expected 1 category, got %d", body.Categories)
	}
	if body.CachedTags != 1 {
		t.Errorf("Expected 1 cached entry, got %d", body.CachedTags)
	}
}
