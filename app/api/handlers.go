package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/komat21/newstagger/app/tags"
)

const (
	// fetchLimit bounds the raw feed parse; serveLimit is how many
	// items one response carries.
	fetchLimit   = 20
	serveLimit   = 10
	summaryLimit = 150
)

func NewHandler(catalog CatalogInterface, fetcher FetcherInterface,
	annotator AnnotatorInterface, cache *tags.Cache) *Handler {
	return &Handler{
		catalog:   catalog,
		fetcher:   fetcher,
		annotator: annotator,
		cache:     cache,
	}
}

func (h *Handler) GetNews(c *gin.Context) {
	category := c.Param("category")

	feedURL, err := h.catalog.Get(category)
	if err != nil {
		slog.Error("Unknown category requested", "category", category, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return
	}

	// A client disconnect must not abort in-flight work: a failed
	// generation is cached as empty and never re-queried, so the
	// fetch and generation timeouts are the only bounds here.
	ctx := context.WithoutCancel(c.Request.Context())

	items := h.fetcher.Run(ctx, feedURL, fetchLimit)
	if len(items) == 0 {
		slog.Error("Feed returned no usable items", "category", category, "url", feedURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch news"})
		return
	}

	if len(items) > serveLimit {
		items = items[:serveLimit]
	}

	h.annotator.Annotate(ctx, items)

	news := make([]NewsItem, 0, len(items))
	for _, item := range items {
		itemTags, ok := h.cache.Get(item.Link)
		if !ok || itemTags == nil {
			itemTags = []string{}
		}

		news = append(news, NewsItem{
			Title:   item.Title,
			Summary: truncate(item.Summary, summaryLimit),
			Link:    item.Link,
			Tags:    itemTags,
		})
	}

	c.JSON(http.StatusOK, NewsResponse{News: news, Category: category})
}

func (h *Handler) GetIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":    "News Tagger",
		"categories": h.catalog.Names(),
		"endpoints": map[string]string{
			"news":   "/api/news/<category>",
			"health": "/health",
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":   time.Now().In(time.Local).Format(time.RFC3339),
		"categories":  h.catalog.Count(),
		"cached_tags": h.cache.Len(),
	})
}

// truncate shortens s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
