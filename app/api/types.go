package api

import (
	"context"

	"github.com/komat21/newstagger/app/categories"
	"github.com/komat21/newstagger/app/feed"
	"github.com/komat21/newstagger/app/tags"
)

type CatalogInterface interface {
	Get(name string) (string, error)
	Names() []string
	Count() int
}

var _ CatalogInterface = (*categories.Catalog)(nil)

type FetcherInterface interface {
	Run(ctx context.Context, feedURL string, maxItems int) []feed.Item
}

var _ FetcherInterface = (*feed.Fetcher)(nil)

type AnnotatorInterface interface {
	Annotate(ctx context.Context, items []feed.Item)
}

var _ AnnotatorInterface = (*tags.Generator)(nil)

type Handler struct {
	catalog   CatalogInterface
	fetcher   FetcherInterface
	annotator AnnotatorInterface
	cache     *tags.Cache
}

type NewsItem struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Link    string   `json:"link"`
	Tags    []string `json:"tags"`
}

type NewsResponse struct {
	News     []NewsItem `json:"news"`
	Category string     `json:"category"`
}
