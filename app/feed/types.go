package feed

// Item is a single normalized news entry taken from a feed document.
// Items live for the duration of one request and are not persisted;
// Link doubles as the cache key for generated tags.
type Item struct {
	Title       string
	Summary     string
	Link        string
	PublishedAt string
}
