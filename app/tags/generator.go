package tags

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/komat21/newstagger/app/feed"
	"github.com/komat21/newstagger/app/normalize"
)

const maxTagsPerItem = 3

type ClientInterface interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var _ ClientInterface = (*Client)(nil)

// Generator assigns tags to news items, batching all uncached titles
// into one generation call. Every failure degrades to empty tag lists
// so the serving path stays available without tagging.
type Generator struct {
	cache  *Cache
	client ClientInterface
}

// NewGenerator creates a generator writing to cache. client may be nil
// when no API credential is configured; uncached items then receive
// empty tag lists without any network call.
func NewGenerator(cache *Cache, client ClientInterface) *Generator {
	return &Generator{
		cache:  cache,
		client: client,
	}
}

// Models occasionally prefix output lines with "1." or "1:" labels
// despite the prompt forbidding them.
var lineLabelRe = regexp.MustCompile(`^[0-9０-９]+[.:．：]\s*`)

// Annotate ensures every item has a cache entry keyed by its link,
// issuing at most one generation call per distinct link across the
// process lifetime. Results are observable through the cache; Annotate
// itself never fails.
func (g *Generator) Annotate(ctx context.Context, items []feed.Item) {
	seen := make(map[string]bool, len(items))
	uncached := make([]feed.Item, 0, len(items))
	for _, item := range items {
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true

		if _, ok := g.cache.Get(item.Link); !ok {
			uncached = append(uncached, item)
		}
	}

	if len(uncached) == 0 {
		return
	}

	if g.client == nil {
		slog.Debug("No generation client configured, caching empty tags", "items", len(uncached))
		g.assignEmpty(uncached)
		return
	}

	text, err := g.client.Generate(ctx, g.buildPrompt(uncached))
	if err != nil {
		slog.Error("Tag generation failed", "items", len(uncached), "error", err)
		g.assignEmpty(uncached)
		return
	}

	lines := splitLines(text)
	if len(lines) != len(uncached) {
		slog.Warn("Generation line count mismatch", "expected", len(uncached), "got", len(lines))
	}

	for i, item := range uncached {
		if i < len(lines) {
			g.cache.Set(item.Link, parseTagLine(lines[i]))
		} else {
			// Short responses still produce an entry so the link is
			// not re-queried on the next request.
			g.cache.Set(item.Link, []string{})
		}
	}

	slog.Debug("Tags generated", "items", len(uncached), "lines", len(lines))
}

func (g *Generator) assignEmpty(items []feed.Item) {
	for _, item := range items {
		g.cache.Set(item.Link, []string{})
	}
}

// buildPrompt lists the titles numbered purely to keep the model
// aligned; the output contract is one unnumbered line per title, in
// the same order.
func (g *Generator) buildPrompt(items []feed.Item) string {
	var b strings.Builder
	b.WriteString("以下のニュースタイトルそれぞれについて、日本語タグを最大3個生成してください。\n")
	b.WriteString("出力は1行ごとに「タグ1, タグ2, タグ3」の形式のみ。\n")
	b.WriteString("タイトルと同じ順序で、1タイトルにつき1行だけ出力してください。\n")
	b.WriteString("番号、記号、箇条書き、説明文は一切含めないでください。\n\n")

	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Title)
	}

	return b.String()
}

func splitLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func parseTagLine(line string) []string {
	line = lineLabelRe.ReplaceAllString(line, "")
	line = strings.ReplaceAll(line, "、", ",")

	tags := make([]string, 0, maxTagsPerItem)
	for _, fragment := range strings.Split(line, ",") {
		tag := normalize.StripLeadingMarker(strings.TrimSpace(fragment))
		if !normalize.IsValidTag(tag) {
			continue
		}

		tags = append(tags, tag)
		if len(tags) == maxTagsPerItem {
			break
		}
	}

	return tags
}
