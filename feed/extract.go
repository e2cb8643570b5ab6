package feed

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/mobilitydesk/policyfeed/news"
	"github.com/mobilitydesk/policyfeed/sources"
)

// Field length caps for the published payload.
const (
	HeadlineLimit    = 160
	DescriptionLimit = 260
)

// dateLayout is the calendar-date form items carry.
const dateLayout = "2006-01-02"

// Extractor converts raw feed entries into news item candidates. Entries
// with no usable title or no resolvable date are dropped, never defaulted.
type Extractor struct {
	// Prober, when set, resolves dates for undated entries from the article
	// page itself.
	Prober *Prober
	logger *zap.Logger
}

// NewExtractor builds an extractor. The prober is optional.
func NewExtractor(prober *Prober, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{Prober: prober, logger: logger}
}

// Extract builds a candidate item from one feed entry. The category is left
// empty; classification owns it. The boolean is false when the entry is
// unusable.
func (e *Extractor) Extract(ctx context.Context, entry *gofeed.Item) (news.Item, bool) {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return news.Item{}, false
	}

	summary := entry.Description
	if summary == "" && entry.Content != "" {
		summary = entry.Content
	}

	date, ok := e.resolveDate(ctx, entry)
	if !ok {
		e.logger.Debug("dropping undated entry", zap.String("title", title))
		return news.Item{}, false
	}

	return news.Item{
		Date:        date.Format(dateLayout),
		Headline:    CleanText(title, HeadlineLimit),
		Description: CleanText(summary, DescriptionLimit),
		Source:      sources.ResolveName(entry.Link),
		URL:         entry.Link,
	}, true
}

// resolveDate walks the resolution chain: structured published date, then
// structured updated date, then the page probe.
func (e *Extractor) resolveDate(ctx context.Context, entry *gofeed.Item) (time.Time, bool) {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed, true
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed, true
	}
	if e.Prober != nil && entry.Link != "" {
		if ts, ok := e.Prober.PublishedDate(ctx, entry.Link); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// CleanText strips markup and entities from raw text, collapses whitespace,
// and truncates to the limit, preferring a sentence boundary when one falls
// in the second half of the allowance.
func CleanText(raw string, limit int) string {
	text := raw
	if strings.ContainsAny(raw, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
			text = doc.Text()
		} else {
			text = html.UnescapeString(raw)
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	return truncate(text, limit)
}

// truncate cuts s to at most limit runes, cutting at the last sentence end
// inside the limit when that keeps at least half the allowance.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return strings.TrimSpace(s)
	}
	cut := string(runes[:limit])
	if idx := strings.LastIndexAny(cut, ".!?"); idx >= limit/2 {
		return strings.TrimSpace(cut[:idx+1])
	}
	return strings.TrimSpace(cut)
}
