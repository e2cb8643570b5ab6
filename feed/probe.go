package feed

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// metaDateSelectors are tried in order against the article page.
var metaDateSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[property="og:article:published_time"]`,
	`meta[itemprop="datePublished"]`,
	`meta[name="pubdate"]`,
	`meta[name="date"]`,
}

// metaDateLayouts cover the timestamp forms seen in publisher meta tags.
var metaDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"2 January 2006",
}

// Prober resolves publication dates for entries whose feed metadata carries
// none: it fetches the article page and reads date meta tags, falling back
// to the HTTP Last-Modified header.
type Prober struct {
	client *http.Client
	ua     string
	logger *zap.Logger
}

// NewProber builds a page prober sharing the fetcher's timeout discipline.
func NewProber(timeout time.Duration, userAgent string, logger *zap.Logger) *Prober {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{
		client: &http.Client{Timeout: timeout},
		ua:     userAgent,
		logger: logger,
	}
}

// PublishedDate fetches the page and resolves a publication timestamp.
func (p *Prober) PublishedDate(ctx context.Context, pageURL string) (time.Time, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return time.Time{}, false
	}
	req.Header.Set("User-Agent", p.ua)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("page probe failed", zap.String("url", pageURL), zap.Error(err))
		return time.Time{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return time.Time{}, false
	}

	if doc, err := goquery.NewDocumentFromReader(resp.Body); err == nil {
		if ts, ok := metaDate(doc); ok {
			return ts, true
		}
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if ts, err := http.ParseTime(lm); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// metaDate scans the known meta tags for a parseable timestamp.
func metaDate(doc *goquery.Document) (time.Time, bool) {
	for _, sel := range metaDateSelectors {
		content, exists := doc.Find(sel).First().Attr("content")
		if !exists {
			continue
		}
		if ts, ok := parseMetaDate(strings.TrimSpace(content)); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseMetaDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range metaDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
