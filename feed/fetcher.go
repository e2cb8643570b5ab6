// Package feed retrieves RSS/Atom feeds and converts their entries into news
// item candidates.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

// DefaultUserAgent identifies the poller to publishers.
const DefaultUserAgent = "policyfeed/1.0 (+https://github.com/mobilitydesk/policyfeed)"

// Conditional carries validators from a previous fetch of the same URL.
type Conditional struct {
	ETag         string
	LastModified string
}

// Result is the outcome of fetching one feed URL.
type Result struct {
	Feed *gofeed.Feed
	// NotModified is set when the server answered 304 to a conditional
	// request; Feed is nil in that case.
	NotModified  bool
	ETag         string
	LastModified string
}

// Fetcher retrieves and parses feeds sequentially. A failure on one feed
// never affects another; callers decide what to do with the error.
type Fetcher struct {
	client *http.Client
	parser *gofeed.Parser
	ua     string
	logger *zap.Logger
}

// NewFetcher builds a fetcher with a fixed per-request timeout.
func NewFetcher(timeout time.Duration, userAgent string, logger *zap.Logger) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		parser: gofeed.NewParser(),
		ua:     userAgent,
		logger: logger,
	}
}

// get performs one HTTP GET and returns the body, headers, and status.
func (f *Fetcher) get(ctx context.Context, feedURL string, cond Conditional) (string, http.Header, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)
	if cond.ETag != "" {
		req.Header.Set("If-None-Match", cond.ETag)
	}
	if cond.LastModified != "" {
		req.Header.Set("If-Modified-Since", cond.LastModified)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return "", resp.Header, resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", resp.Header, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.Header, resp.StatusCode, fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), resp.Header, resp.StatusCode, nil
}

// Fetch retrieves and parses one feed URL. If the primary parse fails or
// yields no entries, the URL is refetched once without validators and the
// raw text reparsed; malformed-but-recoverable feeds get a second chance
// that way.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string, cond Conditional) (*Result, error) {
	body, hdr, status, err := f.get(ctx, feedURL, cond)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotModified {
		return &Result{NotModified: true}, nil
	}

	parsed, perr := f.parser.ParseString(body)
	if perr != nil || len(parsed.Items) == 0 {
		f.logger.Debug("primary parse failed or empty, refetching",
			zap.String("url", feedURL),
			zap.Error(perr))
		retryBody, retryHdr, _, gerr := f.get(ctx, feedURL, Conditional{})
		if gerr == nil {
			if reparsed, rerr := f.parser.ParseString(retryBody); rerr == nil {
				parsed, perr = reparsed, nil
				hdr = retryHdr
			}
		}
	}
	if perr != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", perr)
	}

	return &Result{
		Feed:         parsed,
		ETag:         hdr.Get("ETag"),
		LastModified: hdr.Get("Last-Modified"),
	}, nil
}

// pageURL appends or replaces the page query parameter. Page 1 is the bare
// feed URL.
func pageURL(feedURL string, page int) string {
	if page <= 1 {
		return feedURL
	}
	u, err := url.Parse(feedURL)
	if err != nil {
		return feedURL
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchPages retrieves up to maxPages pages of a feed, following the page
// query parameter. Paging stops early when every entry on a page is older
// than the cutoff. Validators apply to the first page only; a 304 there
// short-circuits the whole feed.
func (f *Fetcher) FetchPages(ctx context.Context, feedURL string, cond Conditional, maxPages int, cutoff time.Time) (*Result, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	first, err := f.Fetch(ctx, feedURL, cond)
	if err != nil || first.NotModified || maxPages == 1 {
		return first, err
	}

	for page := 2; page <= maxPages; page++ {
		if pageExhausted(first.Feed.Items, cutoff) {
			break
		}
		next, err := f.Fetch(ctx, pageURL(feedURL, page), Conditional{})
		if err != nil {
			f.logger.Warn("feed page fetch failed, stopping pagination",
				zap.String("url", feedURL),
				zap.Int("page", page),
				zap.Error(err))
			break
		}
		if next.Feed == nil || len(next.Feed.Items) == 0 {
			break
		}
		first.Feed.Items = append(first.Feed.Items, next.Feed.Items...)
		if pageExhausted(next.Feed.Items, cutoff) {
			break
		}
	}
	return first, nil
}

// pageExhausted reports whether every dated entry on the page is older than
// the cutoff. A page with no dated entries counts as exhausted.
func pageExhausted(items []*gofeed.Item, cutoff time.Time) bool {
	if cutoff.IsZero() {
		return false
	}
	for _, it := range items {
		ts := it.PublishedParsed
		if ts == nil {
			ts = it.UpdatedParsed
		}
		if ts != nil && !ts.Before(cutoff) {
			return false
		}
	}
	return true
}
