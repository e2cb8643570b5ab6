package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublishedDate_MetaTag verifies the article meta tag wins.
func TestPublishedDate_MetaTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
<meta property="article:published_time" content="2026-08-10T09:30:00Z">
</head><body>article</body></html>`)
	}))
	defer srv.Close()

	p := NewProber(5*time.Second, "", nil)
	ts, ok := p.PublishedDate(context.Background(), srv.URL)
	require.True(t, ok)
	assert.Equal(t, "2026-08-10", ts.UTC().Format("2006-01-02"))
}

// TestPublishedDate_DateOnlyMeta verifies bare calendar dates parse.
func TestPublishedDate_DateOnlyMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><meta name="date" content="2026-07-02"></head></html>`)
	}))
	defer srv.Close()

	p := NewProber(5*time.Second, "", nil)
	ts, ok := p.PublishedDate(context.Background(), srv.URL)
	require.True(t, ok)
	assert.Equal(t, "2026-07-02", ts.Format("2006-01-02"))
}

// TestPublishedDate_LastModifiedFallback verifies the header backstop when
// no meta tag parses.
func TestPublishedDate_LastModifiedFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Mon, 10 Aug 2026 10:00:00 GMT")
		fmt.Fprint(w, `<html><head></head><body>no meta dates</body></html>`)
	}))
	defer srv.Close()

	p := NewProber(5*time.Second, "", nil)
	ts, ok := p.PublishedDate(context.Background(), srv.URL)
	require.True(t, ok)
	assert.Equal(t, "2026-08-10", ts.UTC().Format("2006-01-02"))
}

// TestPublishedDate_NothingResolvable verifies a page with no usable date
// reports failure.
func TestPublishedDate_NothingResolvable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>nothing here</body></html>`)
	}))
	defer srv.Close()

	p := NewProber(5*time.Second, "", nil)
	_, ok := p.PublishedDate(context.Background(), srv.URL)
	assert.False(t, ok)
}

// TestPublishedDate_HTTPError verifies failures report false rather than
// erroring the run.
func TestPublishedDate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewProber(5*time.Second, "", nil)
	_, ok := p.PublishedDate(context.Background(), srv.URL)
	assert.False(t, ok)
}
