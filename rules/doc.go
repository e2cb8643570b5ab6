package rules

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

// Doc is the normalized record the predicates evaluate: a single lowercased
// title+summary blob plus the host and path of the entry's link.
type Doc struct {
	Blob string
	Host string
	Path string
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// NormalizeBlob lowercases title and summary, strips markup and entities,
// collapses whitespace, and joins them into the matchable blob.
func NormalizeBlob(title, summary string) string {
	raw := title + " " + summary
	raw = tagPattern.ReplaceAllString(raw, " ")
	raw = html.UnescapeString(raw)
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// NewDoc builds a Doc from a raw title, summary, and link. An unparseable
// link yields an empty host and path, which no guard or boost matches.
func NewDoc(title, summary, link string) Doc {
	d := Doc{Blob: NormalizeBlob(title, summary)}
	if u, err := url.Parse(link); err == nil {
		d.Host = strings.ToLower(u.Hostname())
		d.Path = strings.ToLower(u.Path)
	}
	return d
}
