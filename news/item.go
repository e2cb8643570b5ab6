// Package news defines the published news item model and the ordering and
// deduplication rules applied before a payload is written.
package news

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// Category labels assigned to accepted items. Assignment is first-match-wins,
// so an item never carries more than one.
const (
	CategoryStudentVisas    = "Student Visas"
	CategoryWorkVisas       = "Work Visas"
	CategoryVisaExemption   = "Visa Exemption"
	CategoryResidency       = "Residency"
	CategoryEducationPolicy = "Education Policy"
	CategoryPolicyUpdate    = "Policy Update"
)

// Item represents a single accepted feed entry in the shape the static site
// consumes. Date is a calendar date in ISO 8601 form with no time component;
// items without a resolvable date never become Items.
type Item struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
	Source      string `json:"source"`
	URL         string `json:"url"`
}

// URLKey returns a short stable digest of a URL, the second half of the
// uniqueness key alongside the lowercased headline.
func URLKey(u string) string {
	sum := sha1.Sum([]byte(u))
	return hex.EncodeToString(sum[:])[:12]
}

// Key returns the uniqueness key for an item.
func (it Item) Key() string {
	return strings.ToLower(it.Headline) + "\x00" + URLKey(it.URL)
}

// sortKey orders items newest-first with deterministic tie-breaking by
// lowercased headline, then URL.
type sortKey struct {
	date     string
	headline string
	url      string
}

func keyOf(it Item) sortKey {
	return sortKey{date: it.Date, headline: strings.ToLower(it.Headline), url: it.URL}
}

// before reports whether k sorts ahead of o in the published (descending)
// order.
func (k sortKey) before(o sortKey) bool {
	if k.date != o.date {
		return k.date > o.date
	}
	if k.headline != o.headline {
		return k.headline > o.headline
	}
	return k.url > o.url
}

// Sort orders items in place, newest first, ties broken by headline then URL.
func Sort(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return keyOf(items[i]).before(keyOf(items[j]))
	})
}

// Dedupe sorts candidates into published order, drops every duplicate
// (headline, URL) pair after the first, and truncates the result to max
// items. The input slice is not modified. A max of zero or less means no cap.
func Dedupe(items []Item, max int) []Item {
	ordered := make([]Item, len(items))
	copy(ordered, items)
	Sort(ordered)

	seen := make(map[string]struct{}, len(ordered))
	out := make([]Item, 0, len(ordered))
	for _, it := range ordered {
		k := it.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
