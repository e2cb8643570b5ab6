package news

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItem(date, headline, url string) Item {
	return Item{
		Date:        date,
		Category:    CategoryPolicyUpdate,
		Headline:    headline,
		Description: "description of " + headline,
		Source:      "Test Source",
		URL:         url,
	}
}

// TestDedupe_RemovesDuplicatePairs verifies that two items sharing a
// (headline, URL) pair collapse to one.
func TestDedupe_RemovesDuplicatePairs(t *testing.T) {
	items := []Item{
		makeItem("2026-08-01", "Visa fees increased", "https://example.com/a"),
		makeItem("2026-08-01", "Visa fees increased", "https://example.com/a"),
	}

	out := Dedupe(items, 30)
	assert.Len(t, out, 1)
}

// TestDedupe_HeadlineCaseInsensitive verifies the headline half of the key
// ignores case.
func TestDedupe_HeadlineCaseInsensitive(t *testing.T) {
	items := []Item{
		makeItem("2026-08-01", "Visa Fees Increased", "https://example.com/a"),
		makeItem("2026-08-01", "visa fees increased", "https://example.com/a"),
	}

	out := Dedupe(items, 30)
	assert.Len(t, out, 1)
}

// TestDedupe_SameHeadlineDifferentURL keeps both items when the URLs differ.
func TestDedupe_SameHeadlineDifferentURL(t *testing.T) {
	items := []Item{
		makeItem("2026-08-01", "Visa fees increased", "https://example.com/a"),
		makeItem("2026-08-01", "Visa fees increased", "https://example.com/b"),
	}

	out := Dedupe(items, 30)
	assert.Len(t, out, 2)
}

// TestDedupe_CapsOutput verifies the output never exceeds max.
func TestDedupe_CapsOutput(t *testing.T) {
	var items []Item
	for i := 0; i < 50; i++ {
		items = append(items, makeItem("2026-08-01", fmt.Sprintf("Headline %02d", i), fmt.Sprintf("https://example.com/%d", i)))
	}

	out := Dedupe(items, 30)
	assert.Len(t, out, 30)
}

// TestDedupe_NoCapWhenZero verifies max <= 0 disables capping.
func TestDedupe_NoCapWhenZero(t *testing.T) {
	var items []Item
	for i := 0; i < 40; i++ {
		items = append(items, makeItem("2026-08-01", fmt.Sprintf("Headline %02d", i), fmt.Sprintf("https://example.com/%d", i)))
	}

	out := Dedupe(items, 0)
	assert.Len(t, out, 40)
}

// TestSort_NewestFirst verifies descending date order.
func TestSort_NewestFirst(t *testing.T) {
	items := []Item{
		makeItem("2026-07-01", "Older", "https://example.com/old"),
		makeItem("2026-08-15", "Newer", "https://example.com/new"),
		makeItem("2026-08-01", "Middle", "https://example.com/mid"),
	}

	Sort(items)

	require.Len(t, items, 3)
	assert.Equal(t, "2026-08-15", items[0].Date)
	assert.Equal(t, "2026-08-01", items[1].Date)
	assert.Equal(t, "2026-07-01", items[2].Date)
}

// TestSort_TieBrokenByHeadline verifies that on equal dates the
// lexicographically later headline comes first.
func TestSort_TieBrokenByHeadline(t *testing.T) {
	items := []Item{
		makeItem("2026-08-01", "alpha headline", "https://example.com/a"),
		makeItem("2026-08-01", "zulu headline", "https://example.com/z"),
	}

	Sort(items)

	assert.Equal(t, "zulu headline", items[0].Headline)
	assert.Equal(t, "alpha headline", items[1].Headline)
}

// TestSort_TieBrokenByURL verifies the final URL tie-break.
func TestSort_TieBrokenByURL(t *testing.T) {
	items := []Item{
		makeItem("2026-08-01", "same headline", "https://example.com/a"),
		makeItem("2026-08-01", "same headline", "https://example.com/b"),
	}

	Sort(items)

	assert.Equal(t, "https://example.com/b", items[0].URL)
	assert.Equal(t, "https://example.com/a", items[1].URL)
}

// TestDedupe_KeepsFirstInSortedOrder verifies the survivor of a duplicate
// pair is the one that sorts first.
func TestDedupe_KeepsFirstInSortedOrder(t *testing.T) {
	newer := makeItem("2026-08-15", "Visa update", "https://example.com/a")
	newer.Category = CategoryStudentVisas
	older := makeItem("2026-08-01", "Visa update", "https://example.com/a")

	// Same headline and URL but different dates: both survive dedupe only if
	// the key included the date, which it does not.
	out := Dedupe([]Item{older, newer}, 30)
	require.Len(t, out, 1)
	assert.Equal(t, "2026-08-15", out[0].Date)
	assert.Equal(t, CategoryStudentVisas, out[0].Category)
}

// TestURLKey_Stable verifies the digest is deterministic and short.
func TestURLKey_Stable(t *testing.T) {
	a := URLKey("https://example.com/article")
	b := URLKey("https://example.com/article")
	c := URLKey("https://example.com/other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 12)
}
