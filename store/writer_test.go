package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilitydesk/policyfeed/news"
)

func sampleItems(n int) []news.Item {
	var items []news.Item
	for i := 0; i < n; i++ {
		items = append(items, news.Item{
			Date:        "2026-08-10",
			Category:    news.CategoryPolicyUpdate,
			Headline:    fmt.Sprintf("Headline %02d", i),
			Description: "Description.",
			Source:      "Test Source",
			URL:         fmt.Sprintf("https://example.com/%d", i),
		})
	}
	return items
}

func readPayload(t *testing.T, path string) Payload {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var p Payload
	require.NoError(t, json.Unmarshal(data, &p))
	return p
}

// TestWrite_CreatesFile verifies a first write lands on disk in the
// expected shape.
func TestWrite_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "policyNews.json")
	w := NewWriter(path, 30, 1, nil)

	res, err := w.Write(sampleItems(3), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesWritten)

	p := readPayload(t, path)
	assert.Len(t, p.PolicyNews, 3)
	assert.Equal(t, "Headline 00", p.PolicyNews[0].Headline)
}

// TestWrite_SecondWriteIsNoOp verifies the hash gate: rewriting identical
// content touches nothing.
func TestWrite_SecondWriteIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policyNews.json")
	w := NewWriter(path, 30, 1, nil)
	items := sampleItems(3)

	first, err := w.Write(items, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, first.FilesWritten)

	second, err := w.Write(items, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, second.FilesWritten)
	assert.Equal(t, 1, second.FilesUnchanged)
}

// TestWrite_ChangedContentRewrites verifies a content change defeats the
// gate.
func TestWrite_ChangedContentRewrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policyNews.json")
	w := NewWriter(path, 30, 1, nil)

	_, err := w.Write(sampleItems(3), time.Now())
	require.NoError(t, err)

	res, err := w.Write(sampleItems(4), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesWritten)
	assert.Len(t, readPayload(t, path).PolicyNews, 4)
}

// TestWrite_EmptyPreservesExisting verifies an empty run never clobbers a
// populated output file.
func TestWrite_EmptyPreservesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policyNews.json")
	w := NewWriter(path, 30, 1, nil)

	_, err := w.Write(sampleItems(3), time.Now())
	require.NoError(t, err)

	res, err := w.Write(nil, time.Now())
	require.NoError(t, err)
	assert.True(t, res.PreservedExisting)
	assert.Len(t, readPayload(t, path).PolicyNews, 3)
}

// TestWrite_EmptyScaffoldWhenMissing verifies an empty run with no prior
// output writes an empty scaffold.
func TestWrite_EmptyScaffoldWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policyNews.json")
	w := NewWriter(path, 30, 1, nil)

	res, err := w.Write(nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesWritten)

	p := readPayload(t, path)
	assert.NotNil(t, p.PolicyNews)
	assert.Empty(t, p.PolicyNews)
}

// TestWrite_Pagination verifies page files and the index.
func TestWrite_Pagination(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policyNews.json")
	w := NewWriter(path, 10, 3, nil)
	generated := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)

	res, err := w.Write(sampleItems(25), generated)
	require.NoError(t, err)
	// Three pages plus the index.
	assert.Equal(t, 4, res.FilesWritten)

	assert.Len(t, readPayload(t, path).PolicyNews, 10)
	assert.Len(t, readPayload(t, filepath.Join(dir, "policyNews.p2.json")).PolicyNews, 10)
	assert.Len(t, readPayload(t, filepath.Join(dir, "policyNews.p3.json")).PolicyNews, 5)

	data, err := os.ReadFile(filepath.Join(dir, "policyNews.index.json"))
	require.NoError(t, err)
	var idx Index
	require.NoError(t, json.Unmarshal(data, &idx))
	assert.Equal(t, 3, idx.Pages)
	assert.Equal(t, 10, idx.PageSize)
	assert.Equal(t, 25, idx.TotalItems)
	assert.Equal(t, "2026-08-30T06:00:00Z", idx.GeneratedAt)
}

// TestWrite_PaginationUnchangedSkipsIndex verifies a fully unchanged
// paginated write leaves the index alone too.
func TestWrite_PaginationUnchangedSkipsIndex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policyNews.json")
	w := NewWriter(path, 10, 3, nil)
	items := sampleItems(25)

	_, err := w.Write(items, time.Now())
	require.NoError(t, err)

	indexPath := filepath.Join(dir, "policyNews.index.json")
	before, err := os.ReadFile(indexPath)
	require.NoError(t, err)

	res, err := w.Write(items, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, res.FilesWritten)
	assert.Equal(t, 3, res.FilesUnchanged)

	after, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// TestWrite_PageOverflowCapped verifies items beyond the last page are
// dropped.
func TestWrite_PageOverflowCapped(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(filepath.Join(dir, "policyNews.json"), 10, 2, nil)

	_, err := w.Write(sampleItems(35), time.Now())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "policyNews.p3.json"))
	assert.True(t, os.IsNotExist(err))
}

// TestSignature_Deterministic verifies byte-identical payloads hash equal
// and different payloads do not.
func TestSignature_Deterministic(t *testing.T) {
	a, err := Signature(Payload{PolicyNews: sampleItems(2)})
	require.NoError(t, err)
	b, err := Signature(Payload{PolicyNews: sampleItems(2)})
	require.NoError(t, err)
	c, err := Signature(Payload{PolicyNews: sampleItems(3)})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
