// Package store persists the published payload and per-feed fetch state.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mobilitydesk/policyfeed/news"
)

// Payload is the document shape the static site consumes.
type Payload struct {
	PolicyNews []news.Item `json:"policyNews"`
}

// Index describes a paginated output set.
type Index struct {
	Pages       int    `json:"pages"`
	PageSize    int    `json:"pageSize"`
	TotalItems  int    `json:"totalItems"`
	GeneratedAt string `json:"generatedAt"`
}

// WriteResult reports what a write pass did.
type WriteResult struct {
	FilesWritten      int
	FilesUnchanged    int
	PreservedExisting bool
}

// Writer persists payload pages, skipping any file whose content hash
// already matches what is on disk.
type Writer struct {
	// Path is the first page's location; later pages insert ".pN" before the
	// extension.
	Path     string
	PageSize int
	MaxPages int
	logger   *zap.Logger
}

// NewWriter builds a writer. PageSize and MaxPages of one produce the
// classic single-file output with no index.
func NewWriter(path string, pageSize, maxPages int, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if maxPages < 1 {
		maxPages = 1
	}
	return &Writer{Path: path, PageSize: pageSize, MaxPages: maxPages, logger: logger}
}

// Signature hashes a payload after deterministic serialization. Struct
// field order fixes the key order, so equal payloads always hash equal.
func Signature(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// existingSignature hashes the file at path the same way Signature hashes a
// fresh payload. A missing or unreadable file yields an empty signature.
func existingSignature(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return ""
	}
	sig, err := Signature(p)
	if err != nil {
		return ""
	}
	return sig
}

// pagePath returns the on-disk path for a page number.
func (w *Writer) pagePath(page int) string {
	if page <= 1 {
		return w.Path
	}
	ext := filepath.Ext(w.Path)
	base := strings.TrimSuffix(w.Path, ext)
	return fmt.Sprintf("%s.p%d%s", base, page, ext)
}

// indexPath returns the location of the pagination index.
func (w *Writer) indexPath() string {
	ext := filepath.Ext(w.Path)
	base := strings.TrimSuffix(w.Path, ext)
	return base + ".index" + ext
}

// Write persists items across pages. An empty item list preserves an
// existing first page untouched; an empty scaffold is written only when no
// output exists at all. The index file is refreshed only when some page
// actually changed.
func (w *Writer) Write(items []news.Item, generatedAt time.Time) (WriteResult, error) {
	var res WriteResult

	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return res, fmt.Errorf("failed to create output directory: %w", err)
	}

	if len(items) == 0 {
		if _, err := os.Stat(w.Path); err == nil {
			w.logger.Warn("no relevant items, keeping existing output", zap.String("path", w.Path))
			res.PreservedExisting = true
			return res, nil
		}
		if err := w.writePage(w.Path, Payload{PolicyNews: []news.Item{}}); err != nil {
			return res, err
		}
		w.logger.Info("no items, wrote empty scaffold", zap.String("path", w.Path))
		res.FilesWritten = 1
		return res, nil
	}

	pages := w.paginate(items)
	for i, pageItems := range pages {
		path := w.pagePath(i + 1)
		payload := Payload{PolicyNews: pageItems}

		newSig, err := Signature(payload)
		if err != nil {
			return res, err
		}
		if newSig == existingSignature(path) {
			w.logger.Debug("page unchanged, skipping write", zap.String("path", path))
			res.FilesUnchanged++
			continue
		}
		if err := w.writePage(path, payload); err != nil {
			return res, err
		}
		w.logger.Info("wrote page",
			zap.String("path", path),
			zap.Int("items", len(pageItems)))
		res.FilesWritten++
	}

	if w.MaxPages > 1 && res.FilesWritten > 0 {
		idx := Index{
			Pages:       len(pages),
			PageSize:    w.PageSize,
			TotalItems:  len(items),
			GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.writeJSON(w.indexPath(), idx); err != nil {
			return res, err
		}
		res.FilesWritten++
	}

	return res, nil
}

// paginate splits items into at most MaxPages pages of PageSize. Overflow
// beyond the last page is dropped; the dedupe cap upstream normally keeps
// the list inside one page anyway.
func (w *Writer) paginate(items []news.Item) [][]news.Item {
	var pages [][]news.Item
	for start := 0; start < len(items) && len(pages) < w.MaxPages; start += w.PageSize {
		end := start + w.PageSize
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[start:end])
	}
	return pages
}

func (w *Writer) writePage(path string, p Payload) error {
	return w.writeJSON(path, p)
}

func (w *Writer) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
