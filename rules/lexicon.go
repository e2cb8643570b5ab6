// Package rules implements the relevance rules engine: lexicons of phrases,
// per-source guards and boosts, and the multi-path classifier that decides
// whether a feed entry concerns visa or immigration policy affecting
// international students.
package rules

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Lexicon is a named set of phrases matched against a normalized blob by
// case-insensitive substring containment. Matching is intentionally
// word-boundary-blind: the vocabulary is multi-word phrases and hyphenated
// terms where boundary rules would miss real variants.
type Lexicon struct {
	Name    string
	Phrases []string

	matcher *ahocorasick.Matcher
}

// NewLexicon builds a lexicon from the given phrases. Phrases are lowercased
// and trimmed; empties are dropped. The phrase set is compiled into an
// Aho-Corasick automaton so a membership test is a single pass over the blob.
func NewLexicon(name string, phrases ...string) *Lexicon {
	cleaned := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}

	l := &Lexicon{Name: name, Phrases: cleaned}
	if len(cleaned) > 0 {
		l.matcher = ahocorasick.NewStringMatcher(cleaned)
	}
	return l
}

// MatchesAny reports whether the blob contains at least one phrase from the
// lexicon. The blob must already be lowercased.
func (l *Lexicon) MatchesAny(blob string) bool {
	if l == nil || l.matcher == nil {
		return false
	}
	return l.matcher.Contains([]byte(blob))
}

// Hits returns the phrases found in the blob, in lexicon order. Used by the
// check command to explain a verdict.
func (l *Lexicon) Hits(blob string) []string {
	if l == nil || l.matcher == nil {
		return nil
	}
	idx := l.matcher.MatchThreadSafe([]byte(blob))
	if len(idx) == 0 {
		return nil
	}
	hits := make([]string, 0, len(idx))
	for _, i := range idx {
		hits = append(hits, l.Phrases[i])
	}
	return hits
}
