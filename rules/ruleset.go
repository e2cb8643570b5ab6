package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Predicate is a boolean test over a normalized document.
type Predicate func(Doc) bool

// Path is one named inclusion rule: a conjunction of lexicon membership
// tests. An item is accepted when any path matches.
type Path struct {
	Name     string
	Requires []*Lexicon
}

// Matches reports whether the blob contains at least one phrase from every
// required lexicon.
func (p Path) Matches(d Doc) bool {
	for _, lex := range p.Requires {
		if !lex.MatchesAny(d.Blob) {
			return false
		}
	}
	return len(p.Requires) > 0
}

// Guard restricts a known host to or away from URL path sections. A guard
// that would block an item first consults its override predicate, which lets
// items with a stronger combined content signal through.
type Guard struct {
	Name string
	// Host is matched by substring containment against the document host.
	Host string
	// ExcludePrefixes block the item when the URL path starts with any of
	// them.
	ExcludePrefixes []string
	// RequireSegments block the item unless the URL path contains at least
	// one of them.
	RequireSegments []string
	Override        Predicate
}

// Blocks reports whether the guard rejects the document.
func (g Guard) Blocks(d Doc) bool {
	if g.Host == "" || !strings.Contains(d.Host, g.Host) {
		return false
	}

	blocked := false
	for _, prefix := range g.ExcludePrefixes {
		if strings.HasPrefix(d.Path, prefix) {
			blocked = true
			break
		}
	}
	if !blocked && len(g.RequireSegments) > 0 {
		found := false
		for _, seg := range g.RequireSegments {
			if strings.Contains(d.Path, seg) {
				found = true
				break
			}
		}
		blocked = !found
	}
	if !blocked {
		return false
	}

	return g.Override == nil || !g.Override(d)
}

// Boost is a relaxed acceptance rule for a named source, evaluated only
// after every main path has failed.
type Boost struct {
	Name string
	Host string
	// PathContains, when set, additionally requires the URL path to contain
	// this segment.
	PathContains string
	Accept       Predicate
}

// Matches reports whether the boost accepts the document.
func (b Boost) Matches(d Doc) bool {
	if b.Host == "" || !strings.Contains(d.Host, b.Host) {
		return false
	}
	if b.PathContains != "" && !strings.Contains(d.Path, b.PathContains) {
		return false
	}
	return b.Accept != nil && b.Accept(d)
}

// Allowance forces acceptance when a specific host carries any of a fixed
// phrase list, regardless of paths and boosts. Exclusions still run first.
type Allowance struct {
	Name    string
	Host    string
	Phrases *Lexicon
}

// Matches reports whether the allowance accepts the document.
func (a Allowance) Matches(d Doc) bool {
	if a.Host != "" && !strings.Contains(d.Host, a.Host) {
		return false
	}
	return a.Phrases.MatchesAny(d.Blob)
}

// Ruleset bundles the lexicons with the guard, path, boost, and allowance
// rules built over them.
type Ruleset struct {
	Core     *Lexicon
	Actions  *Lexicon
	Mobility *Lexicon
	Edu      *Lexicon
	Policy   *Lexicon
	Excludes *Lexicon

	Guards     []Guard
	Paths      []Path
	Boosts     []Boost
	Allowances []Allowance
}

// Default returns the built-in ruleset: the stock vocabulary plus the
// gov.uk, SCMP, and The Hindu guards, inclusion paths A-C, the PIE
// government and SCMP/Korea Herald boosts, and the SCMP talent-visa
// allowance.
func Default() *Ruleset {
	rs := &Ruleset{
		Core:     NewLexicon("core_topics", defaultCoreTopics...),
		Actions:  NewLexicon("action_cues", defaultActionCues...),
		Mobility: NewLexicon("mobility_cues", defaultMobilityCues...),
		Edu:      NewLexicon("edu_terms", defaultEduTerms...),
		Policy:   NewLexicon("policy_terms", defaultPolicyTerms...),
		Excludes: NewLexicon("excludes", defaultExcludes...),
	}
	rs.build()
	return rs
}

// build derives guards, paths, boosts, and allowances from the lexicons.
// Called after the lexicons are set, including after a YAML override.
func (rs *Ruleset) build() {
	strongSignal := func(d Doc) bool {
		return rs.Core.MatchesAny(d.Blob) &&
			(rs.Actions.MatchesAny(d.Blob) || rs.Policy.MatchesAny(d.Blob))
	}

	rs.Guards = []Guard{
		{
			Name: "scmp-sections",
			Host: "scmp.com",
			ExcludePrefixes: []string{
				"/news/hong-kong/hong-kong-economy/",
				"/tech/",
				"/magazines/style/entertainment/",
			},
			Override: strongSignal,
		},
		{
			Name:            "hindu-k12",
			Host:            "thehindu.com",
			ExcludePrefixes: []string{"/education/schools/"},
			Override: func(d Doc) bool {
				return rs.Core.MatchesAny(d.Blob) && rs.Mobility.MatchesAny(d.Blob)
			},
		},
		{
			Name: "govuk-immigration",
			Host: "gov.uk",
			RequireSegments: []string{
				"/visas-immigration", "/uk-visas-and-immigration", "/immigration",
			},
			Override: func(d Doc) bool {
				return rs.Policy.MatchesAny(d.Blob) &&
					rs.Edu.MatchesAny(d.Blob) &&
					rs.Mobility.MatchesAny(d.Blob)
			},
		},
	}

	rs.Paths = []Path{
		{Name: "mobility-change", Requires: []*Lexicon{rs.Core, rs.Actions, rs.Mobility}},
		{Name: "policy-immigration", Requires: []*Lexicon{rs.Policy, rs.Core}},
		{Name: "policy-edu-mobility", Requires: []*Lexicon{rs.Policy, rs.Edu, rs.Mobility}},
	}

	relaxed := func(d Doc) bool {
		return (strings.Contains(d.Blob, "visa") || rs.Mobility.MatchesAny(d.Blob)) &&
			(rs.Actions.MatchesAny(d.Blob) || rs.Policy.MatchesAny(d.Blob))
	}

	rs.Boosts = []Boost{
		{
			Name:         "pie-government",
			Host:         "thepienews.com",
			PathContains: "/category/news/government",
			Accept: func(d Doc) bool {
				return rs.Policy.MatchesAny(d.Blob) &&
					(rs.Core.MatchesAny(d.Blob) || rs.Mobility.MatchesAny(d.Blob))
			},
		},
		{Name: "scmp-relaxed", Host: "scmp.com", Accept: relaxed},
		{Name: "koreaherald-relaxed", Host: "koreaherald.com", Accept: relaxed},
	}

	rs.Allowances = []Allowance{
		{
			Name:    "scmp-talent-visa",
			Host:    "scmp.com",
			Phrases: NewLexicon("scmp_visa_phrases", scmpVisaPhrases...),
		},
	}
}

// rulesFile mirrors the YAML ruleset override document. Only lexicons are
// data; the rule wiring over them stays in code.
type rulesFile struct {
	Lexicons struct {
		CoreTopics   []string `yaml:"core_topics"`
		ActionCues   []string `yaml:"action_cues"`
		MobilityCues []string `yaml:"mobility_cues"`
		EduTerms     []string `yaml:"edu_terms"`
		PolicyTerms  []string `yaml:"policy_terms"`
		Excludes     []string `yaml:"excludes"`
	} `yaml:"lexicons"`
}

// Load reads a YAML ruleset file and returns a ruleset using its lexicons.
// Lexicons absent from the file keep their built-in phrase lists.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	pick := func(name string, override, fallback []string) *Lexicon {
		if len(override) > 0 {
			return NewLexicon(name, override...)
		}
		return NewLexicon(name, fallback...)
	}

	rs := &Ruleset{
		Core:     pick("core_topics", rf.Lexicons.CoreTopics, defaultCoreTopics),
		Actions:  pick("action_cues", rf.Lexicons.ActionCues, defaultActionCues),
		Mobility: pick("mobility_cues", rf.Lexicons.MobilityCues, defaultMobilityCues),
		Edu:      pick("edu_terms", rf.Lexicons.EduTerms, defaultEduTerms),
		Policy:   pick("policy_terms", rf.Lexicons.PolicyTerms, defaultPolicyTerms),
		Excludes: pick("excludes", rf.Lexicons.Excludes, defaultExcludes),
	}
	rs.build()
	return rs, nil
}
