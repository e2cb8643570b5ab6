package rules

// Decision carries a classification verdict together with the name of the
// rule that produced it.
type Decision struct {
	Accepted bool
	Rule     string
}

// Classifier evaluates the layered relevance rules. It is a pure function of
// its ruleset: no I/O and no mutation after construction, so a single
// instance is safe for reuse across a run.
type Classifier struct {
	rs *Ruleset
}

// NewClassifier wraps a ruleset. A nil ruleset gets the built-in default.
func NewClassifier(rs *Ruleset) *Classifier {
	if rs == nil {
		rs = Default()
	}
	return &Classifier{rs: rs}
}

// Ruleset exposes the classifier's rules, mainly for the check command.
func (c *Classifier) Ruleset() *Ruleset {
	return c.rs
}

// Relevant reports whether an entry with the given raw title, summary, and
// link should be included.
func (c *Classifier) Relevant(title, summary, link string) bool {
	return c.Decide(NewDoc(title, summary, link)).Accepted
}

// Decide runs the rule layers in order: hard exclusions, then domain/path
// guards, then the inclusion paths, then per-source boosts, then explicit
// allowances. The first layer to produce a verdict wins; exclusions are
// never overridden by anything after them.
func (c *Classifier) Decide(d Doc) Decision {
	if c.rs.Excludes.MatchesAny(d.Blob) {
		return Decision{Accepted: false, Rule: c.rs.Excludes.Name}
	}

	for _, g := range c.rs.Guards {
		if g.Blocks(d) {
			return Decision{Accepted: false, Rule: g.Name}
		}
	}

	for _, p := range c.rs.Paths {
		if p.Matches(d) {
			return Decision{Accepted: true, Rule: p.Name}
		}
	}

	for _, b := range c.rs.Boosts {
		if b.Matches(d) {
			return Decision{Accepted: true, Rule: b.Name}
		}
	}

	for _, a := range c.rs.Allowances {
		if a.Matches(d) {
			return Decision{Accepted: true, Rule: a.Name}
		}
	}

	return Decision{Accepted: false, Rule: "no-path"}
}
