package rules

import (
	"strings"

	"github.com/mobilitydesk/policyfeed/news"
)

// Category cue lists. Checked in order; the first list with a hit decides.
var (
	studentVisaCues = []string{
		"graduate route", "post-study", "psw", "opt", "pgwp",
		"international student", "student visa",
	}
	workVisaCues = []string{
		"skilled", "work permit", "sponsor", "threshold", "work hours", "work rights",
	}
	exemptionCues = []string{"visa exemption", "visa-free"}
	residencyCues = []string{"permanent", "resident", "pr"}
)

func containsAny(blob string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(blob, p) {
			return true
		}
	}
	return false
}

// Categorize assigns exactly one category label to an accepted entry,
// first-match-wins over the fixed vocabulary. Entries matching nothing more
// specific fall through to the generic policy label.
func (c *Classifier) Categorize(title, summary string) string {
	blob := NormalizeBlob(title, summary)
	switch {
	case containsAny(blob, studentVisaCues):
		return news.CategoryStudentVisas
	case containsAny(blob, workVisaCues):
		return news.CategoryWorkVisas
	case containsAny(blob, exemptionCues):
		return news.CategoryVisaExemption
	case containsAny(blob, residencyCues):
		return news.CategoryResidency
	case c.rs.Policy.MatchesAny(blob) && c.rs.Edu.MatchesAny(blob):
		return news.CategoryEducationPolicy
	default:
		return news.CategoryPolicyUpdate
	}
}
