package triage

import (
	"regexp"
	"strings"
)

var flagClauseSplit = regexp.MustCompile(`[,:;]`)

// DetectRedFlags screens the accumulated case for safety-critical findings.
// Each emergency phrase from the knowledge base is split into clauses and
// every clause is tested as a substring of the case summary; a hit flags
// the whole phrase. Three explicit rules run on top. The result is
// deduplicated preserving first-seen order; non-empty output routes the
// reply into the urgent-care branch.
func DetectRedFlags(c CaseState, message string, emergencySymptoms []string) []string {
	summary := strings.ToLower(c.Summary())
	lowerMsg := strings.ToLower(message)

	var flags []string
	for _, phrase := range emergencySymptoms {
		phrase = strings.ToLower(phrase)
		for _, clause := range flagClauseSplit.Split(phrase, -1) {
			clause = strings.TrimSpace(clause)
			if clause != "" && strings.Contains(summary, clause) {
				flags = append(flags, phrase)
				break
			}
		}
	}

	if c.Severity == SeveritySevere {
		flags = append(flags, "Severe abdominal pain")
	}
	if c.AssociatedSymptoms.Has("fever") {
		flags = append(flags, "Pain with fever")
	}
	if c.AssociatedSymptoms.Has("vomiting") && strings.Contains(lowerMsg, "blood") {
		flags = append(flags, "Vomiting blood")
	}

	seen := make(map[string]struct{}, len(flags))
	out := flags[:0]
	for _, f := range flags {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
