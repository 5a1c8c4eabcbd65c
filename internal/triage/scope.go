package triage

import (
	"strings"

	"symptom-checker/internal/knowledge"
)

// scopeTriggers is the narrow keyword set that flips the sticky scope bit
// for the rest of the session.
var scopeTriggers = []string{"abdominal", "stomach", "belly", "gut", "pain"}

// coreScopeVocabulary is the broader vocabulary that lets a single message
// qualify as in scope before the session is established.
var coreScopeVocabulary = []string{
	"abdominal", "stomach", "belly", "gut", "pain", "ache", "cramp",
	"indigestion", "heartburn", "nausea", "vomiting", "diarrhea",
	"constipation", "bloating", "gas", "appendicitis", "ulcer",
}

// ScopeGate decides whether a message belongs to the abdominal-pain topic.
// The sticky in-scope decision itself lives on the Session; the gate is
// stateless and shared across sessions.
type ScopeGate struct {
	vocab []string
}

// NewScopeGate builds the gate vocabulary from the core terms extended by
// the compact keyword document, lowercased and deduplicated.
func NewScopeGate(kw *knowledge.KeywordIndex) *ScopeGate {
	seen := make(map[string]struct{})
	var vocab []string
	add := func(terms []string) {
		for _, t := range terms {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			vocab = append(vocab, t)
		}
	}
	add(coreScopeVocabulary)
	if kw != nil {
		add(kw.Terms())
	}
	return &ScopeGate{vocab: vocab}
}

// Triggered reports whether the lowercased message contains a narrow
// trigger term and should set the sticky bit.
func (g *ScopeGate) Triggered(lower string) bool {
	for _, k := range scopeTriggers {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// InScope reports whether the lowercased message may be analyzed: either
// the session is already established or the message itself matches the
// broad vocabulary.
func (g *ScopeGate) InScope(lower string, sticky bool) bool {
	if sticky {
		return true
	}
	for _, k := range g.vocab {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
