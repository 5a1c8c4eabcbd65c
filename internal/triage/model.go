package triage

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Case field values used by the extractor rule tables.
const (
	OnsetToday     = "today"
	OnsetYesterday = "yesterday"

	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// SymptomSet is an unordered set of associated-symptom terms. It only ever
// grows for the life of a session.
type SymptomSet map[string]struct{}

func (s SymptomSet) Add(term string) { s[term] = struct{}{} }

func (s SymptomSet) Has(term string) bool {
	_, ok := s[term]
	return ok
}

// Sorted returns the terms in lexical order for stable rendering.
func (s SymptomSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for term := range s {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

func (s SymptomSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *SymptomSet) UnmarshalJSON(b []byte) error {
	var terms []string
	if err := json.Unmarshal(b, &terms); err != nil {
		return err
	}
	*s = make(SymptomSet, len(terms))
	for _, t := range terms {
		(*s)[t] = struct{}{}
	}
	return nil
}

// CaseState accumulates what is known about the patient's complaint.
// Scalar fields are last-write-wins across turns; the symptom set is
// strictly additive.
type CaseState struct {
	Onset              string     `json:"onset,omitempty"`
	Duration           string     `json:"duration,omitempty"`
	Location           string     `json:"location,omitempty"`
	Severity           string     `json:"severity,omitempty"`
	AssociatedSymptoms SymptomSet `json:"associated_symptoms"`
}

func NewCaseState() CaseState {
	return CaseState{AssociatedSymptoms: SymptomSet{}}
}

// Facts is the per-message output of the extractor. Empty fields mean the
// message said nothing about them.
type Facts struct {
	Onset              string
	Duration           string
	Location           string
	Severity           string
	AssociatedSymptoms []string
}

// Merge applies extracted facts to the case: present scalars overwrite,
// symptoms are unioned in.
func (c *CaseState) Merge(f Facts) {
	if f.Onset != "" {
		c.Onset = f.Onset
	}
	if f.Duration != "" {
		c.Duration = f.Duration
	}
	if f.Location != "" {
		c.Location = f.Location
	}
	if f.Severity != "" {
		c.Severity = f.Severity
	}
	if c.AssociatedSymptoms == nil {
		c.AssociatedSymptoms = SymptomSet{}
	}
	for _, term := range f.AssociatedSymptoms {
		c.AssociatedSymptoms.Add(term)
	}
}

// Summary renders the canonical case text used for both red-flag checks and
// embedding-based ranking. With nothing known it is the bare complaint.
func (c *CaseState) Summary() string {
	var parts []string
	if c.Onset != "" {
		parts = append(parts, "onset "+c.Onset)
	}
	if c.Duration != "" {
		parts = append(parts, "duration "+c.Duration)
	}
	if c.Location != "" {
		parts = append(parts, "location "+c.Location)
	}
	if c.Severity != "" {
		parts = append(parts, "severity "+c.Severity)
	}
	if len(c.AssociatedSymptoms) > 0 {
		parts = append(parts, "symptoms "+strings.Join(c.AssociatedSymptoms.Sorted(), ", "))
	}
	if len(parts) == 0 {
		return "abdominal pain"
	}
	return strings.Join(parts, "; ")
}

func (c *CaseState) clone() CaseState {
	out := *c
	out.AssociatedSymptoms = make(SymptomSet, len(c.AssociatedSymptoms))
	for term := range c.AssociatedSymptoms {
		out.AssociatedSymptoms[term] = struct{}{}
	}
	return out
}

// Turn is one user message and the bot reply it produced.
type Turn struct {
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the aggregate root for one conversation: the sticky scope bit,
// the accumulated case and the append-only history.
type Session struct {
	ID        uuid.UUID `json:"id"`
	InScope   bool      `json:"in_scope"`
	Case      CaseState `json:"case"`
	History   []Turn    `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSession() *Session {
	return &Session{
		ID:   uuid.New(),
		Case: NewCaseState(),
	}
}

func (s *Session) clone() *Session {
	out := *s
	out.Case = s.Case.clone()
	out.History = append([]Turn(nil), s.History...)
	return &out
}
