package knowledge

// Cause is one candidate explanation for abdominal pain, with the free-text
// description and symptom list the ranker embeds.
type Cause struct {
	Condition   string   `json:"condition"`
	Description string   `json:"description"`
	Symptoms    []string `json:"symptoms"`
}

type HomeRemedy struct {
	Remedy      string `json:"remedy"`
	Description string `json:"description"`
}

// Base is the rich knowledge document. It is loaded once at startup and
// read-only afterwards.
type Base struct {
	Symptom           string       `json:"symptom"`
	Overview          string       `json:"overview,omitempty"`
	Causes            []Cause      `json:"causes"`
	EmergencySymptoms []string     `json:"emergency_symptoms"`
	HomeRemedies      []HomeRemedy `json:"home_remedies"`
	PreventionTips    []string     `json:"prevention_tips"`
	WhenToSeeDoctor   []string     `json:"when_to_see_doctor"`
}

// KeywordIndex is the compact keyword document: flat term lists used for
// quick scope checks, not for ranking.
type KeywordIndex struct {
	Symptom            string   `json:"symptom"`
	Causes             []string `json:"causes"`
	Symptoms           []string `json:"symptoms"`
	SeverityIndicators []string `json:"severity_indicators"`
}

// Terms returns every term in the index as a single flat list.
func (k *KeywordIndex) Terms() []string {
	out := make([]string, 0, len(k.Causes)+len(k.Symptoms)+len(k.SeverityIndicators))
	out = append(out, k.Causes...)
	out = append(out, k.Symptoms...)
	out = append(out, k.SeverityIndicators...)
	return out
}
