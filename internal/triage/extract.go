package triage

import (
	"regexp"
	"strings"
)

var (
	onsetTodayPattern     = regexp.MustCompile(`\b(today|this\s+morning|this\s+evening|now|just|since)\b`)
	onsetYesterdayPattern = regexp.MustCompile(`\b(yesterday|last\s+night)\b`)
	durationPattern       = regexp.MustCompile(`\b(\d+|one|two|three|four|five)\s*(hour|hours|day|days)\b`)
)

// locationRules map synonym sets to the seven canonical locations. They are
// evaluated in this order and the first hit wins, so at most one location
// comes out of a message.
var locationRules = []struct {
	label    string
	patterns []string
}{
	{"upper right", []string{"upper right", "right upper", "ruq"}},
	{"upper left", []string{"upper left", "left upper", "luq"}},
	{"lower right", []string{"lower right", "right lower", "rlq"}},
	{"lower left", []string{"lower left", "left lower", "llq"}},
	{"upper abdomen", []string{"upper abdomen", "upper stomach"}},
	{"lower abdomen", []string{"lower abdomen", "lower stomach"}},
	{"whole abdomen", []string{"whole abdomen", "entire abdomen", "all over", "whole stomach"}},
}

// severityRules are evaluated in order, first hit wins. Note that "mild"
// masks a co-occurring "severe" mention; this mirrors the shipped behavior
// and is pinned by tests, pending product review.
var severityRules = []struct {
	value    string
	patterns []string
}{
	{SeverityMild, []string{"mild"}},
	{SeverityModerate, []string{"moderate"}},
	{SeveritySevere, []string{"severe", "worst"}},
}

// associatedSymptomTerms is the fixed extraction vocabulary; only terms the
// knowledge base was built around are collected.
var associatedSymptomTerms = []string{
	"nausea", "vomiting", "diarrhea", "constipation", "fever", "bloating",
	"heartburn", "gas", "loss of appetite", "back pain", "shoulder pain",
}

// ExtractFacts pulls structured symptom facts out of a free-text message.
// Each rule chain is independent; absent fields stay empty.
func ExtractFacts(message string) Facts {
	text := strings.ToLower(message)
	var f Facts

	// Onset: "yesterday" takes precedence when both patterns match.
	if onsetTodayPattern.MatchString(text) {
		f.Onset = OnsetToday
	}
	if onsetYesterdayPattern.MatchString(text) {
		f.Onset = OnsetYesterday
	}
	f.Duration = durationPattern.FindString(text)

	for _, rule := range locationRules {
		if containsAny(text, rule.patterns) {
			f.Location = rule.label
			break
		}
	}

	for _, rule := range severityRules {
		if containsAny(text, rule.patterns) {
			f.Severity = rule.value
			break
		}
	}

	for _, term := range associatedSymptomTerms {
		if strings.Contains(text, term) {
			f.AssociatedSymptoms = append(f.AssociatedSymptoms, term)
		}
	}
	// A bare "vomit" still counts as vomiting, and inflections like
	// "nauseous" still count as nausea.
	if strings.Contains(text, "vomit") && !containsString(f.AssociatedSymptoms, "vomiting") {
		f.AssociatedSymptoms = append(f.AssociatedSymptoms, "vomiting")
	}
	if strings.Contains(text, "nause") && !containsString(f.AssociatedSymptoms, "nausea") {
		f.AssociatedSymptoms = append(f.AssociatedSymptoms, "nausea")
	}

	return f
}

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
