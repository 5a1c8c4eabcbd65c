package knowledge

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	// DataFile is the rich document with cause descriptions, emergency
	// symptoms, remedies and advice lists.
	DataFile = "abdominal_pain_data.json"
	// KeywordFile is the compact document with flat term lists.
	KeywordFile = "abdominal_pain_knowledge.json"
)

// Load reads both knowledge documents from dir. A missing or malformed
// document is replaced by the built-in fallback; Load never fails, it only
// degrades.
func Load(dir string, log *zap.Logger) (*Base, *KeywordIndex) {
	base := &Base{}
	if !loadJSON(filepath.Join(dir, DataFile), base, log) {
		base = fallbackBase()
	}
	kw := &KeywordIndex{}
	if !loadJSON(filepath.Join(dir, KeywordFile), kw, log) {
		kw = fallbackKeywords()
	}
	return base, kw
}

func loadJSON(path string, dst any, log *zap.Logger) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("knowledge document unavailable, using fallback",
			zap.String("path", path), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn("knowledge document malformed, using fallback",
			zap.String("path", path), zap.Error(err))
		return false
	}
	return true
}

// fallbackBase is the minimal structure used when the rich document is
// missing: ranking and remedy sections degrade to empty, nothing errors.
func fallbackBase() *Base {
	return &Base{
		Symptom:           "abdominal pain in adults",
		Causes:            []Cause{},
		EmergencySymptoms: []string{},
		HomeRemedies:      []HomeRemedy{},
		PreventionTips:    []string{},
		WhenToSeeDoctor:   []string{},
	}
}

func fallbackKeywords() *KeywordIndex {
	return &KeywordIndex{
		Symptom: "abdominal pain in adults",
		Causes: []string{
			"indigestion", "heartburn", "food poisoning", "stomach flu",
			"gastroenteritis", "ibs", "irritable bowel syndrome", "constipation",
			"gas", "bloating", "appendicitis", "gallstones", "kidney stones",
			"ulcers", "inflammatory bowel disease", "ibd",
		},
		Symptoms: []string{
			"cramping", "sharp pain", "nausea", "vomiting", "loss of appetite",
			"fever", "diarrhea", "constipation", "bloating", "heartburn",
		},
		SeverityIndicators: []string{
			"severe pain", "sudden pain", "fever", "vomiting blood",
			"black stools", "difficulty breathing", "chest pressure",
		},
	}
}
