package triage

import (
	"fmt"
	"strings"

	"symptom-checker/internal/knowledge"
)

const (
	refusalReply = "I apologize, but I'm specifically trained to help with abdominal pain in adults. " +
		"I can provide information about causes, symptoms, when to seek medical attention, " +
		"and home remedies related to abdominal pain. Please ask me about abdominal pain or related symptoms."

	apologyReply = "I'm sorry, something went wrong on my side while processing that. Please try asking again."

	disclaimerFooter = "Note: I share general information about abdominal pain in adults and don't replace a clinician."

	maxFlagLines   = 5
	maxRemedyLines = 4
)

// Static templated lists served by the direct-knowledge shortcut.
var (
	causesTemplate = []string{
		"Abdominal pain in adults can be caused by various factors including:",
		"• Indigestion or heartburn",
		"• Food poisoning",
		"• Stomach flu (gastroenteritis)",
		"• Irritable bowel syndrome (IBS)",
		"• Constipation",
		"• Gas and bloating",
		"• Appendicitis",
		"• Gallstones",
		"• Kidney stones",
		"• Ulcers",
		"• Inflammatory bowel disease (IBD)",
	}
	symptomsTemplate = []string{
		"Common symptoms associated with abdominal pain include:",
		"• Cramping or sharp pain",
		"• Nausea and vomiting",
		"• Loss of appetite",
		"• Fever",
		"• Diarrhea or constipation",
		"• Bloating",
		"• Heartburn",
		"• Pain that radiates to other areas",
	}
	seekHelpTemplate = []string{
		"Seek immediate medical attention if you experience:",
		"• Severe, sudden abdominal pain",
		"• Pain with fever",
		"• Pain with vomiting blood",
		"• Pain with black, tarry stools",
		"• Pain that lasts more than 24 hours",
		"• Pain that gets worse over time",
		"• Pain with difficulty breathing",
		"• Pain with chest pressure",
	}
	remediesTemplate = []string{
		"For mild abdominal pain, you can try:",
		"• Rest and avoid strenuous activity",
		"• Apply a heating pad to the area",
		"• Drink clear fluids (water, broth)",
		"• Eat bland foods (rice, toast, bananas)",
		"• Avoid spicy, fatty, or acidic foods",
		"• Take over-the-counter pain relievers if appropriate",
		"• Practice relaxation techniques",
	}
)

// directLookups are checked in strict priority order: causes beat symptoms
// beat emergency advice beat home remedies.
var directLookups = []struct {
	keywords []string
	lines    []string
}{
	{[]string{"cause", "causes", "why", "reason"}, causesTemplate},
	{[]string{"symptom", "symptoms", "sign", "signs"}, symptomsTemplate},
	{[]string{"emergency", "urgent", "hospital", "doctor", "medical attention"}, seekHelpTemplate},
	{[]string{"home", "remedy", "treatment", "cure", "help"}, remediesTemplate},
}

// directLookup returns the templated list for a direct knowledge question,
// or false when the message should go through case analysis instead.
func directLookup(lower string) (string, bool) {
	for _, l := range directLookups {
		for _, k := range l.keywords {
			if strings.Contains(lower, k) {
				return strings.Join(l.lines, "\n"), true
			}
		}
	}
	return "", false
}

// ComposeAnalysis assembles the triage reply. The block order is a
// contract: likely causes, then the safety gate (urgent care or self-care),
// then the follow-up prompt, then the disclaimer.
func ComposeAnalysis(c CaseState, summary string, ranked []RankedCause, redFlags []string, remedies []knowledge.HomeRemedy) string {
	var blocks []string

	head := []string{fmt.Sprintf(
		"Thanks for the details. From what you've shared (%s), here are the most likely possibilities based on my training data:",
		summary)}
	if len(ranked) > 0 {
		for _, rc := range ranked {
			head = append(head, fmt.Sprintf("• %s: %s", rc.Cause.Condition, rc.Cause.Description))
		}
	} else {
		head = append(head, "• I need a bit more detail (location, severity, associated symptoms) to narrow causes.")
	}
	blocks = append(blocks, strings.Join(head, "\n"))

	if len(redFlags) > 0 {
		urgent := []string{"Based on red-flag symptoms, I recommend urgent medical attention:"}
		for i, f := range redFlags {
			if i == maxFlagLines {
				break
			}
			urgent = append(urgent, "• "+f)
		}
		blocks = append(blocks, strings.Join(urgent, "\n"))
	} else if len(remedies) > 0 {
		care := []string{"Self-care that may help for mild symptoms:"}
		for i, r := range remedies {
			if i == maxRemedyLines {
				break
			}
			care = append(care, fmt.Sprintf("• %s: %s", r.Remedy, r.Description))
		}
		blocks = append(blocks, strings.Join(care, "\n"))
	}

	var need []string
	if c.Location == "" {
		need = append(need, "where exactly the pain is located")
	}
	if c.Severity == "" {
		need = append(need, "how severe it feels (mild, moderate, severe)")
	}
	if c.Onset == "" && c.Duration == "" {
		need = append(need, "when it started and for how long")
	}
	if len(need) > 0 {
		blocks = append(blocks, "To improve accuracy, please tell me "+strings.Join(need, ", ")+".")
	}

	blocks = append(blocks, disclaimerFooter)
	return strings.Join(blocks, "\n\n")
}
