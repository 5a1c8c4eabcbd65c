package triage

import (
	"regexp"
	"strings"
)

var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(hi|hello|hey|good morning|good afternoon|good evening)\b`),
	regexp.MustCompile(`\bhow are you\b`),
	regexp.MustCompile(`\bwhat's up\b`),
	regexp.MustCompile(`\bhow's it going\b`),
}

// isGreeting reports whether the message is small talk rather than a
// symptom description.
func isGreeting(message string) bool {
	lower := strings.ToLower(message)
	for _, p := range greetingPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}

// greetingReplies are returned verbatim; one is picked at random per
// greeting turn.
var greetingReplies = []string{
	"Hello! I'm your symptom checker assistant. I'm here to help you understand abdominal pain and related symptoms. How can I assist you today?",
	"Hi there! I'm a medical AI assistant specializing in abdominal pain. I can help answer your questions about symptoms, causes, and when to seek medical attention. What would you like to know?",
	"Hello! I'm here to help you with questions about abdominal pain in adults. I can provide information about causes, symptoms, and treatment options. How may I help you?",
}
