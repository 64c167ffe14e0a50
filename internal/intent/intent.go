// Package intent classifies free-form chat text into a coarse topic
// category used to pick the assistant's tone. Detection is a deterministic
// keyword count: no tokenization, no model calls, no state.
package intent

import (
	"regexp"
	"strings"
)

// Intent is one of the closed set of tone categories.
type Intent string

const (
	Study        Intent = "study"
	Coding       Intent = "coding"
	Professional Intent = "professional"
	Casual       Intent = "casual"
	General      Intent = "general"
)

// Keyword lists are matched as substrings of the lowercased message, not as
// tokens. Some entries are multi-word phrases ("difference between") that
// only work with substring semantics, so this must not be changed to
// word-boundary matching.
var studyKeywords = []string{
	"explain", "what is", "define", "difference between", "how does",
	"formula", "theorem", "equation", "concept", "theory", "homework",
	"assignment", "exam", "study", "learn", "chapter", "subject",
	"biology", "physics", "chemistry", "math", "history", "geography",
}

var codingKeywords = []string{
	"code", "function", "error", "bug", "debug", "python", "java",
	"javascript", "html", "css", "react", "node", "api", "database",
	"sql", "algorithm", "loop", "array", "class", "object", "syntax",
	"compile", "runtime", "import", "library", "framework", "git",
	"deploy", "server", "frontend", "backend", "stack",
}

var professionalKeywords = []string{
	"meeting", "deadline", "report", "proposal", "client", "project",
	"budget", "strategy", "presentation", "quarterly", "stakeholder",
	"business", "enterprise", "corporate", "management", "kpi",
	"performance review", "agenda", "professional",
}

// Casual tone indicators: informal greetings and laughter, repeated
// exclamation or question marks, and a small emoji set.
var casualPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(lol|haha|lmao|bruh|bro|dude|yo|sup|hey|hi|hello)\b`),
	regexp.MustCompile(`[!?]{2,}`),
	regexp.MustCompile(`(😂|😎|🔥|💀|🤣|😁|👋)`),
}

// Detect classifies the message. The category with the strictly highest
// keyword count wins; ties break in fixed order coding, study, professional
// (first maximum wins). When no keyword matches at all, the casual patterns
// decide between Casual and General.
func Detect(message string) Intent {
	msg := strings.ToLower(message)

	scores := []struct {
		intent Intent
		score  int
	}{
		{Coding, countKeywords(msg, codingKeywords)},
		{Study, countKeywords(msg, studyKeywords)},
		{Professional, countKeywords(msg, professionalKeywords)},
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.score > best.score {
			best = s
		}
	}
	if best.score >= 1 {
		return best.intent
	}

	for _, p := range casualPatterns {
		if p.MatchString(msg) {
			return Casual
		}
	}
	return General
}

func countKeywords(msg string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			n++
		}
	}
	return n
}
