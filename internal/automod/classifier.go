// Package automod screens chat messages for policy violations before they
// reach other users or the generation pipeline. It combines a profanity
// dictionary with a set of spam heuristics (all-caps, character flooding,
// mention flooding, suspicious links) and classifies each violation with a
// severity level.
package automod

import (
	"regexp"
	"strings"
	"unicode"
)

// Severity grades how serious a violation is.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Violation reason strings. Severity classification keys off substrings of
// these, so they must stay stable.
const (
	ReasonProfanity     = "Message contains inappropriate language."
	ReasonCapsSpam      = "Excessive use of capital letters (possible spam)."
	ReasonRepeatedChars = "Message contains excessive repeated characters (possible spam)."
	ReasonMentionSpam   = "Too many mentions in a single message (possible spam)."
	ReasonLinkSpam      = "Suspicious links detected (possible spam)."
)

// Verdict is the outcome of classifying one message.
type Verdict struct {
	Accepted bool
	Reason   string   // empty when accepted
	Severity Severity // SeverityNone when accepted
}

// Thresholds for the spam heuristics.
const (
	capsRatioThreshold = 0.7
	capsMinLength      = 10
	repeatThreshold    = 5
	mentionThreshold   = 4
	linkCountThreshold = 3
)

// Compiled once at package init and reused for every call, making them safe
// for concurrent use.
var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)

	// Common spam link patterns: URL shorteners and invite domains, scam
	// bait phrases, and "click here" next to a link.
	shortenerPattern = regexp.MustCompile(`(?i)(discord\.gg/|bit\.ly/|tinyurl\.com/)\S+`)
	freebiePattern   = regexp.MustCompile(`(?i)free\s+(nitro|gift|steam|robux)`)
	clickBaitPattern = regexp.MustCompile(`(?i)click\s+here.*http`)
)

// Classify checks a message for violations. Empty or whitespace-only
// messages are always accepted. The checks run in a fixed priority order and
// short-circuit on the first violation: profanity, all-caps, repeated
// characters, mention flooding, link spam. The order is load-bearing — a
// message can trip several heuristics and the first one determines the
// reason and severity.
func Classify(message string) Verdict {
	text := strings.TrimSpace(message)
	if text == "" {
		return Verdict{Accepted: true, Severity: SeverityNone}
	}

	if ContainsProfanity(text) {
		return reject(ReasonProfanity)
	}

	if len(text) > capsMinLength && capsRatio(text) >= capsRatioThreshold {
		return reject(ReasonCapsSpam)
	}

	if hasRepeatedChars(text) {
		return reject(ReasonRepeatedChars)
	}

	if len(mentionPattern.FindAllString(text, -1)) >= mentionThreshold {
		return reject(ReasonMentionSpam)
	}

	if hasLinkSpam(text) {
		return reject(ReasonLinkSpam)
	}

	return Verdict{Accepted: true, Severity: SeverityNone}
}

// SeverityFor classifies the severity of a violation from its reason string.
// Returns SeverityNone for an empty reason (accepted message).
func SeverityFor(reason string) Severity {
	if reason == "" {
		return SeverityNone
	}

	lower := strings.ToLower(reason)
	if strings.Contains(lower, "inappropriate language") {
		return SeverityHigh
	}
	if strings.Contains(lower, "suspicious links") {
		return SeverityHigh
	}
	if strings.Contains(lower, "spam") {
		return SeverityMedium
	}
	return SeverityLow
}

func reject(reason string) Verdict {
	return Verdict{Accepted: false, Reason: reason, Severity: SeverityFor(reason)}
}

// capsRatio returns the fraction of alphabetic characters that are uppercase.
// Returns 0 when the text contains no letters.
func capsRatio(text string) float64 {
	var letters, upper int
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// hasRepeatedChars reports whether any single character repeats 5 or more
// times consecutively ("heeeeelllo", "!!!!!"). Go's regexp package (RE2)
// does not support backreferences, so this is a linear scan.
func hasRepeatedChars(text string) bool {
	count := 1
	prev := rune(-1)
	for _, r := range text {
		if r == prev {
			count++
			if count >= repeatThreshold {
				return true
			}
		} else {
			count = 1
			prev = r
		}
	}
	return false
}

// hasLinkSpam reports whether the message matches any of the link spam
// patterns: three or more URLs, a known shortener/invite domain, a freebie
// scam phrase, or "click here" combined with a link.
func hasLinkSpam(text string) bool {
	if len(urlPattern.FindAllString(text, -1)) >= linkCountThreshold {
		return true
	}
	return shortenerPattern.MatchString(text) ||
		freebiePattern.MatchString(text) ||
		clickBaitPattern.MatchString(text)
}
