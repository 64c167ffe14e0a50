package automod

import (
	"strings"
	"unicode"
)

// defaultDictionary is the built-in profanity word list. Matching is
// word-level (a dictionary entry must match a whole token), so ordinary
// words that merely contain an entry ("class", "assess") are not flagged.
var defaultDictionary = []string{
	"anal", "arse", "arsehole", "ass", "asshole", "assholes",
	"bastard", "bastards", "bitch", "bitches", "bollocks", "bullshit",
	"cock", "cocksucker", "cunt", "cunts",
	"dick", "dickhead", "dildo", "douchebag",
	"faggot", "fuck", "fucked", "fucker", "fuckers", "fucking",
	"jackass", "jerkoff",
	"motherfucker", "motherfucking",
	"nigga", "nigger",
	"prick", "pussy",
	"retard", "retarded",
	"shit", "shithead", "shitty", "slut", "sluts",
	"twat", "wanker", "whore", "whores",
}

var dictionary = func() map[string]bool {
	m := make(map[string]bool, len(defaultDictionary))
	for _, w := range defaultDictionary {
		m[w] = true
	}
	return m
}()

// leetMap folds common character substitutions used to evade word filters
// ("sh1t", "f@ck") back to their plain letters.
var leetMap = map[rune]rune{
	'@': 'a', '4': 'a',
	'3': 'e',
	'1': 'i', '!': 'i',
	'0': 'o',
	'$': 's', '5': 's',
	'7': 't',
}

// ContainsProfanity reports whether any token of the text matches the
// profanity dictionary, either directly or after leetspeak normalization.
func ContainsProfanity(text string) bool {
	found := false
	scanTokens(text, func(_, _ int, token []rune) {
		if tokenIsProfane(token) {
			found = true
		}
	})
	return found
}

// Censor returns the message with every profane token replaced by a run of
// '*' of equal rune length. The output always has the same rune count as the
// input, so it can be displayed in place of the original. Censoring is
// independent of Classify: it may be applied to accepted and rejected text
// alike.
func Censor(message string) string {
	runes := []rune(message)
	scanTokens(message, func(start, end int, token []rune) {
		// Mask the token core, leaving surrounding punctuation intact.
		s, e, ok := profaneCore(token)
		if !ok {
			return
		}
		for i := start + s; i < start+e; i++ {
			runes[i] = '*'
		}
	})
	return string(runes)
}

// scanTokens calls fn for every whitespace-delimited token with its rune
// offsets [start, end) into the text.
func scanTokens(text string, fn func(start, end int, token []rune)) {
	runes := []rune(text)
	start := -1
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && !unicode.IsSpace(runes[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			fn(start, i, runes[start:i])
			start = -1
		}
	}
}

// tokenIsProfane reports whether the token contains a dictionary match.
func tokenIsProfane(token []rune) bool {
	_, _, ok := profaneCore(token)
	return ok
}

// profaneCore locates the dictionary match inside a token and returns its
// [s, e) rune range. The token is checked in three passes: whole (as-is and
// leet-normalized), after the leet-aware trim, and after a strict trim that
// also drops leading and trailing leet runes. The strict pass catches tokens
// like "fuck!" where '!' doubles as a leet letter: the first trim leaves the
// token whole and normalization then corrupts it to "fucki".
func profaneCore(token []rune) (int, int, bool) {
	lower := strings.ToLower(string(token))
	s, e := trimPunct(token)
	if dictionary[lower] || dictionary[deleet(lower)] {
		return s, e, true
	}

	if s != 0 || e != len(token) {
		core := strings.ToLower(string(token[s:e]))
		if dictionary[core] || dictionary[deleet(core)] {
			return s, e, true
		}
	}

	s2, e2 := trimStrict(token)
	if s2 != s || e2 != e {
		core := strings.ToLower(string(token[s2:e2]))
		if dictionary[core] || dictionary[deleet(core)] {
			return s2, e2, true
		}
	}

	return 0, 0, false
}

// trimPunct returns the [s, e) rune range of the token with leading and
// trailing non-alphanumeric runes excluded. Leet characters count as letters
// here so "b@dw0rd" keeps its full span.
func trimPunct(token []rune) (int, int) {
	isWordRune := func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		_, ok := leetMap[r]
		return ok
	}

	s, e := 0, len(token)
	for s < e && !isWordRune(token[s]) {
		s++
	}
	for e > s && !isWordRune(token[e-1]) {
		e--
	}
	return s, e
}

// trimStrict is trimPunct with leet runes treated as trimmable punctuation:
// only letters and digits count as word runes.
func trimStrict(token []rune) (int, int) {
	s, e := 0, len(token)
	for s < e && !unicode.IsLetter(token[s]) && !unicode.IsDigit(token[s]) {
		s++
	}
	for e > s && !unicode.IsLetter(token[e-1]) && !unicode.IsDigit(token[e-1]) {
		e--
	}
	return s, e
}

// deleet maps leetspeak substitutions back to plain letters.
func deleet(s string) string {
	return strings.Map(func(r rune) rune {
		if mapped, ok := leetMap[r]; ok {
			return mapped
		}
		return r
	}, s)
}
