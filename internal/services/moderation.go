package services

import (
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Default word list, mirroring the hosted scrubber's base dictionary.
// Extra terms come from the PROFANITY_WORDS env var (comma separated).
var defaultProfanity = []string{
	"ass", "asshole", "bastard", "bitch", "cock", "crap", "cunt",
	"dick", "douche", "fag", "fuck", "fucker", "fucking", "motherfucker",
	"nigger", "piss", "prick", "pussy", "shit", "slut", "twat", "whore",
}

type ModerationResult struct {
	IsClean           bool
	ContainsProfanity bool
	CleanedText       string
}

// Moderator screens user content against a word list. Markup is stripped
// first so tags cannot hide or smuggle terms.
type Moderator struct {
	words    map[string]struct{}
	stripper *bluemonday.Policy
}

func NewModerator() *Moderator {
	words := make(map[string]struct{}, len(defaultProfanity))
	for _, w := range defaultProfanity {
		words[w] = struct{}{}
	}
	for _, w := range strings.Split(os.Getenv("PROFANITY_WORDS"), ",") {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words[w] = struct{}{}
		}
	}

	return &Moderator{
		words:    words,
		stripper: bluemonday.StrictPolicy(),
	}
}

// Strip removes all HTML from user input.
func (m *Moderator) Strip(text string) string {
	return strings.TrimSpace(m.stripper.Sanitize(text))
}

// Check tokenizes the stripped text and flags any listed word. Matching is
// per token, case-insensitive, with surrounding punctuation ignored.
func (m *Moderator) Check(text string) ModerationResult {
	if text == "" {
		return ModerationResult{IsClean: false, CleanedText: ""}
	}

	stripped := m.Strip(text)
	tokens := strings.FieldsFunc(stripped, func(r rune) bool {
		return !isWordRune(r)
	})

	dirty := false
	cleaned := stripped
	for _, token := range tokens {
		if _, hit := m.words[strings.ToLower(token)]; hit {
			dirty = true
			cleaned = maskWord(cleaned, token)
		}
	}

	return ModerationResult{
		IsClean:           !dirty,
		ContainsProfanity: dirty,
		CleanedText:       cleaned,
	}
}

func isWordRune(r rune) bool {
	return r == '\'' || r == '-' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9') || r > 127
}

func maskWord(text, word string) string {
	return strings.ReplaceAll(text, word, strings.Repeat("*", len(word)))
}
