package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFlagsListedWords(t *testing.T) {
	m := NewModerator()

	res := m.Check("what a load of shit")
	assert.False(t, res.IsClean)
	assert.True(t, res.ContainsProfanity)
	assert.Equal(t, "what a load of ****", res.CleanedText)
}

func TestCheckIsCaseInsensitiveAndIgnoresPunctuation(t *testing.T) {
	m := NewModerator()

	assert.False(t, m.Check("ShIt!").IsClean)
	assert.False(t, m.Check("well... FUCK.").IsClean)
}

func TestCheckPassesCleanText(t *testing.T) {
	m := NewModerator()

	res := m.Check("lovely view from this bridge")
	assert.True(t, res.IsClean)
	assert.False(t, res.ContainsProfanity)
	assert.Equal(t, "lovely view from this bridge", res.CleanedText)
}

func TestCheckDoesNotFlagSubstrings(t *testing.T) {
	m := NewModerator()

	// Token matching, not substring matching: "class" contains "ass".
	assert.True(t, m.Check("the class assembled by the passage").IsClean)
}

func TestCheckStripsHTMLFirst(t *testing.T) {
	m := NewModerator()

	res := m.Check("<b>sh</b>it happens")
	// Tags cannot split a word past the scrubber once markup is removed.
	assert.False(t, res.IsClean)
}

func TestCheckEmptyInputIsNotClean(t *testing.T) {
	m := NewModerator()

	res := m.Check("")
	assert.False(t, res.IsClean)
	assert.False(t, res.ContainsProfanity)
}

func TestExtraWordsFromEnv(t *testing.T) {
	t.Setenv("PROFANITY_WORDS", "Blargh, wibble")
	m := NewModerator()

	assert.False(t, m.Check("total blargh").IsClean)
	assert.False(t, m.Check("WIBBLE alert").IsClean)
	assert.True(t, m.Check("blarghs are fine").IsClean)
}

func TestStripRemovesMarkup(t *testing.T) {
	m := NewModerator()
	assert.Equal(t, "hello there", m.Strip("<script>x()</script>hello <i>there</i>"))
}
