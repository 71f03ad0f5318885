package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"pindrop/internal/models"
)

func newTestTranslator(t *testing.T, handler http.HandlerFunc) *MyMemoryTranslator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("MYMEMORY_BASE_URL", srv.URL)
	return NewMyMemoryTranslator()
}

func TestTranslateSuccess(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "bonjour", r.URL.Query().Get("q"))
		assert.Equal(t, "auto|en", r.URL.Query().Get("langpair"))
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"hello"}}`))
	})

	got := tr.Translate(context.Background(), "bonjour", "en")
	assert.Equal(t, "hello", got)
}

func TestTranslateAPIErrorReturnsOriginal(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseStatus":403,"responseData":{"translatedText":""}}`))
	})

	assert.Equal(t, "bonjour", tr.Translate(context.Background(), "bonjour", "en"))
}

func TestTranslateBadJSONReturnsOriginal(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	assert.Equal(t, "bonjour", tr.Translate(context.Background(), "bonjour", "en"))
}

func TestTranslateNetworkFailureReturnsOriginal(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {})
	// Point at a closed port.
	tr.baseURL = "http://127.0.0.1:1"

	assert.Equal(t, "bonjour", tr.Translate(context.Background(), "bonjour", "en"))
}

func TestTranslateSkipsEmptyInput(t *testing.T) {
	called := false
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	assert.Equal(t, "", tr.Translate(context.Background(), "", "en"))
	assert.Equal(t, "hola", tr.Translate(context.Background(), "hola", ""))
	assert.False(t, called)
}

func TestLocalizePrefersCache(t *testing.T) {
	called := false
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	cache := models.TranslationMap{"fr": "salut"}

	got := Localize(context.Background(), tr, "hi", cache, "fr")
	assert.Equal(t, "salut", got)
	assert.False(t, called)
}

func TestLocalizeFallsThroughOnCacheMiss(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"hallo"}}`))
	})

	got := Localize(context.Background(), tr, "hi", models.TranslationMap{"fr": "salut"}, "de")
	assert.Equal(t, "hallo", got)
}

func TestLocalizeNoLanguageReturnsContent(t *testing.T) {
	got := Localize(context.Background(), nil, "hi", nil, "")
	assert.Equal(t, "hi", got)
}
