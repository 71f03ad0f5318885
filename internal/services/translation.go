package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"pindrop/internal/models"
)

// Translator renders text into a target language. A failed translation is
// not an error to the caller; the original text comes back unchanged.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) string
}

// MyMemoryTranslator calls the free MyMemory translation API.
type MyMemoryTranslator struct {
	email   string
	baseURL string
	client  *http.Client
}

func NewMyMemoryTranslator() *MyMemoryTranslator {
	baseURL := os.Getenv("MYMEMORY_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.mymemory.translated.net"
	}

	return &MyMemoryTranslator{
		email:   os.Getenv("MYMEMORY_EMAIL"),
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type myMemoryResponse struct {
	ResponseStatus int `json:"responseStatus"`
	ResponseData   struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

func (t *MyMemoryTranslator) Translate(ctx context.Context, text, targetLang string) string {
	if text == "" || targetLang == "" {
		return text
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", "auto|"+targetLang)
	if t.email != "" {
		q.Set("de", t.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return text
	}

	resp, err := t.client.Do(req)
	if err != nil {
		log.Printf("Translation request failed: %v", err)
		return text
	}
	defer resp.Body.Close()

	var data myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Printf("Translation response unreadable: %v", err)
		return text
	}
	if data.ResponseStatus != 200 || data.ResponseData.TranslatedText == "" {
		log.Printf("Translation API error: status %d", data.ResponseStatus)
		return text
	}
	return data.ResponseData.TranslatedText
}

// Localize resolves the display text for a comment in the requested
// language: cached translation first, live call on a miss. The result is
// never written back; the cache only grows through offline backfill.
func Localize(ctx context.Context, t Translator, content string, cache models.TranslationMap, lang string) string {
	if lang == "" {
		return content
	}
	if cached, ok := cache[lang]; ok && cached != "" {
		return cached
	}
	return t.Translate(ctx, content, lang)
}
