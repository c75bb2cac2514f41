package news

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-playground/assert/v2"
)

func TestExaSearch(t *testing.T) {
	var gotKey string
	var gotBody exaRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{
					"title":         "New Model Released",
					"url":           "https://example.com/model",
					"publishedDate": "2026-10-18T09:30:00Z",
					"author":        "Jane Doe",
					"summary":       "A lab shipped a new model.",
				},
				{
					"title": "Chip Supply Update",
					"url":   "https://example.com/chips",
					"text":  strings.Repeat("x", 500),
				},
				{
					"title": "Third result beyond limit",
					"url":   "https://example.com/third",
				},
			},
		})
	}))
	defer srv.Close()

	client := NewExaClient("test-key", srv.URL, time.Second)

	articles, err := client.Search(context.Background(), "ai", 2)

	assert.Equal(t, nil, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "latest news about ai", gotBody.Query)
	assert.Equal(t, 2, gotBody.NumResults)
	assert.Equal(t, 2, len(articles))

	a := articles[0]
	assert.Equal(t, "New Model Released", a.Title)
	assert.Equal(t, "https://example.com/model", a.URL)
	assert.Equal(t, "A lab shipped a new model.", a.Summary)
	assert.Equal(t, "Jane Doe", a.Publisher)
	assert.Equal(t, "ai", a.Topic)
	assert.Equal(t, "2026-10-18T09:30:00Z", a.Published)

	assert.Equal(t, maxTextFallback+3, len(articles[1].Summary))
}

func TestExaSearchMissingKey(t *testing.T) {
	client := NewExaClient("", "http://127.0.0.1:1", time.Second)

	_, err := client.Search(context.Background(), "ai", 5)

	var missing *MissingCredentialError
	assert.Equal(t, true, errors.As(err, &missing))
	assert.Equal(t, "EXA_API_KEY", missing.Key)
	assert.Equal(t, true, strings.Contains(err.Error(), "EXA_API_KEY"))
}

func TestExaSearchProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	client := NewExaClient("bad-key", srv.URL, time.Second)

	_, err := client.Search(context.Background(), "ai", 5)

	var httpErr *HTTPError
	assert.Equal(t, true, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, `exa search failed: status 401: {"error":"invalid api key"}`, err.Error())
}

func TestExaSearchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewExaClient("test-key", srv.URL, 20*time.Millisecond)

	_, err := client.Search(context.Background(), "ai", 5)

	assert.NotEqual(t, nil, err)
}

func TestNewSearcher(t *testing.T) {
	s, err := NewSearcher("", Options{})
	assert.Equal(t, nil, err)
	assert.Equal(t, "exa", s.Name())

	s, err = NewSearcher("FinnHub", Options{})
	assert.Equal(t, nil, err)
	assert.Equal(t, "finnhub", s.Name())

	_, err = NewSearcher("bing", Options{})
	assert.NotEqual(t, nil, err)
}

func TestFinnHubSearchMissingKey(t *testing.T) {
	_, err := NewFinnHubClient("").Search(context.Background(), "ai", 5)

	var missing *MissingCredentialError
	assert.Equal(t, true, errors.As(err, &missing))
	assert.Equal(t, "FINNHUB_API_KEY", missing.Key)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("é", 10)

	got := truncate(s, 4)

	assert.Equal(t, "éééé...", got)
	assert.Equal(t, true, utf8.ValidString(got))
	assert.Equal(t, "short", truncate("short", 10))
}
