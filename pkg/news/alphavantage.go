package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const alphaVantageKeyName = "ALPHA_VANTAGE_API_KEY"

// avTopics maps free-form topics onto the fixed topic vocabulary of the
// NEWS_SENTIMENT endpoint.
var avTopics = map[string]string{
	"technology":  "technology",
	"tech":        "technology",
	"ai":          "technology",
	"crypto":      "blockchain",
	"blockchain":  "blockchain",
	"earnings":    "earnings",
	"ipo":         "ipo",
	"mergers":     "mergers_and_acquisitions",
	"markets":     "financial_markets",
	"economy":     "economy_macro",
	"energy":      "energy_transportation",
	"finance":     "finance",
	"health":      "life_sciences",
	"real estate": "real_estate",
	"retail":      "retail_wholesale",
}

type AlphaVantageClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewAlphaVantageClient(apiKey string, timeout time.Duration) *AlphaVantageClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &AlphaVantageClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *AlphaVantageClient) Name() string {
	return "alphavantage"
}

func (c *AlphaVantageClient) Search(ctx context.Context, topic string, limit int) ([]Article, error) {
	if c.apiKey == "" {
		return nil, &MissingCredentialError{Provider: c.Name(), Key: alphaVantageKeyName}
	}

	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("sort", "LATEST")
	q.Set("apikey", c.apiKey)

	avTopic, mapped := avTopics[strings.ToLower(strings.TrimSpace(topic))]
	if mapped {
		q.Set("topics", avTopic)
		q.Set("limit", strconv.Itoa(limit))
	} else {
		q.Set("limit", "200")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.alphavantage.co/query?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(c.Name(), resp)
	}

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}

	// The API reports quota and key problems with a 200 and a notice field.
	if len(raw.Feed) == 0 {
		if notice := raw.notice(); notice != "" {
			return nil, &HTTPError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: notice}
		}
	}

	articles := make([]Article, 0, limit)
	for _, item := range raw.Feed {
		if !mapped && !matchesTopic(topic, item.Title, item.Summary) {
			continue
		}

		publishedAt, err := time.Parse("20060102T150405", item.TimePublished)
		if err != nil {
			publishedAt = time.Time{}
		}

		articles = append(articles, withPublished(Article{
			Title:       item.Title,
			URL:         item.URL,
			Summary:     item.Summary,
			Publisher:   item.Source,
			PublishedAt: publishedAt,
			Topic:       topic,
		}))
		if len(articles) == limit {
			break
		}
	}

	return articles, nil
}

// matchesTopic reports whether every word of topic appears in the text.
func matchesTopic(topic string, text ...string) bool {
	haystack := strings.ToLower(strings.Join(text, " "))
	words := strings.Fields(strings.ToLower(topic))
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}

type avResponse struct {
	Feed        []avFeedItem `json:"feed"`
	Information string       `json:"Information"`
	Note        string       `json:"Note"`
	ErrorMsg    string       `json:"Error Message"`
}

func (r avResponse) notice() string {
	for _, s := range []string{r.ErrorMsg, r.Information, r.Note} {
		if s != "" {
			return s
		}
	}
	return ""
}

type avFeedItem struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	TimePublished string `json:"time_published"`
}
