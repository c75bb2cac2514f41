package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultExaBaseURL = "https://api.exa.ai"
	exaKeyName        = "EXA_API_KEY"
	maxErrorBody      = 2048
	maxTextFallback   = 400
)

type ExaClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewExaClient(apiKey, baseURL string, timeout time.Duration) *ExaClient {
	if baseURL == "" {
		baseURL = DefaultExaBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ExaClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ExaClient) Name() string {
	return "exa"
}

func (c *ExaClient) Search(ctx context.Context, topic string, limit int) ([]Article, error) {
	if c.apiKey == "" {
		return nil, &MissingCredentialError{Provider: c.Name(), Key: exaKeyName}
	}

	body, err := json.Marshal(exaRequest{
		Query:      fmt.Sprintf("latest news about %s", topic),
		NumResults: limit,
		Category:   "news",
		Text:       true,
		Summary:    exaSummaryOptions{Query: "Summarize the article in 3 bullet points"},
	})
	if err != nil {
		return nil, fmt.Errorf("exa encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("exa request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(c.Name(), resp)
	}

	var raw exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("exa decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Results))
	for _, item := range raw.Results {
		publishedAt, err := time.Parse(time.RFC3339, item.PublishedDate)
		if err != nil {
			publishedAt = time.Time{}
		}

		summary := strings.TrimSpace(item.Summary)
		if summary == "" {
			summary = truncate(strings.TrimSpace(item.Text), maxTextFallback)
		}

		articles = append(articles, withPublished(Article{
			Title:       item.Title,
			URL:         item.URL,
			Summary:     summary,
			Publisher:   item.Author,
			PublishedAt: publishedAt,
			Topic:       topic,
		}))
		if len(articles) == limit {
			break
		}
	}

	return articles, nil
}

func newHTTPError(provider string, resp *http.Response) *HTTPError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(data)),
	}
}

// truncate keeps at most max runes of s.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

type exaRequest struct {
	Query      string            `json:"query"`
	NumResults int               `json:"numResults"`
	Category   string            `json:"category,omitempty"`
	Text       bool              `json:"text"`
	Summary    exaSummaryOptions `json:"summary"`
}

type exaSummaryOptions struct {
	Query string `json:"query"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
	Author        string `json:"author"`
	Summary       string `json:"summary"`
	Text          string `json:"text"`
}
