package news

import (
	"context"
	"fmt"
	"time"
)

type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary"`
	Publisher   string    `json:"publisher,omitempty"`
	PublishedAt time.Time `json:"-"`
	Published   string    `json:"publishedDate,omitempty"`
	Topic       string    `json:"topic,omitempty"`
}

// Searcher finds recent articles about a topic.
type Searcher interface {
	Search(ctx context.Context, topic string, limit int) ([]Article, error)
	Name() string
}

// MissingCredentialError is returned before any network call when the
// provider's API key is not configured.
type MissingCredentialError struct {
	Provider string
	Key      string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("Missing %s: set it to enable %s news search", e.Key, e.Provider)
}

// HTTPError reports a non-2xx response from a news provider.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s search failed: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s search failed: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

const defaultTimeout = 20 * time.Second

func withPublished(a Article) Article {
	if !a.PublishedAt.IsZero() {
		a.Published = a.PublishedAt.UTC().Format(time.RFC3339)
	}
	return a
}
