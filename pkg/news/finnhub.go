package news

import (
	"context"
	"fmt"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

const finnhubKeyName = "FINNHUB_API_KEY"

type FinnHubClient struct {
	apiKey string
	client *finnhub.DefaultApiService
}

func NewFinnHubClient(apiKey string) *FinnHubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	client := finnhub.NewAPIClient(cfg).DefaultApi
	return &FinnHubClient{apiKey: apiKey, client: client}
}

func (c *FinnHubClient) Name() string {
	return "finnhub"
}

// Search filters FinnHub's general market news by topic keywords; the API
// has no free-text query.
func (c *FinnHubClient) Search(ctx context.Context, topic string, limit int) ([]Article, error) {
	if c.apiKey == "" {
		return nil, &MissingCredentialError{Provider: c.Name(), Key: finnhubKeyName}
	}

	res, httpResp, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		if httpResp != nil && (httpResp.StatusCode < 200 || httpResp.StatusCode > 299) {
			return nil, &HTTPError{Provider: c.Name(), StatusCode: httpResp.StatusCode, Body: err.Error()}
		}
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}

	var articles []Article
	for _, news := range res {
		a := Article{Topic: topic}

		if news.Headline != nil {
			a.Title = *news.Headline
		}

		if news.Summary != nil {
			a.Summary = *news.Summary
		}

		if news.Url != nil {
			a.URL = *news.Url
		}

		if news.Datetime != nil {
			a.PublishedAt = time.Unix(*news.Datetime, 0)
		}

		if news.Source != nil {
			a.Publisher = *news.Source
		}

		if !matchesTopic(topic, a.Title, a.Summary) {
			continue
		}

		articles = append(articles, withPublished(a))
		if len(articles) == limit {
			break
		}
	}

	return articles, nil
}
