package news

import (
	"fmt"
	"strings"
	"time"
)

type Options struct {
	ExaAPIKey          string
	ExaBaseURL         string
	FinnhubAPIKey      string
	AlphaVantageAPIKey string
	Timeout            time.Duration
}

// NewSearcher builds the searcher for the named provider. A missing key is
// not an error here; the searcher reports it on every Search call.
func NewSearcher(provider string, opts Options) (Searcher, error) {
	switch strings.ToLower(provider) {
	case "", "exa":
		return NewExaClient(opts.ExaAPIKey, opts.ExaBaseURL, opts.Timeout), nil
	case "finnhub":
		return NewFinnHubClient(opts.FinnhubAPIKey), nil
	case "alphavantage":
		return NewAlphaVantageClient(opts.AlphaVantageAPIKey, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown news provider %q", provider)
	}
}
