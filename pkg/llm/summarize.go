package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	DefaultTone        = "neutral"
	DefaultFormat      = "bullet points"
	DefaultLanguage    = "English"
	DefaultInteraction = "concise"
)

type SummaryItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Summary       string `json:"summary"`
	PublishedDate string `json:"publishedDate,omitempty"`
}

type SummaryRequest struct {
	Items       []SummaryItem
	Tone        string
	Format      string
	Language    string
	Interaction string
}

// WithDefaults fills empty stylistic fields with the house defaults.
func (r SummaryRequest) WithDefaults() SummaryRequest {
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	if r.Interaction == "" {
		r.Interaction = DefaultInteraction
	}
	return r
}

type SummaryResult struct {
	Text      string
	ModelUsed string
}

type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (*SummaryResult, error)
}

func summaryPrompt(req SummaryRequest) string {
	return fmt.Sprintf(`You are a helpful assistant summarizing news articles.
Tone: %s. Interaction style: %s. Format: %s. Language: %s.
Summarize the following news items with citations to their URLs. Keep it factual and recent.
Respond with the summary only.`, req.Tone, req.Interaction, req.Format, req.Language)
}

func formatItems(items []SummaryItem) string {
	data, err := json.Marshal(items)
	if err != nil {
		var sb strings.Builder
		for i, it := range items {
			sb.WriteString(fmt.Sprintf("%d. %s (%s)\n%s\n\n", i+1, it.Title, it.URL, it.Summary))
		}
		return sb.String()
	}
	return string(data)
}

// trimCodeFence strips a markdown fence some models wrap plain answers in.
func trimCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if nl := strings.Index(content, "\n"); nl >= 0 && !strings.Contains(content[:nl], " ") {
		content = content[nl+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
