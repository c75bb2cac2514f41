package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	localModelName    = "local-heuristic"
	defaultSnippetLen = 280
	noSummary         = "No summary available"
)

// LocalSummarizer builds a summary from the articles' own snippets without
// calling any model. It never fails.
type LocalSummarizer struct {
	MaxSnippet int
}

func (s LocalSummarizer) Summarize(_ context.Context, req SummaryRequest) (*SummaryResult, error) {
	return &SummaryResult{Text: s.Text(req), ModelUsed: localModelName}, nil
}

func (s LocalSummarizer) Text(req SummaryRequest) string {
	if len(req.Items) == 0 {
		return "No articles found."
	}

	max := s.MaxSnippet
	if max <= 0 {
		max = defaultSnippetLen
	}

	paragraph := strings.Contains(strings.ToLower(req.Format), "paragraph")

	parts := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		snippet := strings.Join(strings.Fields(it.Summary), " ")
		if snippet == "" {
			snippet = noSummary
		}
		snippet = truncate(snippet, max)

		title := strings.TrimSpace(it.Title)
		if title == "" {
			title = "Untitled"
		}

		line := fmt.Sprintf("%s: %s", title, snippet)
		if it.URL != "" {
			line = fmt.Sprintf("%s (%s)", line, it.URL)
		}

		if paragraph {
			parts = append(parts, line)
		} else {
			parts = append(parts, "- "+line)
		}
	}

	if paragraph {
		return strings.Join(parts, " ")
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
