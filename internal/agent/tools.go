package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/metrics"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/llm"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/news"
)

const (
	ToolNewsFetch       = "exa_news_fetch"
	ToolSummarize       = "summarize_news"
	ToolSavePreferences = "save_preferences"

	DefaultNewsCount = 5
	maxNewsCount     = 10
)

// toolHandler is the uniform tool contract: decoded arguments in, a JSON
// encodable payload out. Returned errors become {"error": ...} content.
type toolHandler func(ctx context.Context, args json.RawMessage, prefs *model.Preferences) (any, error)

type DispatcherOptions struct {
	// Summarizer is the model-backed summarizer; nil means no model credential.
	Summarizer   llm.Summarizer
	DefaultCount int
	Timeout      time.Duration
	Metrics      *metrics.Metrics
}

type Dispatcher struct {
	news         news.Searcher
	summarizer   llm.Summarizer
	local        llm.LocalSummarizer
	defaultCount int
	timeout      time.Duration
	metrics      *metrics.Metrics
	handlers     map[string]toolHandler
}

func NewDispatcher(searcher news.Searcher, opts DispatcherOptions) *Dispatcher {
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = DefaultNewsCount
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}

	d := &Dispatcher{
		news:         searcher,
		summarizer:   opts.Summarizer,
		defaultCount: clampCount(opts.DefaultCount),
		timeout:      opts.Timeout,
		metrics:      opts.Metrics,
	}
	d.handlers = map[string]toolHandler{
		ToolNewsFetch:       d.fetchNews,
		ToolSummarize:       d.summarizeNews,
		ToolSavePreferences: d.savePreferences,
	}
	return d
}

// Dispatch runs one tool call. It never fails: every problem is reported in
// the result content so the model can react to it.
func (d *Dispatcher) Dispatch(ctx context.Context, call model.ToolCall, prefs *model.Preferences) model.ToolResult {
	result := model.ToolResult{ToolCallID: call.ID, ToolName: call.Name}

	handler, ok := d.handlers[call.Name]
	if !ok {
		slog.Warn("model requested unknown tool", "tool", call.Name, "tool_call_id", call.ID)
		d.metrics.ObserveToolCall("unknown", true)
		result.Content = errorContent("Unknown tool " + call.Name)
		return result
	}

	args := json.RawMessage(strings.TrimSpace(call.Arguments))
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	start := time.Now()
	payload, err := handler(ctx, args, prefs)
	d.metrics.ObserveToolCall(call.Name, err != nil)

	if err != nil {
		slog.Warn("tool call failed", "tool", call.Name, "tool_call_id", call.ID, "error", err, "duration", time.Since(start))
		result.Content = errorContent(err.Error())
		return result
	}

	slog.Info("tool call complete", "tool", call.Name, "tool_call_id", call.ID, "duration", time.Since(start))

	data, err := json.Marshal(payload)
	if err != nil {
		result.Content = errorContent(fmt.Sprintf("encode %s result: %v", call.Name, err))
		return result
	}
	result.Content = string(data)
	return result
}

// Definitions returns the JSON schemas advertised to the model.
func (d *Dispatcher) Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name:        ToolNewsFetch,
			Description: "Fetch latest news articles for one or more topics using the news search API",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic":       map[string]any{"type": "string"},
					"topics":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"num_results": map[string]any{"type": "integer", "minimum": 1, "maximum": maxNewsCount},
				},
			},
		},
		{
			Name:        ToolSummarize,
			Description: "Summarize a list of news items, respecting the user's preferences",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"items": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"title":         map[string]any{"type": []string{"string", "null"}},
								"url":           map[string]any{"type": []string{"string", "null"}},
								"summary":       map[string]any{"type": []string{"string", "null"}},
								"publishedDate": map[string]any{"type": []string{"string", "null"}},
							},
							"additionalProperties": true,
						},
					},
					"tone":        map[string]any{"type": "string"},
					"format":      map[string]any{"type": "string"},
					"language":    map[string]any{"type": "string"},
					"interaction": map[string]any{"type": "string"},
				},
				"required": []string{"items"},
			},
		},
		{
			Name:        ToolSavePreferences,
			Description: "Save user preferences (tone, format, language, interaction, topics).",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tone":        map[string]any{"type": "string"},
					"format":      map[string]any{"type": "string"},
					"language":    map[string]any{"type": "string"},
					"interaction": map[string]any{"type": "string"},
					"topics": map[string]any{
						"anyOf": []any{
							map[string]any{"type": "string"},
							map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						},
					},
				},
				"additionalProperties": false,
			},
		},
	}
}

type newsFetchArgs struct {
	Topic      string          `json:"topic"`
	Topics     model.TopicList `json:"topics"`
	NumResults *int            `json:"num_results"`
	Count      *int            `json:"count"`
}

type newsFetchResult struct {
	Results []news.Article `json:"results"`
	Errors  []string       `json:"errors,omitempty"`
}

func (d *Dispatcher) fetchNews(ctx context.Context, raw json.RawMessage, prefs *model.Preferences) (any, error) {
	var args newsFetchArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", ToolNewsFetch, err)
	}

	topics := []string(args.Topics)
	if t := strings.TrimSpace(args.Topic); t != "" {
		topics = append([]string{t}, topics...)
	}
	if len(topics) == 0 {
		topics = prefs.Topics
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("no topic given and no preferred topics saved")
	}

	count := d.defaultCount
	if args.NumResults != nil {
		count = *args.NumResults
	} else if args.Count != nil {
		count = *args.Count
	}
	count = clampCount(count)

	res := newsFetchResult{Results: []news.Article{}}
	var firstErr error
	for _, topic := range topics {
		articles, err := d.searchTopic(ctx, topic, count)
		if err != nil {
			var missing *news.MissingCredentialError
			if errors.As(err, &missing) {
				return nil, err
			}
			if firstErr == nil {
				firstErr = err
			}
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", topic, err))
			continue
		}
		res.Results = append(res.Results, articles...)
	}

	if len(res.Results) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return res, nil
}

// searchTopic runs one bounded search and truncates the result to count.
func (d *Dispatcher) searchTopic(ctx context.Context, topic string, count int) ([]news.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	articles, err := d.news.Search(ctx, topic, count)
	if err != nil {
		return nil, err
	}
	if len(articles) > count {
		articles = articles[:count]
	}
	return articles, nil
}

type summarizeArgs struct {
	Items       []llm.SummaryItem `json:"items"`
	Tone        string            `json:"tone"`
	Format      string            `json:"format"`
	FormatAlt   string            `json:"format_"`
	Language    string            `json:"language"`
	Interaction string            `json:"interaction"`
	Style       string            `json:"style"`
}

type summarizeResult struct {
	Summary string `json:"summary"`
	Model   string `json:"model,omitempty"`
	Warning string `json:"warning,omitempty"`
}

func (d *Dispatcher) summarizeNews(ctx context.Context, raw json.RawMessage, prefs *model.Preferences) (any, error) {
	var args summarizeArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", ToolSummarize, err)
	}

	req := llm.SummaryRequest{
		Items:       args.Items,
		Tone:        firstNonEmpty(args.Tone, prefs.Tone),
		Format:      firstNonEmpty(args.Format, args.FormatAlt, prefs.Format),
		Language:    firstNonEmpty(args.Language, prefs.Language),
		Interaction: firstNonEmpty(args.Interaction, args.Style, prefs.Interaction),
	}.WithDefaults()

	return d.summarize(ctx, req), nil
}

// summarize prefers the model summarizer and falls back to the local one.
func (d *Dispatcher) summarize(ctx context.Context, req llm.SummaryRequest) summarizeResult {
	if d.summarizer == nil || len(req.Items) == 0 {
		return d.summarizeLocally(ctx, req, "")
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	res, err := d.summarizer.Summarize(callCtx, req)
	if err != nil {
		slog.Warn("model summarizer failed, using local summary", "error", err)
		return d.summarizeLocally(ctx, req, err.Error())
	}
	return summarizeResult{Summary: res.Text, Model: res.ModelUsed}
}

func (d *Dispatcher) summarizeLocally(ctx context.Context, req llm.SummaryRequest, warning string) summarizeResult {
	res, _ := d.local.Summarize(ctx, req)
	return summarizeResult{Summary: res.Text, Model: res.ModelUsed, Warning: warning}
}

// TopicDigest is the summary of one topic produced by Digest.
type TopicDigest struct {
	Topic    string
	Articles int
	Summary  string
	Model    string
	Warning  string
	Err      error
}

// Digest fetches and summarizes every preferred topic without the chat model,
// running the same search and summarize steps the tools expose.
func (d *Dispatcher) Digest(ctx context.Context, prefs model.Preferences) []TopicDigest {
	out := make([]TopicDigest, 0, len(prefs.Topics))
	for _, topic := range prefs.Topics {
		articles, err := d.searchTopic(ctx, topic, d.defaultCount)
		if err != nil {
			out = append(out, TopicDigest{Topic: topic, Err: err})
			continue
		}

		res := d.summarize(ctx, llm.SummaryRequest{
			Items:       articlesToItems(articles),
			Tone:        prefs.Tone,
			Format:      prefs.Format,
			Language:    prefs.Language,
			Interaction: prefs.Interaction,
		}.WithDefaults())

		out = append(out, TopicDigest{
			Topic:    topic,
			Articles: len(articles),
			Summary:  res.Summary,
			Model:    res.Model,
			Warning:  res.Warning,
		})
	}
	return out
}

type savePreferencesResult struct {
	OK          bool              `json:"ok"`
	Preferences model.Preferences `json:"preferences"`
}

func (d *Dispatcher) savePreferences(_ context.Context, raw json.RawMessage, prefs *model.Preferences) (any, error) {
	var partial model.Preferences
	if err := json.Unmarshal(raw, &partial); err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", ToolSavePreferences, err)
	}

	partial.Tone = strings.TrimSpace(partial.Tone)
	partial.Format = strings.TrimSpace(partial.Format)
	partial.Language = strings.TrimSpace(partial.Language)
	partial.Interaction = strings.TrimSpace(partial.Interaction)

	prefs.Merge(partial)
	return savePreferencesResult{OK: true, Preferences: prefs.Clone()}, nil
}

func errorContent(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}

func clampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxNewsCount {
		return maxNewsCount
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func articlesToItems(articles []news.Article) []llm.SummaryItem {
	items := make([]llm.SummaryItem, len(articles))
	for i, a := range articles {
		items[i] = llm.SummaryItem{
			Title:         a.Title,
			URL:           a.URL,
			Summary:       a.Summary,
			PublishedDate: a.Published,
		}
	}
	return items
}
