package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/news"
	"github.com/go-playground/assert/v2"
)

func decodeContent(t *testing.T, content string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		t.Fatalf("tool content is not JSON: %v: %s", err, content)
	}
	return out
}

func TestDispatchFetchNews(t *testing.T) {
	searcher := &fakeSearcher{articles: sampleArticles()}
	d := NewDispatcher(searcher, DispatcherOptions{})
	prefs := model.Preferences{}

	res := d.Dispatch(context.Background(), model.ToolCall{
		ID:        "call_1",
		Name:      ToolNewsFetch,
		Arguments: `{"topic":"ai","num_results":1}`,
	}, &prefs)

	assert.Equal(t, "call_1", res.ToolCallID)
	assert.Equal(t, ToolNewsFetch, res.ToolName)

	var payload newsFetchResult
	assert.Equal(t, nil, json.Unmarshal([]byte(res.Content), &payload))
	assert.Equal(t, 1, len(payload.Results))
	assert.Equal(t, "Model Launch", payload.Results[0].Title)
}

func TestDispatchFetchNewsDefaultsToPreferredTopics(t *testing.T) {
	searcher := &fakeSearcher{articles: sampleArticles()}
	d := NewDispatcher(searcher, DispatcherOptions{})
	prefs := model.Preferences{Topics: model.TopicList{"ai", "sports"}}

	res := d.Dispatch(context.Background(), model.ToolCall{ID: "call_1", Name: ToolNewsFetch}, &prefs)

	var payload newsFetchResult
	assert.Equal(t, nil, json.Unmarshal([]byte(res.Content), &payload))
	assert.Equal(t, []string{"ai", "sports"}, searcher.topics)
	assert.Equal(t, 3, len(payload.Results))
}

func TestDispatchFetchNewsMissingKey(t *testing.T) {
	d := NewDispatcher(news.NewExaClient("", "", 0), DispatcherOptions{})
	prefs := model.Preferences{}

	res := d.Dispatch(context.Background(), model.ToolCall{
		ID:        "call_1",
		Name:      ToolNewsFetch,
		Arguments: `{"topics":["ai","sports"]}`,
	}, &prefs)

	content := decodeContent(t, res.Content)
	assert.Equal(t, true, strings.Contains(content["error"].(string), "EXA_API_KEY"))
}

func TestDispatchFetchNewsProviderError(t *testing.T) {
	searcher := &fakeSearcher{err: &news.HTTPError{Provider: "exa", StatusCode: 503, Body: "unavailable"}}
	d := NewDispatcher(searcher, DispatcherOptions{})
	prefs := model.Preferences{}

	res := d.Dispatch(context.Background(), model.ToolCall{ID: "call_1", Name: ToolNewsFetch, Arguments: `{"topic":"ai"}`}, &prefs)

	content := decodeContent(t, res.Content)
	assert.Equal(t, "exa search failed: status 503: unavailable", content["error"])
}

func TestDispatchFetchNewsWithoutTopic(t *testing.T) {
	d := NewDispatcher(&fakeSearcher{}, DispatcherOptions{})
	prefs := model.Preferences{}

	res := d.Dispatch(context.Background(), model.ToolCall{ID: "call_1", Name: ToolNewsFetch, Arguments: `{}`}, &prefs)

	content := decodeContent(t, res.Content)
	assert.NotEqual(t, nil, content["error"])
}

func TestDispatchSummarizeUsesModelWithPreferenceDefaults(t *testing.T) {
	summarizer := &fakeSummarizer{text: "All quiet."}
	d := NewDispatcher(&fakeSearcher{}, DispatcherOptions{Summarizer: summarizer})
	prefs := model.Preferences{Tone: "formal", Language: "Spanish"}

	res := d.Dispatch(context.Background(), model.ToolCall{
		ID:        "call_1",
		Name:      ToolSummarize,
		Arguments: `{"items":[{"title":"A","url":"https://example.com/a","summary":"x"}],"style":"detailed"}`,
	}, &prefs)

	content := decodeContent(t, res.Content)
	assert.Equal(t, "All quiet.", content["summary"])
	assert.Equal(t, 1, len(summarizer.got))

	req := summarizer.got[0]
	assert.Equal(t, "formal", req.Tone)
	assert.Equal(t, "Spanish", req.Language)
	assert.Equal(t, "detailed", req.Interaction)
	assert.Equal(t, "bullet points", req.Format)
}

func TestDispatchSummarizeFallsBackLocally(t *testing.T) {
	summarizer := &fakeSummarizer{err: errors.New("OpenAI error 500: boom")}
	d := NewDispatcher(&fakeSearcher{}, DispatcherOptions{Summarizer: summarizer})
	prefs := model.Preferences{}

	res := d.Dispatch(context.Background(), model.ToolCall{
		ID:        "call_1",
		Name:      ToolSummarize,
		Arguments: `{"items":[{"title":"A","summary":"first"}]}`,
	}, &prefs)

	content := decodeContent(t, res.Content)
	assert.Equal(t, "- A: first", content["summary"])
	assert.Equal(t, "OpenAI error 500: boom", content["warning"])
}

func TestDispatchSummarizeWithoutModel(t *testing.T) {
	d := NewDispatcher(&fakeSearcher{}, DispatcherOptions{})
	prefs := model.Preferences{}

	res := d.Dispatch(context.Background(), model.ToolCall{
		ID:        "call_1",
		Name:      ToolSummarize,
		Arguments: `{"items":[{"title":"A"}]}`,
	}, &prefs)

	content := decodeContent(t, res.Content)
	assert.Equal(t, "- A: No summary available", content["summary"])
	assert.Equal(t, nil, content["warning"])
}

func TestDispatchSavePreferences(t *testing.T) {
	d := NewDispatcher(&fakeSearcher{}, DispatcherOptions{})
	prefs := model.Preferences{Tone: "formal", Language: "English"}

	res := d.Dispatch(context.Background(), model.ToolCall{
		ID:        "call_1",
		Name:      ToolSavePreferences,
		Arguments: `{"tone":"casual","topics":"technology, ai"}`,
	}, &prefs)

	assert.Equal(t, "casual", prefs.Tone)
	assert.Equal(t, "English", prefs.Language)
	assert.Equal(t, model.TopicList{"technology", "ai"}, prefs.Topics)

	var payload savePreferencesResult
	assert.Equal(t, nil, json.Unmarshal([]byte(res.Content), &payload))
	assert.Equal(t, true, payload.OK)
	assert.Equal(t, prefs, payload.Preferences)
}

func TestDispatchReadOnlyToolsKeepPreferences(t *testing.T) {
	d := NewDispatcher(&fakeSearcher{articles: sampleArticles()}, DispatcherOptions{})
	prefs := completePrefs()
	before := prefs.Clone()

	d.Dispatch(context.Background(), model.ToolCall{ID: "1", Name: ToolNewsFetch, Arguments: `{"topic":"ai"}`}, &prefs)
	d.Dispatch(context.Background(), model.ToolCall{ID: "2", Name: ToolSummarize, Arguments: `{"items":[]}`}, &prefs)

	assert.Equal(t, before, prefs)
}

func TestDispatchUnknownToolAndBadArguments(t *testing.T) {
	d := NewDispatcher(&fakeSearcher{}, DispatcherOptions{})
	prefs := model.Preferences{}

	res := d.Dispatch(context.Background(), model.ToolCall{ID: "1", Name: "delete_everything"}, &prefs)
	assert.Equal(t, `{"error":"Unknown tool delete_everything"}`, res.Content)

	res = d.Dispatch(context.Background(), model.ToolCall{ID: "2", Name: ToolSavePreferences, Arguments: `{"tone":`}, &prefs)
	content := decodeContent(t, res.Content)
	assert.Equal(t, true, strings.HasPrefix(content["error"].(string), "invalid arguments for save_preferences"))
}

func TestClampCount(t *testing.T) {
	assert.Equal(t, 1, clampCount(0))
	assert.Equal(t, 5, clampCount(5))
	assert.Equal(t, 10, clampCount(50))
}

func TestDefinitionsCoverDispatchTable(t *testing.T) {
	d := NewDispatcher(&fakeSearcher{}, DispatcherOptions{})

	defs := d.Definitions()
	assert.Equal(t, 3, len(defs))
	for _, def := range defs {
		_, ok := d.handlers[def.Name]
		assert.Equal(t, true, ok)
	}
}

func TestDigest(t *testing.T) {
	searcher := &fakeSearcher{articles: sampleArticles()}
	summarizer := &fakeSummarizer{text: "Two AI stories."}
	d := NewDispatcher(searcher, DispatcherOptions{Summarizer: summarizer})
	prefs := completePrefs()
	prefs.Topics = model.TopicList{"ai", "sports"}

	digests := d.Digest(context.Background(), prefs)

	assert.Equal(t, 2, len(digests))
	assert.Equal(t, "ai", digests[0].Topic)
	assert.Equal(t, 2, digests[0].Articles)
	assert.Equal(t, "Two AI stories.", digests[0].Summary)
	assert.Equal(t, "fake-model", digests[0].Model)
	assert.Equal(t, "casual", summarizer.got[0].Tone)
	assert.Equal(t, "sports", digests[1].Topic)
}

func TestDigestReportsSearchErrors(t *testing.T) {
	d := NewDispatcher(news.NewExaClient("", "", 0), DispatcherOptions{})

	digests := d.Digest(context.Background(), completePrefs())

	assert.Equal(t, 1, len(digests))
	var missing *news.MissingCredentialError
	assert.Equal(t, true, errors.As(digests[0].Err, &missing))
	assert.Equal(t, "EXA_API_KEY", missing.Key)
}
