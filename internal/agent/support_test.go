package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/llm"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/news"
)

type scriptedReply struct {
	message model.Message
	err     error
}

// scriptedChat replays canned replies in order and records every request.
type scriptedChat struct {
	mu       sync.Mutex
	replies  []scriptedReply
	repeat   bool
	requests []llm.ChatRequest
}

func (s *scriptedChat) Complete(_ context.Context, req llm.ChatRequest) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	idx := len(s.requests) - 1
	if s.repeat && idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	if idx >= len(s.replies) {
		return nil, fmt.Errorf("script exhausted at call %d", idx+1)
	}

	reply := s.replies[idx]
	if reply.err != nil {
		return nil, reply.err
	}
	msg := reply.message
	msg.Role = model.RoleAssistant
	return &msg, nil
}

func toolCallReply(id, name, args string) scriptedReply {
	return scriptedReply{message: model.Message{ToolCalls: []model.ToolCall{{ID: id, Name: name, Arguments: args}}}}
}

func textReply(text string) scriptedReply {
	return scriptedReply{message: model.Message{Content: text}}
}

type fakeSearcher struct {
	articles map[string][]news.Article
	err      error
	topics   []string
}

func (f *fakeSearcher) Name() string { return "fake" }

func (f *fakeSearcher) Search(_ context.Context, topic string, limit int) ([]news.Article, error) {
	f.topics = append(f.topics, topic)
	if f.err != nil {
		return nil, f.err
	}
	return f.articles[topic], nil
}

type fakeSummarizer struct {
	text string
	err  error
	got  []llm.SummaryRequest
}

func (f *fakeSummarizer) Summarize(_ context.Context, req llm.SummaryRequest) (*llm.SummaryResult, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.SummaryResult{Text: f.text, ModelUsed: "fake-model"}, nil
}

func completePrefs() model.Preferences {
	return model.Preferences{
		Tone:        "casual",
		Format:      "bullet points",
		Language:    "English",
		Interaction: "concise",
		Topics:      model.TopicList{"ai"},
	}
}

func sampleArticles() map[string][]news.Article {
	return map[string][]news.Article{
		"ai": {
			{Title: "Model Launch", URL: "https://example.com/a", Summary: "A new model shipped.", Topic: "ai"},
			{Title: "Chip Deal", URL: "https://example.com/b", Summary: "A chip deal closed.", Topic: "ai"},
		},
		"sports": {
			{Title: "Cup Final", URL: "https://example.com/c", Summary: "The final ended 2-1.", Topic: "sports"},
		},
	}
}
