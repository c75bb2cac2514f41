package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
	"github.com/go-playground/assert/v2"
)

func TestSendReplacesSession(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)

		out := append(got.Messages, model.Message{Role: model.RoleAssistant, Content: "Preferred Tone of Voice?"})
		json.NewEncoder(w).Encode(map[string]interface{}{
			"messages":           out,
			"updatedPreferences": map[string]string{"language": "English"},
		})
	}))
	defer srv.Close()

	s := &Session{}
	s.AddUserMessage("hi")

	err := New(srv.URL, 0).Send(context.Background(), s)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(got.Messages))
	assert.Equal(t, 2, len(s.Messages))
	assert.Equal(t, "Preferred Tone of Voice?", s.LastAssistantText())
	assert.Equal(t, "English", s.Preferences.Language)
}

func TestSendKeepsSessionOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Missing messages"}`))
	}))
	defer srv.Close()

	s := &Session{}
	s.AddUserMessage("hi")

	err := New(srv.URL, 0).Send(context.Background(), s)
	assert.Equal(t, "chat service returned 400: Missing messages", err.Error())
	assert.Equal(t, 1, len(s.Messages))
}

func TestSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	empty, err := LoadSession(path)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(empty.Messages))

	s := &Session{
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "news"},
			{Role: model.RoleAssistant, ToolCalls: []model.ToolCall{{ID: "call_1", Name: "exa_news_fetch", Arguments: `{"topic":"ai"}`}}},
			{Role: model.RoleTool, ToolCallID: "call_1", Name: "exa_news_fetch", Content: `{"results":[]}`},
		},
		Preferences: model.Preferences{Tone: "casual", Topics: model.TopicList{"ai", "sports"}},
	}
	assert.Equal(t, nil, SaveSession(path, s))

	loaded, err := LoadSession(path)
	assert.Equal(t, nil, err)
	assert.Equal(t, *s, *loaded)
	assert.Equal(t, "", loaded.LastAssistantText())
}
