package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
)

const DefaultBaseURL = "http://localhost:8080"

// Client talks to the chat service. It holds no conversation state; callers
// keep it in a Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Messages    []model.Message   `json:"messages"`
	Preferences model.Preferences `json:"preferences"`
}

type chatResponse struct {
	Messages           []model.Message   `json:"messages"`
	UpdatedPreferences model.Preferences `json:"updatedPreferences"`
	Error              string            `json:"error"`
}

// Send posts the session state and replaces it with the service's answer.
func (c *Client) Send(ctx context.Context, s *Session) error {
	messages := s.Messages
	if messages == nil {
		messages = []model.Message{}
	}

	body, err := json.Marshal(chatRequest{Messages: messages, Preferences: s.Preferences})
	if err != nil {
		return fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read chat response: %w", err)
	}

	var res chatResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chat service returned %d: %s", resp.StatusCode, res.Error)
	}

	s.Messages = res.Messages
	s.Preferences = res.UpdatedPreferences
	return nil
}
