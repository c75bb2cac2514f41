package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
)

// ErrQuotaExceeded matches provider errors that signal billing or rate-limit
// exhaustion.
var ErrQuotaExceeded = errors.New("provider quota exceeded")

// ToolDefinition advertises a callable function to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

type ChatRequest struct {
	System   []string
	Messages []model.Message
	Tools    []ToolDefinition
}

// ChatClient runs one chat-completions round-trip. The returned message has
// the assistant role and carries any tool calls the model requested.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (*model.Message, error)
}

// ProviderError is a non-2xx answer from a model provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
	Quota      bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrQuotaExceeded && e.Quota
}

func isQuotaSignal(status int, code, errType string) bool {
	if status == 402 || status == 429 {
		return true
	}
	switch code {
	case "insufficient_quota", "billing_hard_limit_reached", "billing_not_active", "rate_limit_exceeded":
		return true
	}
	return errType == "insufficient_quota"
}
