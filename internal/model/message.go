package model

import (
	"errors"
	"fmt"
	"sort"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

var ErrInvalidConversation = errors.New("invalid conversation")

type ToolCall struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Arguments string `json:"arguments" yaml:"arguments"`
}

type Message struct {
	Role       string     `json:"role" yaml:"role"`
	Content    string     `json:"content" yaml:"content,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty" yaml:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty" yaml:"tool_calls,omitempty"`
}

type ToolResult struct {
	ToolCallID string
	ToolName   string
	Content    string
}

// Message converts the result into the tool-role message that answers its call.
func (r ToolResult) Message() Message {
	return Message{
		Role:       RoleTool,
		Content:    r.Content,
		ToolCallID: r.ToolCallID,
		Name:       r.ToolName,
	}
}

func CloneMessages(in []Message) []Message {
	out := make([]Message, len(in))
	for i, m := range in {
		out[i] = m
		if m.ToolCalls != nil {
			out[i].ToolCalls = append([]ToolCall(nil), m.ToolCalls...)
		}
	}
	return out
}

// LastUserMessage returns the index of the most recent user-authored message, or -1.
func LastUserMessage(messages []Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return i
		}
	}
	return -1
}

// ValidateConversation checks roles and that the tool calls of each assistant
// message are answered, each exactly once, by the tool messages that follow it.
func ValidateConversation(messages []Message) error {
	pending := map[string]bool{}
	for i, m := range messages {
		if m.Role != RoleTool && len(pending) > 0 {
			return fmt.Errorf("%w: message %d arrives before tool calls %v are answered", ErrInvalidConversation, i, pendingIDs(pending))
		}

		switch m.Role {
		case RoleUser:
		case RoleAssistant:
			for _, call := range m.ToolCalls {
				if call.ID == "" || call.Name == "" {
					return fmt.Errorf("%w: message %d has a tool call without id or name", ErrInvalidConversation, i)
				}
				pending[call.ID] = true
			}
		case RoleTool:
			if m.ToolCallID == "" {
				return fmt.Errorf("%w: tool message %d has no tool_call_id", ErrInvalidConversation, i)
			}
			if !pending[m.ToolCallID] {
				return fmt.Errorf("%w: tool message %d does not follow a call with id %q", ErrInvalidConversation, i, m.ToolCallID)
			}
			delete(pending, m.ToolCallID)
		default:
			return fmt.Errorf("%w: message %d has unsupported role %q", ErrInvalidConversation, i, m.Role)
		}
	}

	if len(pending) > 0 {
		return fmt.Errorf("%w: tool calls %v are never answered", ErrInvalidConversation, pendingIDs(pending))
	}
	return nil
}

func pendingIDs(pending map[string]bool) []string {
	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
