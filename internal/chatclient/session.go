package chatclient

import (
	"errors"
	"os"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
	"gopkg.in/yaml.v3"
)

// Session is the client-side copy of a conversation. The service is
// stateless, so this file is the only place a conversation survives.
type Session struct {
	Messages    []model.Message   `yaml:"messages"`
	Preferences model.Preferences `yaml:"preferences"`
}

func (s *Session) AddUserMessage(text string) {
	s.Messages = append(s.Messages, model.Message{Role: model.RoleUser, Content: text})
}

// LastAssistantText returns the newest assistant message that carries text.
func (s *Session) LastAssistantText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role == model.RoleAssistant && m.Content != "" && len(m.ToolCalls) == 0 {
			return m.Content
		}
	}
	return ""
}

func SaveSession(path string, s *Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0640)
}

// LoadSession returns an empty session when the file does not exist yet.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
