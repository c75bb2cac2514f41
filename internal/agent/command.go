package agent

import (
	"strings"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
)

// Command is a "key: value" preference update typed by the user.
type Command struct {
	Key   string
	Value string
}

// ParseCommand recognizes a leading "<key>:<value>" where key is one of the
// preference names. Anything else is ordinary chat text.
func ParseCommand(text string) (Command, bool) {
	key, value, found := strings.Cut(strings.TrimSpace(text), ":")
	if !found {
		return Command{}, false
	}

	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if value == "" || !isPreferenceKey(key) {
		return Command{}, false
	}

	if key == model.PrefTopics && len(model.SplitTopics(value)) == 0 {
		return Command{}, false
	}

	return Command{Key: key, Value: value}, true
}

// ApplyCommand updates a copy of prefs from the latest user message in the
// conversation and reports whether a command was found.
func ApplyCommand(prefs model.Preferences, conversation []model.Message) (model.Preferences, bool) {
	updated := prefs.Clone()

	idx := model.LastUserMessage(conversation)
	if idx < 0 {
		return updated, false
	}

	cmd, ok := ParseCommand(conversation[idx].Content)
	if !ok {
		return updated, false
	}

	updated.Set(cmd.Key, cmd.Value)
	return updated, true
}

func isPreferenceKey(key string) bool {
	for _, k := range model.PreferenceKeys {
		if k == key {
			return true
		}
	}
	return false
}
