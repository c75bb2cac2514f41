package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"
	"github.com/MichaelDayvison333/AI-News-Agents/pkg/llm"
)

// Fallback answers without the language model: onboarding questions in a
// fixed order, then fetch-and-summarize with the local summarizer.
type Fallback struct {
	tools *Dispatcher
}

func NewFallback(tools *Dispatcher) *Fallback {
	return &Fallback{tools: tools}
}

// Respond returns the assistant text for this turn and the updated
// preferences. justCompleted reports whether the preferences became complete
// earlier in this turn.
func (f *Fallback) Respond(ctx context.Context, conversation []model.Message, prefs model.Preferences, justCompleted bool) (string, model.Preferences) {
	prefs = prefs.Clone()

	if key, ok := answeredQuestion(conversation, prefs); ok {
		idx := model.LastUserMessage(conversation)
		prefs.Set(key, conversation[idx].Content)
		justCompleted = justCompleted || prefs.Complete()
	}

	if missing := prefs.Missing(); len(missing) > 0 {
		return onboardingQuestions[missing[0]], prefs
	}

	if !justCompleted && !asksForNews(conversation) {
		return preferencesReady, prefs
	}

	return f.digest(ctx, prefs), prefs
}

func (f *Fallback) digest(ctx context.Context, prefs model.Preferences) string {
	blocks := make([]string, 0, len(prefs.Topics))
	for _, topic := range prefs.Topics {
		articles, err := f.tools.searchTopic(ctx, topic, f.tools.defaultCount)
		if err != nil {
			slog.Warn("fallback news search failed", "topic", topic, "error", err)
			blocks = append(blocks, fmt.Sprintf("Topic: %s\nNews search error: %v", topic, err))
			continue
		}

		summary := f.tools.local.Text(llm.SummaryRequest{
			Items:       articlesToItems(articles),
			Tone:        prefs.Tone,
			Format:      prefs.Format,
			Language:    prefs.Language,
			Interaction: prefs.Interaction,
		}.WithDefaults())
		blocks = append(blocks, fmt.Sprintf("Topic: %s\n%s", topic, summary))
	}
	return strings.Join(blocks, "\n\n")
}

// answeredQuestion detects a plain reply to the onboarding question asked in
// the assistant message right before the latest user message.
func answeredQuestion(conversation []model.Message, prefs model.Preferences) (string, bool) {
	idx := model.LastUserMessage(conversation)
	if idx < 1 || idx != len(conversation)-1 {
		return "", false
	}

	prev := conversation[idx-1]
	if prev.Role != model.RoleAssistant {
		return "", false
	}

	reply := strings.TrimSpace(conversation[idx].Content)
	if reply == "" {
		return "", false
	}
	if _, isCommand := ParseCommand(reply); isCommand {
		return "", false
	}

	for _, key := range model.PreferenceKeys {
		if onboardingQuestions[key] == strings.TrimSpace(prev.Content) && prefs.Get(key) == "" {
			return key, true
		}
	}
	return "", false
}

func asksForNews(conversation []model.Message) bool {
	idx := model.LastUserMessage(conversation)
	if idx < 0 {
		return false
	}

	text := strings.ReplaceAll(strings.ToLower(conversation[idx].Content), "’", "'")
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	for _, w := range words {
		if newsRequestWords[strings.Trim(w, "'")] {
			return true
		}
	}

	joined := " " + strings.Join(words, " ") + " "
	for _, phrase := range newsRequestPhrases {
		if strings.Contains(joined, " "+phrase+" ") {
			return true
		}
	}
	return false
}
