package agent

import "github.com/MichaelDayvison333/AI-News-Agents/internal/model"

const systemPrompt = `You are a Latest News Agent. First, ensure the following preferences are collected: tone, format, language, interaction, topics. Ask one question at a time until all are collected.
When the user supplies a preference, call save_preferences with the structured values.
After preferences are set, if the user requests news or summaries, use exa_news_fetch followed by summarize_news.
If a tool returns an error, tell the user exactly what went wrong.
Always return answers in the user's preferred language, tone, interaction style, and format.`

const (
	quotaNotice       = "The language model is over its usage quota, so I'm answering in offline mode."
	unableToComplete  = "I was unable to complete this request within %d steps. Please try again or narrow the request."
	emptyModelAnswer  = "Sorry, I could not produce an answer. Please try again."
	preferencesPrefix = "Current preferences JSON: "
)

var onboardingQuestions = map[string]string{
	model.PrefTone:        "Preferred Tone of Voice (e.g., formal, casual, enthusiastic)?",
	model.PrefFormat:      "Preferred Response Format (e.g., bullet points, paragraphs)?",
	model.PrefLanguage:    "Language Preference (e.g., English, Spanish)?",
	model.PrefInteraction: "Interaction Style (e.g., concise, detailed)?",
	model.PrefTopics:      "Preferred News Topics (e.g., technology, sports, politics)?",
}

const preferencesReady = "Your preferences are all set. Ask me for the latest news whenever you're ready."

// A user message asks for news when it contains one of these whole words or
// phrases.
var newsRequestWords = map[string]bool{
	"news":      true,
	"headline":  true,
	"headlines": true,
	"latest":    true,
	"summary":   true,
	"summaries": true,
	"summarize": true,
	"summarise": true,
	"brief":     true,
	"briefing":  true,
	"digest":    true,
}

var newsRequestPhrases = []string{"what's new", "what is new", "what's happening", "what is happening"}
