package model

import (
	"encoding/json"
	"strings"
)

const (
	PrefTone        = "tone"
	PrefFormat      = "format"
	PrefLanguage    = "language"
	PrefInteraction = "interaction"
	PrefTopics      = "topics"
)

// PreferenceKeys lists the preference names in onboarding order.
var PreferenceKeys = []string{PrefTone, PrefFormat, PrefLanguage, PrefInteraction, PrefTopics}

// TopicList decodes from either a JSON array or a comma-separated string.
type TopicList []string

func (t *TopicList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = SplitTopics(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}

	out := make(TopicList, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*t = out
	return nil
}

func SplitTopics(s string) TopicList {
	var out TopicList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type Preferences struct {
	Tone        string    `json:"tone,omitempty" yaml:"tone,omitempty"`
	Format      string    `json:"format,omitempty" yaml:"format,omitempty"`
	Language    string    `json:"language,omitempty" yaml:"language,omitempty"`
	Interaction string    `json:"interaction,omitempty" yaml:"interaction,omitempty"`
	Topics      TopicList `json:"topics,omitempty" yaml:"topics,omitempty"`
}

func (p Preferences) Clone() Preferences {
	if p.Topics != nil {
		p.Topics = append(TopicList(nil), p.Topics...)
	}
	return p
}

// Get returns the value of a preference as text; topics are comma-joined.
func (p Preferences) Get(key string) string {
	switch key {
	case PrefTone:
		return p.Tone
	case PrefFormat:
		return p.Format
	case PrefLanguage:
		return p.Language
	case PrefInteraction:
		return p.Interaction
	case PrefTopics:
		return strings.Join(p.Topics, ", ")
	}
	return ""
}

// Set assigns a preference from text and reports whether the key is known.
// Empty values are ignored.
func (p *Preferences) Set(key, value string) bool {
	value = strings.TrimSpace(value)
	switch key {
	case PrefTone, PrefFormat, PrefLanguage, PrefInteraction, PrefTopics:
	default:
		return false
	}
	if value == "" {
		return true
	}

	switch key {
	case PrefTone:
		p.Tone = value
	case PrefFormat:
		p.Format = value
	case PrefLanguage:
		p.Language = value
	case PrefInteraction:
		p.Interaction = value
	case PrefTopics:
		if topics := SplitTopics(value); len(topics) > 0 {
			p.Topics = topics
		}
	}
	return true
}

// Merge copies every non-empty field of partial over p.
func (p *Preferences) Merge(partial Preferences) {
	if partial.Tone != "" {
		p.Tone = partial.Tone
	}
	if partial.Format != "" {
		p.Format = partial.Format
	}
	if partial.Language != "" {
		p.Language = partial.Language
	}
	if partial.Interaction != "" {
		p.Interaction = partial.Interaction
	}
	if len(partial.Topics) > 0 {
		p.Topics = append(TopicList(nil), partial.Topics...)
	}
}

// Missing returns the unset preference keys in onboarding order.
func (p Preferences) Missing() []string {
	var missing []string
	for _, key := range PreferenceKeys {
		if strings.TrimSpace(p.Get(key)) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func (p Preferences) Complete() bool {
	return len(p.Missing()) == 0
}
