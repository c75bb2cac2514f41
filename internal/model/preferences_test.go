package model

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestTopicListUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  TopicList
	}{
		{name: "array", input: `["technology", " ai "]`, want: TopicList{"technology", "ai"}},
		{name: "comma string", input: `"technology, ai"`, want: TopicList{"technology", "ai"}},
		{name: "drops empty segments", input: `"sports,, ,politics"`, want: TopicList{"sports", "politics"}},
		{name: "null", input: `null`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got TopicList
			err := json.Unmarshal([]byte(tt.input), &got)
			assert.Equal(t, nil, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreferencesMissingOrder(t *testing.T) {
	p := Preferences{Format: "paragraphs", Topics: TopicList{"ai"}}
	assert.Equal(t, []string{PrefTone, PrefLanguage, PrefInteraction}, p.Missing())
	assert.Equal(t, false, p.Complete())

	p.Tone = "casual"
	p.Language = "English"
	p.Interaction = "concise"
	assert.Equal(t, 0, len(p.Missing()))
	assert.Equal(t, true, p.Complete())
}

func TestPreferencesMerge(t *testing.T) {
	p := Preferences{Tone: "formal", Language: "English", Topics: TopicList{"sports"}}
	p.Merge(Preferences{Tone: "casual", Topics: TopicList{"ai", "science"}})

	assert.Equal(t, "casual", p.Tone)
	assert.Equal(t, "English", p.Language)
	assert.Equal(t, TopicList{"ai", "science"}, p.Topics)
}

func TestPreferencesSet(t *testing.T) {
	var p Preferences

	assert.Equal(t, true, p.Set(PrefTopics, "technology, ai"))
	assert.Equal(t, TopicList{"technology", "ai"}, p.Topics)

	assert.Equal(t, true, p.Set(PrefTone, "   "))
	assert.Equal(t, "", p.Tone)

	assert.Equal(t, false, p.Set("mood", "happy"))
}

func TestPreferencesCloneIsIndependent(t *testing.T) {
	p := Preferences{Topics: TopicList{"ai"}}
	c := p.Clone()
	c.Topics[0] = "sports"

	assert.Equal(t, "ai", p.Topics[0])
}
