package handler

import "github.com/MichaelDayvison333/AI-News-Agents/internal/model"

// ChatRequest is the POST /chat body. Both fields are pointers so a missing
// field can be told apart from an empty one.
type ChatRequest struct {
	Messages    *[]model.Message   `json:"messages"`
	Preferences *model.Preferences `json:"preferences"`
}

type ChatResponse struct {
	Messages           []model.Message   `json:"messages"`
	UpdatedPreferences model.Preferences `json:"updatedPreferences"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
