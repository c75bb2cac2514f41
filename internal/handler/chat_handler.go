package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MichaelDayvison333/AI-News-Agents/internal/agent"
	"github.com/MichaelDayvison333/AI-News-Agents/internal/model"

	"github.com/gin-gonic/gin"
)

// ChatRunner runs one orchestration turn.
type ChatRunner interface {
	Run(ctx context.Context, conversation []model.Message, prefs model.Preferences) (*agent.Result, error)
}

type ChatHandler struct {
	runner ChatRunner
}

func NewChatHandler(runner ChatRunner) *ChatHandler {
	return &ChatHandler{runner: runner}
}

func (h *ChatHandler) PostChat(c *gin.Context) {

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if req.Messages == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing messages"})
		return
	}

	if err := model.ValidateConversation(*req.Messages); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var prefs model.Preferences
	if req.Preferences != nil {
		prefs = *req.Preferences
	}

	res, err := h.runner.Run(c.Request.Context(), *req.Messages, prefs)
	if err != nil {
		slog.Error("error running chat turn", "error", err, "request_id", c.GetString(requestIDKey))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Request cancelled"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	messages := res.Messages
	if messages == nil {
		messages = []model.Message{}
	}

	c.JSON(http.StatusOK, ChatResponse{
		Messages:           messages,
		UpdatedPreferences: res.Preferences,
	})
}

func (h *ChatHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
