package handlers

import (
	"net/http"
	"strings"

	"clario-backend/models"
	"clario-backend/service"

	"github.com/gin-gonic/gin"
)

// maxHistoryTurns bounds the transcript a client may send back
const maxHistoryTurns = 200

// ChatHandler serves the legal Q&A endpoint. It keeps no session state: the
// client owns the transcript.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// ChatRequest represents the request body for a question
type ChatRequest struct {
	Question string            `json:"question"`
	Simple   bool              `json:"simple"`
	History  []models.ChatTurn `json:"history"`
}

// Ask handles POST /api/chat
func (h *ChatHandler) Ask(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(c, http.StatusBadRequest, "EMPTY_QUESTION", service.EmptyQuestionMessage)
		return
	}
	if len(req.History) > maxHistoryTurns {
		respondError(c, http.StatusBadRequest, "HISTORY_TOO_LONG", "Conversation history is too long")
		return
	}

	result := h.chat.Ask(c.Request.Context(), service.AskRequest{
		Question: req.Question,
		Simple:   req.Simple,
	})

	history := append(req.History,
		models.ChatTurn{Role: models.ChatRoleUser, Content: req.Question},
		models.ChatTurn{Role: models.ChatRoleAssistant, Content: result.Answer, Source: string(result.Source)},
	)

	respondData(c, http.StatusOK, gin.H{
		"answer":  result.Answer,
		"source":  result.Source,
		"history": history,
	})
}
