package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-backend-go/internal/core"
)

// ChatHandler serves the tutoring chat endpoint.
type ChatHandler struct {
	chatService core.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(cs core.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: cs, logger: logger}
}

// Chat handles POST /chat. The caller identity is optional at the middleware
// level; the service rejects anonymous calls with unauthenticated.
func (h *ChatHandler) Chat(c *gin.Context) {
	var body ChatEnvelope
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid-argument", "Request body must be a JSON object with a data field."))
		return
	}

	reply, err := h.chatService.Chat(c.Request.Context(), c.GetString("userID"), body.Data)
	if err != nil {
		status, resp := mapServiceError(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Chat request failed", zap.Error(err))
		}
		_ = c.Error(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Result: ChatResult{Reply: reply}})
}
