package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-backend-go/internal/core"
)

// UserHandler serves read-only views of the caller's data.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, logger: logger}
}

// GetCurrentUserProfile handles GET /api/v1/users/me.
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetConversation handles GET /api/v1/conversations/:conversationId.
func (h *UserHandler) GetConversation(c *gin.Context) {
	conv, err := h.userService.GetConversation(c.Request.Context(), c.GetString("userID"), c.Param("conversationId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *UserHandler) respondError(c *gin.Context, err error) {
	status, resp := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("User request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, resp)
}
