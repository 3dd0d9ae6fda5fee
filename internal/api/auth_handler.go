package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-backend-go/internal/core"
)

// AuthHandler serves the custom auth token endpoint.
type AuthHandler struct {
	authService core.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as core.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: as, logger: logger}
}

// CreateCustomAuthToken registers or logs in a user and returns a custom token.
// It is mounted for every method: OPTIONS gets 204, anything but POST gets 405.
func (h *AuthHandler) CreateCustomAuthToken(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	var body AuthTokenEnvelope
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Warn("Auth request body could not be decoded", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse("invalid-argument", "Email and password are required."))
		return
	}

	token, err := h.authService.IssueToken(c.Request.Context(), body.Data)
	if err != nil {
		h.logger.Error("Auth Token Error", zap.Error(err))
		status, resp := mapAuthError(err)
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, AuthTokenResponse{Data: TokenData{Token: token}})
}
