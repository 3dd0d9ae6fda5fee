package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-backend-go/internal/core"
	"tutor-backend-go/internal/middleware"
)

// SetupRoutes registers every endpoint on router. Global middleware
// (logging, recovery, CORS, deadline) is expected to be applied in main.go.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
	authService core.AuthService,
	chatService core.ChatService,
	userService core.UserService,
) {
	authHandler := NewAuthHandler(authService, logger)
	chatHandler := NewChatHandler(chatService, logger)
	userHandler := NewUserHandler(userService, logger)

	// Callable-style endpoints.
	router.Any("/createCustomAuthToken", authHandler.CreateCustomAuthToken)
	router.POST("/chat", authMW.OptionalToken(), chatHandler.Chat)

	apiV1 := router.Group("/api/v1", authMW.VerifyToken())
	{
		apiV1.GET("/users/me", userHandler.GetCurrentUserProfile)
		apiV1.GET("/conversations/:conversationId", userHandler.GetConversation)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Tutor backend is healthy."})
	})

	logger.Info("API routes configured successfully")
}
