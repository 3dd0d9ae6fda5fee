package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse mirrors the callable error shape used by internal/api.
// It is defined here to avoid an import cycle.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a status code string and a caller-safe message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware resolves the caller identity from a Firebase ID token.
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
// It panics if verifier is nil, as this is a setup error.
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("token verifier is not initialized for AuthMiddleware")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// VerifyToken requires a valid bearer token and sets "userID" in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return m.handler(true)
}

// OptionalToken sets "userID" when a bearer token is present and valid.
// Requests without an Authorization header pass through anonymously so the
// handler can answer with its own unauthenticated error.
func (m *AuthMiddleware) OptionalToken() gin.HandlerFunc {
	return m.handler(false)
}

func (m *AuthMiddleware) handler(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				abortUnauthenticated(c, "Authorization header is required")
				return
			}
			c.Next()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthenticated(c, "Authorization header format must be 'Bearer {token}'")
			return
		}

		token, err := m.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			m.logger.Info("ID token verification failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abortUnauthenticated(c, "Invalid or expired authentication token")
			return
		}

		c.Set("userID", token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set("userEmail", email)
		}
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: ErrorBody{Code: "unauthenticated", Message: message}})
}
