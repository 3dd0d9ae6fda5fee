package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tutor-backend-go/internal/config"
)

// CORSMiddleware allows the configured client origins to call the API.
// Preflight requests are answered with 204 and no body.
func CORSMiddleware(appConfig *config.Config) gin.HandlerFunc {
	if appConfig == nil || len(appConfig.AllowedOrigins) == 0 {
		panic("allowed origins for CORS are not configured")
	}

	return cors.New(cors.Config{
		AllowOrigins:     appConfig.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
