package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tutor-backend-go/internal/api"
	"tutor-backend-go/internal/config"
	"tutor-backend-go/internal/core"
	"tutor-backend-go/internal/db"
	"tutor-backend-go/internal/firebase"
	"tutor-backend-go/internal/identity"
	"tutor-backend-go/internal/llm"
	"tutor-backend-go/internal/media"
	"tutor-backend-go/internal/middleware"
	"tutor-backend-go/pkg/cache"
)

func main() {
	release := strings.EqualFold(os.Getenv("GIN_MODE"), gin.ReleaseMode)

	// --- 1. Local .env and logger ---
	if !release {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}
	zapLogger, err := newLogger(release)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded",
		zap.String("projectID", appConfig.FirebaseProjectID),
		zap.Strings("allowedOrigins", appConfig.AllowedOrigins),
		zap.Int64("freeMessageLimit", appConfig.FreeMessageLimit),
	)

	// --- 3. Firebase Admin SDK (Firestore, Auth) ---
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()
	fb, err := firebase.Init(initCtx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	defer fb.Close()

	// --- 4. Optional image cache ---
	var imageCache cache.Cache
	if appConfig.RedisAddress != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddress,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Warn("Image cache disabled, Redis is unreachable", zap.String("address", appConfig.RedisAddress), zap.Error(err))
		} else {
			defer redisCache.Close()
			imageCache = redisCache
			zapLogger.Info("Image cache enabled", zap.String("address", appConfig.RedisAddress))
		}
	}

	// --- 5. Repositories and outbound clients ---
	userRepo := db.NewFirestoreUserRepository(fb.Firestore)
	convRepo := db.NewFirestoreConversationRepository(fb.Firestore)

	identities := identity.NewFirebaseProvider(fb.Auth)
	var verifier core.PasswordVerifier
	if appConfig.VerifyLoginPassword {
		verifier = identity.NewPasswordVerifier(appConfig.IdentityToolkitURL, appConfig.FirebaseWebAPIKey)
	} else {
		zapLogger.Warn("Login password verification is disabled; login trusts the caller's email")
	}

	model := llm.NewClient(appConfig.GeminiAPIURL, appConfig.GeminiAPIKey, appConfig.ProviderTimeout)
	images := media.NewFetcher(media.FetcherConfig{
		MaxBytes: appConfig.MaxImageBytes,
		Cache:    imageCache,
		CacheTTL: appConfig.ImageCacheTTL,
	}, zapLogger.Named("media"))

	// --- 6. Services ---
	authService := core.NewAuthService(identities, verifier, userRepo, zapLogger.Named("auth"))
	chatService := core.NewChatService(core.ChatConfig{
		FreeMessageLimit:      appConfig.FreeMessageLimit,
		MaxHistoryTurns:       appConfig.MaxHistoryTurns,
		ImageFetchConcurrency: appConfig.ImageFetchConcurrency,
		ProviderConfigured:    appConfig.GeminiAPIKey != "" && appConfig.GeminiAPIURL != "",
	}, userRepo, convRepo, model, images, zapLogger.Named("chat"))
	userService := core.NewUserService(userRepo, convRepo, appConfig.FreeMessageLimit, zapLogger.Named("users"))

	// --- 7. Gin engine and global middleware ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(appConfig))
	router.Use(middleware.Deadline(appConfig.RequestTimeout))

	api.SetupRoutes(
		router,
		zapLogger,
		middleware.NewAuthMiddleware(fb.Auth, zapLogger),
		authService,
		chatService,
		userService,
	)

	// --- 8. HTTP server with graceful shutdown ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      appConfig.RequestTimeout + 5*time.Second,
	}

	zapLogger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}

func newLogger(release bool) (*zap.Logger, error) {
	if release {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
