package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tutor-backend-go/internal/db"
	"tutor-backend-go/internal/llm"
	"tutor-backend-go/internal/models"
)

// ChatConfig carries the tunables of the chat service.
type ChatConfig struct {
	FreeMessageLimit      int64
	MaxHistoryTurns       int
	ImageFetchConcurrency int
	ProviderConfigured    bool
}

type chatService struct {
	cfg      ChatConfig
	userRepo db.UserRepository
	convRepo db.ConversationRepository
	model    ChatModel
	images   ImageFetcher
	logger   *zap.Logger
}

// NewChatService creates a ChatService.
func NewChatService(cfg ChatConfig, ur db.UserRepository, cr db.ConversationRepository, model ChatModel, images ImageFetcher, logger *zap.Logger) ChatService {
	return &chatService{
		cfg:      cfg,
		userRepo: ur,
		convRepo: cr,
		model:    model,
		images:   images,
		logger:   logger,
	}
}

// Chat validates the request, enforces the free-tier quota, asks the model for
// a reply and persists the exchange. Nothing is written unless the model replied.
func (s *chatService) Chat(ctx context.Context, userID string, req models.ChatRequest) (string, error) {
	if userID == "" {
		return "", newError(ErrUnauthenticated, "The function must be called while authenticated.", nil)
	}
	conversationID := strings.TrimSpace(req.ConversationID)
	text := strings.TrimSpace(req.NewMessageText)
	imageURL := strings.TrimSpace(req.ImageURL)
	if conversationID == "" || (text == "" && imageURL == "") {
		return "", newError(ErrInvalidArgument, "Missing conversationId or message content.", nil)
	}
	if !s.cfg.ProviderConfigured || s.model == nil {
		s.logger.Error("Chat called without AI provider configuration")
		return "", newError(ErrFailedPrecondition, "AI service is not configured.", nil)
	}

	logger := s.logger.With(zap.String("uid", userID), zap.String("conversationId", conversationID))

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		logger.Error("Failed to load user profile", zap.Error(err))
		return "", s.mapError(err)
	}
	premium := user != nil && user.IsPremium
	if !premium {
		var count int64
		if user != nil {
			count = user.MessageCount
		}
		if count >= s.cfg.FreeMessageLimit {
			logger.Info("Free message limit reached", zap.Int64("messageCount", count))
			return "", newError(ErrPermissionDenied, "You have reached your free message limit.", nil)
		}
	}

	conv, err := s.convRepo.Get(ctx, userID, conversationID)
	if err != nil {
		logger.Error("Failed to load conversation", zap.Error(err))
		return "", s.mapError(err)
	}

	userTurn := models.NewUserTurn(text, imageURL)
	history := trimHistory(conv.History, s.cfg.MaxHistoryTurns)
	contents, err := buildContents(ctx, s.images, history, userTurn, s.cfg.ImageFetchConcurrency)
	if err != nil {
		logger.Error("Failed to assemble prompt", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return "", newError(ErrDeadlineExceeded, "The request timed out.", err)
		}
		return "", newError(ErrInternal, "Could not load image.", err)
	}

	reply, err := s.model.GenerateContent(ctx, llm.GenerateRequest{
		Contents:          contents,
		SystemInstruction: systemInstruction(),
	})
	if err != nil {
		logger.Error("AI provider call failed", zap.Error(err))
		return "", s.mapError(err)
	}

	if err := s.convRepo.SaveExchange(ctx, userID, conversationID, userTurn, models.NewModelTurn(reply), !premium); err != nil {
		logger.Error("Failed to persist exchange", zap.Error(err))
		return "", s.mapError(err)
	}

	logger.Debug("Chat exchange completed", zap.Int("promptTurns", len(contents)), zap.Bool("premium", premium))
	return reply, nil
}

func (s *chatService) mapError(err error) error {
	var ce *Error
	switch {
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, context.DeadlineExceeded):
		return newError(ErrDeadlineExceeded, "The AI service took too long to respond.", err)
	case errors.Is(err, llm.ErrBadStatus):
		return newError(ErrInternal, "AI service failed.", err)
	case errors.Is(err, llm.ErrEmptyResponse):
		return newError(ErrInternal, "Could not understand the AI response.", err)
	default:
		return newError(ErrInternal, "An internal error occurred.", err)
	}
}
