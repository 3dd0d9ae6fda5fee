package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"tutor-backend-go/internal/db"
	"tutor-backend-go/internal/models"
)

type userService struct {
	userRepo         db.UserRepository
	convRepo         db.ConversationRepository
	freeMessageLimit int64
	logger           *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(ur db.UserRepository, cr db.ConversationRepository, freeMessageLimit int64, logger *zap.Logger) UserService {
	return &userService{userRepo: ur, convRepo: cr, freeMessageLimit: freeMessageLimit, logger: logger}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, newError(ErrUnauthenticated, "Authentication required.", nil)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, newError(ErrNotFound, "User profile not found.", err)
		}
		s.logger.Error("Failed to load user profile", zap.String("uid", userID), zap.Error(err))
		return nil, newError(ErrInternal, "Failed to load user profile.", err)
	}

	remaining := int64(-1)
	if !user.IsPremium {
		remaining = s.freeMessageLimit - user.MessageCount
		if remaining < 0 {
			remaining = 0
		}
	}
	return &Profile{User: user, FreeMessagesRemaining: remaining}, nil
}

func (s *userService) GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	if userID == "" {
		return nil, newError(ErrUnauthenticated, "Authentication required.", nil)
	}
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return nil, newError(ErrInvalidArgument, "conversationId is required.", nil)
	}
	conv, err := s.convRepo.Get(ctx, userID, conversationID)
	if err != nil {
		s.logger.Error("Failed to load conversation", zap.String("uid", userID), zap.String("conversationId", conversationID), zap.Error(err))
		return nil, newError(ErrInternal, "Failed to load conversation.", err)
	}
	return conv, nil
}
