package db

import (
	"context"

	"tutor-backend-go/internal/models"
)

// UserRepository defines storage operations for user profiles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// ConversationRepository defines storage operations for conversation history.
type ConversationRepository interface {
	// Get returns the conversation, or an empty one if the document does not exist.
	Get(ctx context.Context, userID, conversationID string) (*models.Conversation, error)
	// SaveExchange appends userTurn then modelTurn to the history and, when
	// countTowardsQuota is set, increments the user's messageCount, in one commit.
	SaveExchange(ctx context.Context, userID, conversationID string, userTurn, modelTurn models.Turn, countTowardsQuota bool) error
}
