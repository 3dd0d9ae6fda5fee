package core

import (
	"context"

	"tutor-backend-go/internal/identity"
	"tutor-backend-go/internal/llm"
	"tutor-backend-go/internal/models"
)

// AuthService issues custom tokens for registering or returning users.
type AuthService interface {
	IssueToken(ctx context.Context, req models.AuthTokenRequest) (string, error)
}

// ChatService runs one tutoring exchange for an authenticated user.
type ChatService interface {
	Chat(ctx context.Context, userID string, req models.ChatRequest) (string, error)
}

// UserService serves read-only views of a user's data.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error)
}

// Profile is a user profile together with the remaining free-tier allowance.
type Profile struct {
	User                  *models.User `json:"profile"`
	FreeMessagesRemaining int64        `json:"freeMessagesRemaining"` // -1 for premium users
}

// IdentityProvider is the external identity service.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (*identity.Record, error)
	GetUserByEmail(ctx context.Context, email string) (*identity.Record, error)
	CustomToken(ctx context.Context, uid string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

// PasswordVerifier checks a login password and returns the matching UID.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, email, password string) (string, error)
}

// ChatModel is the generative AI provider.
type ChatModel interface {
	GenerateContent(ctx context.Context, req llm.GenerateRequest) (string, error)
}

// ImageFetcher downloads an image and encodes it for the provider.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*llm.InlineData, error)
}
