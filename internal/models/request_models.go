package models

// AuthTokenRequest is the payload of the custom auth token endpoint.
type AuthTokenRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Name          string `json:"name,omitempty"`
	IsRegistering bool   `json:"isRegistering"`
}

// ChatRequest is the payload of the chat endpoint.
type ChatRequest struct {
	ConversationID string `json:"conversationId"`
	NewMessageText string `json:"newMessageText,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
}
