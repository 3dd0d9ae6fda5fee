package models

import "time"

// Role tags a turn as coming from the user or the model.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one fragment of a stored turn. Exactly one field is meaningful per part.
type Part struct {
	Text     *string `json:"text,omitempty" firestore:"text,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
}

// Turn is one message unit of a conversation as persisted.
type Turn struct {
	Role  Role   `json:"role" firestore:"role"`
	Parts []Part `json:"parts" firestore:"parts"`
}

// NewUserTurn builds a user turn in its stored shape: a text part followed by an image part.
func NewUserTurn(text, imageURL string) Turn {
	parts := []Part{{Text: &text}}
	if imageURL != "" {
		parts = append(parts, Part{ImageURL: &imageURL})
	} else {
		parts = append(parts, Part{})
	}
	return Turn{Role: RoleUser, Parts: parts}
}

// NewModelTurn builds a model turn holding the reply text.
func NewModelTurn(text string) Turn {
	return Turn{Role: RoleModel, Parts: []Part{{Text: &text}}}
}

// Text concatenates the text parts of the turn.
func (t Turn) Text() string {
	var text string
	for _, p := range t.Parts {
		if p.Text != nil {
			text += *p.Text
		}
	}
	return text
}

// ImageURL returns the first image URL of the turn, or "".
func (t Turn) ImageURL() string {
	for _, p := range t.Parts {
		if p.ImageURL != nil && *p.ImageURL != "" {
			return *p.ImageURL
		}
	}
	return ""
}

// Conversation is the document stored at users/{uid}/conversations/{conversationId}.
type Conversation struct {
	ID        string    `json:"conversationId" firestore:"-"`
	History   []Turn    `json:"history" firestore:"history"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}
