package models

import "time"

// User is the profile document stored at users/{uid}.
type User struct {
	ID           string    `json:"id" firestore:"-"` // Firebase Auth UID, also the document ID
	Email        string    `json:"email" firestore:"email"`
	DisplayName  string    `json:"displayName" firestore:"displayName"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	IsPremium    bool      `json:"is_premium" firestore:"is_premium"`
	MessageCount int64     `json:"messageCount" firestore:"messageCount"`
}

// NewUser returns a profile with the registration defaults.
func NewUser(uid, email, displayName string) *User {
	return &User{
		ID:          uid,
		Email:       email,
		DisplayName: displayName,
	}
}
