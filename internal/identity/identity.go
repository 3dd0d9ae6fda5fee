// Package identity adapts the Firebase Auth admin client to the operations
// the auth service needs.
package identity

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

var (
	// ErrEmailAlreadyExists is returned when registering an email that is in use.
	ErrEmailAlreadyExists = errors.New("identity: email already exists")
	// ErrUserNotFound is returned when no identity matches the lookup.
	ErrUserNotFound = errors.New("identity: user not found")
	// ErrInvalidCredentials is returned when a password check fails.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

// Record is the subset of an identity the service uses.
type Record struct {
	UID         string
	Email       string
	DisplayName string
}

// FirebaseProvider implements identity operations on top of Firebase Auth.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider wraps an initialized Firebase Auth client.
func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	if client == nil {
		panic("Firebase Auth client is not initialized for identity provider")
	}
	return &FirebaseProvider{client: client}
}

// CreateUser registers a new email/password identity.
func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password, displayName string) (*Record, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	u, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, fmt.Errorf("%w: %v", ErrEmailAlreadyExists, err)
		}
		return nil, fmt.Errorf("identity: create user: %w", err)
	}
	return toRecord(u), nil
}

// GetUserByEmail looks up an existing identity.
func (p *FirebaseProvider) GetUserByEmail(ctx context.Context, email string) (*Record, error) {
	u, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrUserNotFound, err)
		}
		return nil, fmt.Errorf("identity: get user by email: %w", err)
	}
	return toRecord(u), nil
}

// CustomToken issues a short-lived signed token for uid.
func (p *FirebaseProvider) CustomToken(ctx context.Context, uid string) (string, error) {
	token, err := p.client.CustomToken(ctx, uid)
	if err != nil {
		return "", fmt.Errorf("identity: custom token: %w", err)
	}
	return token, nil
}

// DeleteUser removes an identity.
func (p *FirebaseProvider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("identity: delete user: %w", err)
	}
	return nil
}

func toRecord(u *auth.UserRecord) *Record {
	if u == nil || u.UserInfo == nil {
		return &Record{}
	}
	return &Record{UID: u.UID, Email: u.Email, DisplayName: u.DisplayName}
}
