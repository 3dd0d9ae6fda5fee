package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// PasswordVerifier checks an email/password pair against the Identity Toolkit
// signInWithPassword endpoint.
type PasswordVerifier struct {
	httpClient *resty.Client
	apiKey     string
}

// NewPasswordVerifier creates a verifier for the project identified by the web API key.
func NewPasswordVerifier(baseURL, apiKey string) *PasswordVerifier {
	return &PasswordVerifier{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Content-Type", "application/json"),
		apiKey: apiKey,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
}

type signInError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// VerifyPassword returns the UID of the account when the password matches.
// Rejections map to ErrInvalidCredentials or ErrUserNotFound.
func (v *PasswordVerifier) VerifyPassword(ctx context.Context, email, password string) (string, error) {
	var ok signInResponse
	var failed signInError
	resp, err := v.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", v.apiKey).
		SetBody(signInRequest{Email: email, Password: password}).
		SetResult(&ok).
		SetError(&failed).
		Post("/accounts:signInWithPassword")
	if err != nil {
		return "", fmt.Errorf("identity: verify password: %w", err)
	}

	if resp.IsError() {
		msg := failed.Error.Message
		switch {
		case strings.HasPrefix(msg, "EMAIL_NOT_FOUND"):
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, msg)
		case strings.HasPrefix(msg, "INVALID_PASSWORD"),
			strings.HasPrefix(msg, "INVALID_LOGIN_CREDENTIALS"),
			strings.HasPrefix(msg, "USER_DISABLED"):
			return "", fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
		default:
			return "", fmt.Errorf("identity: verify password: status %d: %s", resp.StatusCode(), msg)
		}
	}
	return ok.LocalID, nil
}
