package api

import "tutor-backend-go/internal/models"

// ErrorResponse is the callable error envelope: {"error":{"code","message"}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody holds a machine readable code and a caller-safe message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AuthTokenEnvelope wraps the auth request the way callable clients send it.
type AuthTokenEnvelope struct {
	Data models.AuthTokenRequest `json:"data"`
}

// AuthTokenResponse is returned on a successful token issue: {"data":{"token"}}.
type AuthTokenResponse struct {
	Data TokenData `json:"data"`
}

// TokenData carries the custom token.
type TokenData struct {
	Token string `json:"token"`
}

// ChatEnvelope wraps the chat request the way callable clients send it.
type ChatEnvelope struct {
	Data models.ChatRequest `json:"data"`
}

// ChatResponse is returned on a successful exchange: {"result":{"reply"}}.
type ChatResponse struct {
	Result ChatResult `json:"result"`
}

// ChatResult carries the model reply.
type ChatResult struct {
	Reply string `json:"reply"`
}

func errorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
}
