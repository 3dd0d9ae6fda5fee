package api

import (
	"errors"
	"net/http"

	"tutor-backend-go/internal/core"
	"tutor-backend-go/internal/identity"
)

// statusCodes maps service error kinds to their HTTP status and wire code.
var statusCodes = []struct {
	kind   error
	status int
	code   string
}{
	{core.ErrInvalidArgument, http.StatusBadRequest, "invalid-argument"},
	{core.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{core.ErrPermissionDenied, http.StatusForbidden, "permission-denied"},
	{core.ErrNotFound, http.StatusNotFound, "not-found"},
	{core.ErrConflict, http.StatusConflict, "already-exists"},
	{core.ErrFailedPrecondition, http.StatusPreconditionFailed, "failed-precondition"},
	{core.ErrDeadlineExceeded, http.StatusGatewayTimeout, "deadline-exceeded"},
}

// mapServiceError translates a service error into status, code and message.
func mapServiceError(err error) (int, ErrorResponse) {
	message := core.PublicMessage(err, "An internal error occurred.")
	for _, sc := range statusCodes {
		if errors.Is(err, sc.kind) {
			return sc.status, errorResponse(sc.code, message)
		}
	}
	return http.StatusInternalServerError, errorResponse("internal", message)
}

// mapAuthError translates an auth service error. Validation failures are 400;
// every other failure is a 401 with a generalized message so the response
// does not reveal which field was wrong.
func mapAuthError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest, errorResponse("invalid-argument", core.PublicMessage(err, "Invalid request."))
	case errors.Is(err, identity.ErrEmailAlreadyExists):
		return http.StatusUnauthorized, errorResponse("auth/email-already-exists", "This email address is already in use.")
	case errors.Is(err, identity.ErrUserNotFound):
		return http.StatusUnauthorized, errorResponse("auth/user-not-found", "Invalid credentials or user does not exist.")
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse("auth/invalid-credential", "Invalid credentials or user does not exist.")
	default:
		return http.StatusUnauthorized, errorResponse("unknown", "Invalid credentials or user does not exist.")
	}
}
