package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityToolkit(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "web-key", r.URL.Query().Get("key"))

		var body signInRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		switch {
		case body.Email == "ghost@example.com":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"EMAIL_NOT_FOUND"}}`))
		case body.Password != "correct":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
		default:
			_, _ = w.Write([]byte(`{"localId":"uid-1","email":"` + body.Email + `"}`))
		}
	}))
}

func TestVerifyPassword(t *testing.T) {
	srv := newIdentityToolkit(t)
	defer srv.Close()
	v := NewPasswordVerifier(srv.URL+"/", "web-key")

	uid, err := v.VerifyPassword(context.Background(), "ada@example.com", "correct")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	_, err = v.VerifyPassword(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = v.VerifyPassword(context.Background(), "ghost@example.com", "correct")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
