package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContentSendsPromptAndReturnsText(t *testing.T) {
	var got GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"What do you "},{"text":"already know?"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second)
	reply, err := c.GenerateContent(context.Background(), GenerateRequest{
		Contents:          []Content{{Role: "user", Parts: []Part{TextPart("What is the capital of France?")}}},
		SystemInstruction: &Content{Parts: []Part{TextPart("be a tutor")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "What do you already know?", reply)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "What is the capital of France?", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be a tutor", got.SystemInstruction.Parts[0].Text)
}

func TestGenerateContentErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "non-success status", status: http.StatusInternalServerError, body: `{"error":"boom"}`, wantErr: ErrBadStatus},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: ErrEmptyResponse},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantErr: ErrEmptyResponse},
		{name: "blank text", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, wantErr: ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "k", time.Second).GenerateContent(context.Background(), GenerateRequest{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateContentTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, "k", 50*time.Millisecond).GenerateContent(context.Background(), GenerateRequest{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
