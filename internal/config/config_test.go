package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("FIREBASE_PROJECT_ID", "tutor-test")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_API_URL", "https://example.com/v1beta/models/gemini:generateContent")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(5), cfg.FreeMessageLimit)
	assert.Equal(t, 55*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.MaxHistoryTurns)
	assert.Equal(t, 4, cfg.ImageFetchConcurrency)
	assert.Equal(t, time.Hour, cfg.ImageCacheTTL)
	assert.Equal(t, []string{"https://a1dos-creations.com", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.VerifyLoginPassword)
	assert.False(t, cfg.IsRelease())
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , https://b.example,")
	t.Setenv("FREE_MESSAGE_LIMIT", "10")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("REQUEST_TIMEOUT", "6s")
	t.Setenv("GIN_MODE", "release")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(10), cfg.FreeMessageLimit)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.True(t, cfg.IsRelease())
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing api key",
			env:  map[string]string{"GEMINI_API_KEY": ""},
			want: "GEMINI_API_KEY is required",
		},
		{
			name: "missing api url",
			env:  map[string]string{"GEMINI_API_URL": ""},
			want: "GEMINI_API_URL is required",
		},
		{
			name: "provider timeout not shorter than request timeout",
			env:  map[string]string{"PROVIDER_TIMEOUT": "60s", "REQUEST_TIMEOUT": "60s"},
			want: "must be shorter than REQUEST_TIMEOUT",
		},
		{
			name: "password verification without web api key",
			env:  map[string]string{"VERIFY_LOGIN_PASSWORD": "true"},
			want: "FIREBASE_WEB_API_KEY is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
