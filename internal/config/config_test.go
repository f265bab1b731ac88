package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "SERVER_ADDR", "WORDS_FILE", "EVENT_MAX_AGE", "RATE_LIMIT_PER_MINUTE", "SMTP_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, ":3000", cfg.ServerAddr)
	assert.Equal(t, "words.yaml", cfg.WordsFile)
	assert.Zero(t, cfg.EventMaxAge)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.False(t, cfg.IsEmailEnabled())
	assert.False(t, cfg.IsOIDCEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("EVENT_MAX_AGE", "720h")
	t.Setenv("STATUS_SWEEP_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "20")
	t.Setenv("SMTP_ENABLED", "true")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")
	t.Setenv("OIDC_ISSUER", "https://id.example.com")

	cfg := Load()

	assert.False(t, cfg.IsDev())
	assert.Equal(t, 720*time.Hour, cfg.EventMaxAge)
	assert.Equal(t, time.Minute, cfg.StatusSweepInterval)
	assert.Equal(t, 20, cfg.RateLimitPerMinute)
	assert.True(t, cfg.IsEmailEnabled())
	assert.True(t, cfg.IsOIDCEnabled())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("EVENT_MAX_AGE", "a year")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("SMTP_ENABLED", "maybe")

	cfg := Load()

	assert.Zero(t, cfg.EventMaxAge)
	assert.Equal(t, 100, cfg.RateLimitPerMinute)
	assert.False(t, cfg.SMTPEnabled)
}

func TestIsMTLSEnabled(t *testing.T) {
	assert.False(t, (&Config{TLSEnabled: true}).IsMTLSEnabled())
	assert.False(t, (&Config{TLSCAFile: "ca.pem"}).IsMTLSEnabled())
	assert.True(t, (&Config{TLSEnabled: true, TLSCAFile: "ca.pem"}).IsMTLSEnabled())
}

func TestParseWordLists(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    *WordLists
		wantErr bool
		errIs   error
	}{
		{
			name: "both lists",
			yaml: "forbidden:\n  - spam\n  - scam\nunnecessary:\n  - test\n",
			want: &WordLists{Forbidden: []string{"spam", "scam"}, Unnecessary: []string{"test"}},
		},
		{
			name: "only forbidden",
			yaml: "forbidden: [spam]\n",
			want: &WordLists{Forbidden: []string{"spam"}},
		},
		{
			name:    "empty document",
			yaml:    "",
			wantErr: true,
			errIs:   ErrNoWords,
		},
		{
			name:    "empty lists",
			yaml:    "forbidden: []\nunnecessary: []\n",
			wantErr: true,
			errIs:   ErrNoWords,
		},
		{
			name:    "unknown key",
			yaml:    "forbiden:\n  - spam\n",
			wantErr: true,
		},
		{
			name:    "malformed",
			yaml:    "forbidden: [spam\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWordLists([]byte(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadWordLists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte("forbidden:\n  - casino\nunnecessary:\n  - promo\n"), 0o600))

	lists, err := LoadWordLists(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"casino"}, lists.Forbidden)
	assert.Equal(t, []string{"promo"}, lists.Unnecessary)

	_, err = LoadWordLists(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
