package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFiles(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

func TestMustLoad(t *testing.T) {
	public := "listen_addr: ':8081'\n" +
		"api_base_url: 'http://localhost:4000'\n" +
		"auth_base_url: 'https://auth.example.com'\n" +
		"secure_cookies: true\n" +
		"log_level: 'debug'\n" +
		"request_timeout: 10s\n" +
		"session_ttl: 720h\n" +
		"events_per_page: 20\n" +
		"allowed_origins:\n  - 'http://localhost:5173'\n"
	private := "auth_anon_key: 'anon-key'\n"

	cfg := MustLoad(writeConfigFiles(t, public, private))

	assert.Equal(t, ":8081", cfg.Public.ListenAddr)
	assert.Equal(t, "http://localhost:4000", cfg.Public.APIBaseURL)
	assert.Equal(t, "https://auth.example.com", cfg.Public.AuthBaseURL)
	assert.True(t, cfg.Public.SecureCookies)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Public.AllowedOrigins)
	assert.Equal(t, 20, cfg.Public.EventsPerPage)
	assert.Equal(t, "anon-key", cfg.AuthAnonKey())
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic for missing config folder, got none")
		}
	}()

	_ = MustLoad(filepath.Join(t.TempDir(), "does-not-exist"))
}
