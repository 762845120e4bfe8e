package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_AllFields(t *testing.T) {
	path := writeTempJSON(t, `{
		"app": {
			"access_token_secret": "access_secret",
			"refresh_token_secret": "refresh_secret",
			"token_issuer": "darkdrop",
			"access_token_ttl": "1h",
			"refresh_token_ttl": "168h",
			"min_password_length": 8,
			"bcrypt_cost": 12
		},
		"storage": {
			"db": {"dsn": "mongodb://localhost:27017", "name": "darkdrop", "operation_timeout": "5s"}
		},
		"server": {"http_address": "localhost:8080", "request_timeout": "30s", "secure_cookies": true},
		"blob": {"upload_endpoint": "https://upload.example.com", "private_key": "pk", "max_upload_size": 20971520, "max_files": 5},
		"oauth": {"google": {"client_id": "id", "client_secret": "secret", "callback_url": "https://cb"}}
	}`)

	cfg, err := parseJSON(path)

	require.NoError(t, err)
	assert.Equal(t, "access_secret", cfg.App.AccessTokenSecret)
	assert.Equal(t, "refresh_secret", cfg.App.RefreshTokenSecret)
	assert.Equal(t, time.Hour, cfg.App.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.App.RefreshTokenTTL)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Storage.DB.DSN)
	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.True(t, cfg.Server.SecureCookies)
	assert.Equal(t, int64(20971520), cfg.Blob.MaxUploadSize)
	assert.True(t, cfg.OAuth.Google.Enabled())
}

func TestParseJSON_NumericDuration(t *testing.T) {
	path := writeTempJSON(t, `{"server": {"request_timeout": 30000000000}}`)

	cfg, err := parseJSON(path)

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
}

func TestParseJSON_FileMissing(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	path := writeTempJSON(t, `{not json`)
	_, err := parseJSON(path)
	require.Error(t, err)
}

func TestDuration_UnmarshalJSON_InvalidType(t *testing.T) {
	var d Duration
	require.Error(t, d.UnmarshalJSON([]byte(`true`)))
}

func TestDuration_UnmarshalJSON_BadString(t *testing.T) {
	var d Duration
	require.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))
}
