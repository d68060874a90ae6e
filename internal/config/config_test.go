package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing-but-unused"))
	require.Error(t, err, "explicit path that does not exist should fail")

	cfg, err = Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "./uploads", cfg.Upload.Dir)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  host: 127.0.0.1
  port: 9090
  allowed_origins:
    - https://example.com
upload:
  dir: /tmp/docs
  max_file_size: 1048576
llm:
  model: gpt-4o-mini
  max_tokens: 512
  streaming: true
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/docs", cfg.Upload.Dir)
	assert.Equal(t, int64(1<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 512, cfg.LLM.MaxTokens)
	assert.True(t, cfg.LLM.Streaming)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8123")
	t.Setenv("UPLOAD_DIR", "/srv/uploads")
	t.Setenv("CHAT_MODEL", "gpt-4o-mini")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, "/srv/uploads", cfg.Upload.Dir)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 99999
	assert.Error(t, cfg.Validate())

	cfg = &Config{}
	cfg.Upload.MaxFileSize = -1
	assert.Error(t, cfg.Validate())

	cfg = &Config{}
	cfg.LLM.MaxTokens = -5
	assert.Error(t, cfg.Validate())
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
