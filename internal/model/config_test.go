package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "claude-sonnet-4-20250514", cfg.AI.Model)
	assert.Equal(t, 1024, cfg.AI.MaxTokens)
	assert.Equal(t, "993", cfg.Mailbox.Port)
	assert.True(t, cfg.Mailbox.TLS)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Equal(t, "drafts", cfg.DraftsDir)
	assert.Equal(t, "sample_emails.json", cfg.InputFile)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
ai:
  api_key: file-key
  max_tokens: 2048
mailbox:
  host: imap.example.com
  username: alice
  password: secret
drafts_dir: /tmp/my-drafts
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.AI.APIKey)
	assert.Equal(t, 2048, cfg.AI.MaxTokens)
	assert.True(t, cfg.Mailbox.Configured())
	assert.Equal(t, "/tmp/my-drafts", cfg.DraftsDir)
	// Untouched keys keep their defaults.
	assert.Equal(t, "993", cfg.Mailbox.Port)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MAILASSISTANT_AI_API_KEY", "env-key")
	t.Setenv("MAILASSISTANT_MAILBOX_PASSWORD", "env-pass")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, "env-pass", cfg.Mailbox.Password)
}

func TestMailboxConfigured(t *testing.T) {
	assert.False(t, MailboxConfig{}.Configured())
	assert.False(t, MailboxConfig{Host: "h", Username: "u"}.Configured())
	assert.True(t, MailboxConfig{Host: "h", Username: "u", Password: "p"}.Configured())
}

func TestSMTPConfigured(t *testing.T) {
	assert.False(t, SMTPConfig{Host: "h"}.Configured())
	assert.True(t, SMTPConfig{Host: "h", Username: "u", Password: "p"}.Configured())
}
