package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_PATH", "VERSION", "LOG_LEVEL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "ENRICHMENT_BUDGET",
		"MERGE_THRESHOLD", "ACCOUNTS_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "contacts.db", cfg.DatabasePath)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.OpenAIKey)
	assert.Zero(t, cfg.EnrichmentBudget)
	assert.InDelta(t, 0.9, cfg.MergeThreshold, 1e-9)
	assert.Equal(t, "accounts.yaml", cfg.AccountsFile)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")
	t.Setenv("MERGE_THRESHOLD", "0.75")
	t.Setenv("ENRICHMENT_BUDGET", "1.5")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.InDelta(t, 0.75, cfg.MergeThreshold, 1e-9)
	assert.InDelta(t, 1.5, cfg.EnrichmentBudget, 1e-9)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
}

func TestLoadIgnoresMalformedFloat(t *testing.T) {
	t.Setenv("MERGE_THRESHOLD", "not-a-number")
	cfg := Load()
	assert.InDelta(t, 0.9, cfg.MergeThreshold, 1e-9)
}

func TestLoadAccounts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.yaml")
	content := `accounts:
  - provider: imap
    email: owner@example.com
    server: imap.example.com
    port: 993
    password_env: IMAP_PASSWORD
  - provider: mailbox
    email: owner@gmail.com
    path: /data/archive.mbox
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := &Config{AccountsFile: path}
	accounts, err := cfg.LoadAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	assert.Equal(t, "imap", accounts[0].Provider)
	assert.Equal(t, "owner@example.com", accounts[0].Email)
	assert.Equal(t, "imap.example.com", accounts[0].Server)
	assert.Equal(t, 993, accounts[0].Port)
	assert.Equal(t, "IMAP_PASSWORD", accounts[0].PasswordEnv)

	assert.Equal(t, "mailbox", accounts[1].Provider)
	assert.Equal(t, "/data/archive.mbox", accounts[1].Path)
}

func TestLoadAccountsRejectsMissingEmail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("accounts:\n  - provider: imap\n"), 0o644))

	cfg := &Config{AccountsFile: path}
	_, err := cfg.LoadAccounts()
	assert.Error(t, err)
}

func TestLoadAccountsMissingFile(t *testing.T) {
	cfg := &Config{AccountsFile: "/does/not/exist.yaml"}
	_, err := cfg.LoadAccounts()
	assert.Error(t, err)
}

func TestAccountPassword(t *testing.T) {
	t.Setenv("IMAP_PASSWORD", "secret")

	assert.Equal(t, "secret", Account{PasswordEnv: "IMAP_PASSWORD"}.Password())
	assert.Empty(t, Account{}.Password())
}

func TestSetupLogger(t *testing.T) {
	cfg := &Config{Version: "test", LogLevel: "warn"}
	logger := cfg.SetupLogger()
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	cfg.LogLevel = "bogus"
	logger = cfg.SetupLogger()
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
