package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "professional", cfg.Outreach.Tone)
	assert.Equal(t, "emailed_companies.json", cfg.Outreach.ContactedPath)
	assert.Equal(t, "https://outlook.office.com/mail/", cfg.Webmail.MailURL)
	assert.Equal(t, "outlook_session.json", cfg.Webmail.SessionPath)
	assert.Equal(t, 120, cfg.Webmail.LoginWaitSecs)
	assert.Equal(t, 20, cfg.Anthropic.RequestsPerMinute)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
outreach:
  criteria: "robotics startups"
  max_candidates: 5
  no_confirm: true
  attach:
    - pitch.pdf
webmail:
  headless: true
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "robotics startups", cfg.Outreach.Criteria)
	assert.Equal(t, 5, cfg.Outreach.MaxCandidates)
	assert.True(t, cfg.Outreach.NoConfirm)
	assert.Equal(t, []string{"pitch.pdf"}, cfg.Outreach.Attach)
	assert.True(t, cfg.Webmail.Headless)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched sections keep defaults.
	assert.Equal(t, "professional", cfg.Outreach.Tone)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OUTREACH_ANTHROPIC_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
}

func TestExample_RoundTripsThroughDefaults(t *testing.T) {
	ex := Example()
	assert.NotEmpty(t, ex.Outreach.Criteria)
	assert.Equal(t, "outlook_session.json", ex.Webmail.SessionPath)
	assert.Equal(t, 8080, ex.Server.Port)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
