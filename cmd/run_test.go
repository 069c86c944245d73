package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-cli/internal/config"
)

func TestBuildRequest_RequiresCriteriaOrListFile(t *testing.T) {
	cfg = config.Example()
	cfg.Outreach.Criteria = ""
	cfg.Outreach.ListFile = ""

	_, err := buildRequest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--criteria or --list-file")
}

func TestBuildRequest_CriteriaDrivesDiscovery(t *testing.T) {
	cfg = config.Example()
	cfg.Outreach.Criteria = "fintech startups"
	cfg.Outreach.ListFile = ""
	cfg.Outreach.MaxCandidates = 3
	cfg.Outreach.NoConfirm = false

	req, err := buildRequest()
	require.NoError(t, err)

	assert.Equal(t, "fintech startups", req.Criteria)
	assert.Nil(t, req.Candidates)
	assert.Equal(t, 3, req.MaxCandidates)
	assert.True(t, req.ConfirmBeforeSend)
	assert.True(t, req.Interactive)
}

func TestBuildRequest_ListFileSuppliesCandidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	content := "# prospects\nAcme | acme.com | widgets\nglobex.com\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg = config.Example()
	cfg.Outreach.Criteria = ""
	cfg.Outreach.ListFile = path

	req, err := buildRequest()
	require.NoError(t, err)
	require.Len(t, req.Candidates, 2)
	assert.Equal(t, "Acme", req.Candidates[0].Name)
	assert.Equal(t, "globex.com", req.Candidates[1].Domain)
}

func TestBuildRequest_ListFileMissing(t *testing.T) {
	cfg = config.Example()
	cfg.Outreach.Criteria = ""
	cfg.Outreach.ListFile = filepath.Join(t.TempDir(), "absent.txt")

	_, err := buildRequest()
	require.Error(t, err)
}

func TestBuildRequest_HeadlessDisablesInteractive(t *testing.T) {
	cfg = config.Example()
	cfg.Outreach.Criteria = "anything"
	cfg.Webmail.Headless = true
	cfg.Outreach.NoConfirm = true

	req, err := buildRequest()
	require.NoError(t, err)
	assert.False(t, req.Interactive)
	assert.False(t, req.ConfirmBeforeSend)
}
