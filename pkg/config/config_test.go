package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Load reads the working directory; run from a tempdir so a developer's
	// local config.yaml cannot leak into the test.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "provision-logs", cfg.LogDir)
	assert.Equal(t, "deploy", cfg.DeployUser)
	assert.Equal(t, 22, cfg.SSHPort)
	assert.Equal(t, "nginx:stable", cfg.WebImage)
	assert.Equal(t, 5, cfg.MonitorInterval)
	assert.Empty(t, cfg.ScriptDir)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GROUNDWORK_SSH_PORT", "2222")
	t.Setenv("GROUNDWORK_DEPLOY_USER", "ops")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2222, cfg.SSHPort)
	assert.Equal(t, "ops", cfg.DeployUser)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GROUNDWORK_SSH_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
}
