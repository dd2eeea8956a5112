package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portalctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFile_MinimalOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, "server: ipa.example.org\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "ipa.example.org", cfg.Server)
	// Everything else still carries the defaults.
	assert.Equal(t, DefaultPrivilegeName, cfg.Privilege.Name)
	assert.Equal(t, DefaultKeytabPath, cfg.Keytab.Path)
	assert.True(t, cfg.Keytab.Enabled)
}

func TestLoadFile_NestedOverrides(t *testing.T) {
	path := writeTempConfig(t, `
server: ipa.example.org
privilege:
  name: Helpdesk privilege
  description: Helpdesk bundle
  permissions:
    - "System: Read Users"
role:
  name: Helpdesk
user:
  name: helpdesk
keytab:
  enabled: false
tolerate_bind_errors: true
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Helpdesk privilege", cfg.Privilege.Name)
	assert.Equal(t, []string{"System: Read Users"}, cfg.Privilege.Permissions)
	assert.Equal(t, "Helpdesk", cfg.Role.Name)
	assert.Equal(t, "helpdesk", cfg.User.Name)
	assert.False(t, cfg.Keytab.Enabled)
	assert.True(t, cfg.TolerateBindErrors)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFile_BadYAML(t *testing.T) {
	path := writeTempConfig(t, "server: [unclosed\n")
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}

func TestLoad_EnvCredentials(t *testing.T) {
	t.Setenv("IPA_SERVER", "ipa.env.example.org")
	t.Setenv("IPA_USER", "svc-provision")
	t.Setenv("IPA_PASSWORD", "hunter2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ipa.env.example.org", cfg.Server)
	assert.Equal(t, "svc-provision", cfg.BindUser)
	assert.Equal(t, "hunter2", cfg.BindPassword)
}

func TestLoad_FileOverEnvServer(t *testing.T) {
	t.Setenv("IPA_SERVER", "ipa.env.example.org")
	t.Setenv("IPA_USER", "")
	t.Setenv("IPA_PASSWORD", "")

	path := writeTempConfig(t, "server: ipa.file.example.org\nbind_user: fileuser\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ipa.file.example.org", cfg.Server)
	assert.Equal(t, "fileuser", cfg.BindUser)
	assert.Empty(t, cfg.BindPassword)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Server = "ipa.example.org"
	cfg.User.Name = "webportal"

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteFile(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ipa.example.org", loaded.Server)
	assert.Equal(t, "webportal", loaded.User.Name)
}

func TestLoadTimeouts(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("IPA_TIMEOUT_HTTP", "")
		timeouts := LoadTimeouts()
		assert.Equal(t, time.Minute, timeouts.HTTP)
		assert.Equal(t, 2*time.Minute, timeouts.Keytab)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("IPA_TIMEOUT_HTTP", "30s")
		timeouts := LoadTimeouts()
		assert.Equal(t, 30*time.Second, timeouts.HTTP)
	})

	t.Run("invalid env falls back", func(t *testing.T) {
		t.Setenv("IPA_TIMEOUT_KEYTAB", "soon")
		timeouts := LoadTimeouts()
		assert.Equal(t, 2*time.Minute, timeouts.Keytab)
	})
}
