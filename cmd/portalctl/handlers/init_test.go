package handlers

import (
	"bytes"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-idm/portalctl/internal/config"
)

// saveAndRestoreInitFactories saves and restores init factory functions.
func saveAndRestoreInitFactories(t *testing.T) {
	origFileExists := fileExists
	origIsInteractive := isInteractive
	origRunWizard := runWizard
	origWriteConfig := writeConfig

	t.Cleanup(func() {
		fileExists = origFileExists
		isInteractive = origIsInteractive
		runWizard = origRunWizard
		writeConfig = origWriteConfig
	})
}

// captureOutput captures stdout produced by fn.
func captureOutput(fn func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestInit_RefusesToOverwriteWithoutForce(t *testing.T) {
	saveAndRestoreInitFactories(t)

	fileExists = func(_ string) bool { return true }
	writeConfig = func(_ *config.Config, _ string) error {
		t.Fatal("an existing file must not be overwritten without --force")
		return nil
	}

	err := Init("portalctl.yaml", true, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_ForceOverwrites(t *testing.T) {
	saveAndRestoreInitFactories(t)

	written := false
	fileExists = func(_ string) bool { return true }
	writeConfig = func(_ *config.Config, _ string) error {
		written = true
		return nil
	}

	captureOutput(func() {
		require.NoError(t, Init("portalctl.yaml", true, true))
	})
	assert.True(t, written)
}

func TestInit_DefaultsSkipTheWizard(t *testing.T) {
	saveAndRestoreInitFactories(t)

	var gotCfg *config.Config
	var gotPath string
	fileExists = func(_ string) bool { return false }
	isInteractive = func() bool { return true }
	runWizard = func() (*config.WizardResult, error) {
		t.Fatal("wizard must not run with --defaults")
		return nil, nil
	}
	writeConfig = func(cfg *config.Config, path string) error {
		gotCfg, gotPath = cfg, path
		return nil
	}

	captureOutput(func() {
		require.NoError(t, Init("", true, false))
	})

	assert.Equal(t, config.DefaultConfigFile, gotPath, "empty output path falls back to the default file")
	require.NotNil(t, gotCfg)
	assert.Equal(t, config.DefaultUserName, gotCfg.User.Name)
	assert.Equal(t, config.DefaultRoleName, gotCfg.Role.Name)
}

func TestInit_NonInteractiveFallsBackToDefaults(t *testing.T) {
	saveAndRestoreInitFactories(t)

	fileExists = func(_ string) bool { return false }
	isInteractive = func() bool { return false }
	runWizard = func() (*config.WizardResult, error) {
		t.Fatal("wizard must not run without a terminal")
		return nil, nil
	}
	writeConfig = func(_ *config.Config, _ string) error { return nil }

	captureOutput(func() {
		require.NoError(t, Init("out.yaml", false, false))
	})
}

func TestInit_WizardResultIsWritten(t *testing.T) {
	saveAndRestoreInitFactories(t)

	var gotCfg *config.Config
	fileExists = func(_ string) bool { return false }
	isInteractive = func() bool { return true }
	runWizard = func() (*config.WizardResult, error) {
		return &config.WizardResult{
			Server:        "ipa.campus.edu",
			BindUser:      "provisioner",
			UserName:      "svc-portal",
			KeytabEnabled: true,
			KeytabPath:    "/srv/portal/portal.keytab",
			KeytabOwner:   "nginx",
		}, nil
	}
	writeConfig = func(cfg *config.Config, _ string) error {
		gotCfg = cfg
		return nil
	}

	output := captureOutput(func() {
		require.NoError(t, Init("out.yaml", false, false))
	})

	require.NotNil(t, gotCfg)
	assert.Equal(t, "ipa.campus.edu", gotCfg.Server)
	assert.Equal(t, "provisioner", gotCfg.BindUser)
	assert.Equal(t, "svc-portal", gotCfg.User.Name)
	assert.Equal(t, "/srv/portal/portal.keytab", gotCfg.Keytab.Path)
	assert.Equal(t, "nginx", gotCfg.Keytab.Owner)

	assert.Contains(t, output, "Configuration saved!")
	assert.Contains(t, output, "IPA_PASSWORD")
}

func TestInit_WizardErrorPropagates(t *testing.T) {
	saveAndRestoreInitFactories(t)

	boom := errors.New("wizard aborted: user canceled")
	fileExists = func(_ string) bool { return false }
	isInteractive = func() bool { return true }
	runWizard = func() (*config.WizardResult, error) { return nil, boom }
	writeConfig = func(_ *config.Config, _ string) error {
		t.Fatal("nothing must be written when the wizard fails")
		return nil
	}

	var err error
	captureOutput(func() {
		err = Init("out.yaml", false, false)
	})
	assert.ErrorIs(t, err, boom)
}

func TestInit_WriteErrorPropagates(t *testing.T) {
	saveAndRestoreInitFactories(t)

	boom := errors.New("failed to write config file")
	fileExists = func(_ string) bool { return false }
	writeConfig = func(_ *config.Config, _ string) error { return boom }

	err := Init("out.yaml", true, false)
	assert.ErrorIs(t, err, boom)
}
